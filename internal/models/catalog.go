package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category представляет категорию каталога строительных материалов.
type Category struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	ParentKey *string `json:"parentKey,omitempty"`
}

// Product представляет товар в каталоге поставщика.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Brand        string          `json:"brand"`
	Grade        string          `json:"grade"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	Rating       float64         `json:"rating"`
	Status       string          `json:"status"`
	SupplierID   string          `json:"supplierId"`
	SupplierName string          `json:"supplierName,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Company представляет профиль компании покупателя или поставщика.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	TaxID     string    `json:"taxId"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CompanyRequest представляет структуру запроса для создания или обновления профиля.
type CompanyRequest struct {
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	TaxID   string `json:"taxId"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}
