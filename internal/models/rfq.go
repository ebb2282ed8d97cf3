package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	RFQStatus     string // Статус запроса котировок
	PaymentMethod string // Способ оплаты
)

const (
	ActiveRFQ    RFQStatus = "active"    // Запрос открыт для предложений
	CompletedRFQ RFQStatus = "completed" // Предложение по запросу принято
	CancelledRFQ RFQStatus = "cancelled" // Запрос отменён покупателем
	ExpiredRFQ   RFQStatus = "expired"   // Срок запроса истёк

	BankPayment PaymentMethod = "bank"
	CashPayment PaymentMethod = "cash"
)

// RFQStatuses перечисляет статусы запроса в порядке отображения.
var RFQStatuses = []RFQStatus{ActiveRFQ, CompletedRFQ, CancelledRFQ, ExpiredRFQ}

// RFQ представляет модель запроса котировок (Request for Quotation).
type RFQ struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Category            string          `json:"category"`
	Subcategory         string          `json:"subcategory,omitempty"`
	Brand               string          `json:"brand"`
	Grade               string          `json:"grade"`
	Volume              decimal.Decimal `json:"volume"`
	Unit                string          `json:"unit"`
	DeliveryLocation    string          `json:"deliveryLocation"`
	DeliveryDate        time.Time       `json:"deliveryDate"`
	PaymentMethod       PaymentMethod   `json:"paymentMethod"`
	Message             string          `json:"message"`
	SpecialRequirements string          `json:"specialRequirements"`
	Status              RFQStatus       `json:"status"`
	CreatedAt           time.Time       `json:"createdAt"`
	Deadline            time.Time       `json:"deadline"`
	BuyerID             string          `json:"buyerId"`
	BuyerName           string          `json:"buyerName,omitempty"`
}

// RFQRequest представляет структуру запроса для создания RFQ.
type RFQRequest struct {
	Title               string          `json:"title"`
	Category            string          `json:"category"`
	Subcategory         string          `json:"subcategory"`
	Brand               string          `json:"brand"`
	Grade               string          `json:"grade"`
	Volume              decimal.Decimal `json:"volume"`
	Unit                string          `json:"unit"`
	DeliveryLocation    string          `json:"deliveryLocation"`
	DeliveryDate        time.Time       `json:"deliveryDate"`
	PaymentMethod       PaymentMethod   `json:"paymentMethod"`
	Message             string          `json:"message"`
	SpecialRequirements string          `json:"specialRequirements"`
	Deadline            time.Time       `json:"deadline"`
	BuyerID             string          `json:"buyerId"`
}

// IsTerminal сообщает, что из статуса нет переходов.
func (s RFQStatus) IsTerminal() bool {
	return s == CompletedRFQ || s == CancelledRFQ || s == ExpiredRFQ
}
