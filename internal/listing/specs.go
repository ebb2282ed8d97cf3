package listing

import (
	"cmp"
	"strings"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
)

// RFQs задаёт поля фильтрации запросов котировок.
var RFQs = Spec[models.RFQ]{
	Status:   func(r models.RFQ) string { return string(r.Status) },
	Category: func(r models.RFQ) string { return r.Category },
	Search:   func(r models.RFQ) []string { return []string{r.Title, r.BuyerName} },
	Sorts: map[string]func(a, b models.RFQ) int{
		"newest":   func(a, b models.RFQ) int { return b.CreatedAt.Compare(a.CreatedAt) },
		"oldest":   func(a, b models.RFQ) int { return a.CreatedAt.Compare(b.CreatedAt) },
		"deadline": func(a, b models.RFQ) int { return a.Deadline.Compare(b.Deadline) },
	},
}

// Offers задаёт поля фильтрации предложений.
var Offers = Spec[models.Offer]{
	Status:   func(o models.Offer) string { return string(o.Status) },
	Category: func(o models.Offer) string { return o.Category },
	Search:   func(o models.Offer) []string { return []string{o.RFQTitle, o.SupplierName} },
	Sorts: map[string]func(a, b models.Offer) int{
		"newest": func(a, b models.Offer) int { return b.CreatedAt.Compare(a.CreatedAt) },
		"oldest": func(a, b models.Offer) int { return a.CreatedAt.Compare(b.CreatedAt) },
		"price":  func(a, b models.Offer) int { return a.UnitPrice.Cmp(b.UnitPrice) },
	},
}

// Orders задаёт поля фильтрации заказов.
var Orders = Spec[models.Order]{
	Status:   func(o models.Order) string { return string(o.Status) },
	Category: func(o models.Order) string { return o.Category },
	Search:   func(o models.Order) []string { return []string{o.RFQTitle, o.SupplierName} },
	Sorts: map[string]func(a, b models.Order) int{
		"newest": func(a, b models.Order) int { return b.OrderDate.Compare(a.OrderDate) },
		"oldest": func(a, b models.Order) int { return a.OrderDate.Compare(b.OrderDate) },
	},
}

// Products задаёт поля фильтрации каталога товаров.
var Products = Spec[models.Product]{
	Status:   func(p models.Product) string { return p.Status },
	Category: func(p models.Product) string { return p.Category },
	Search:   func(p models.Product) []string { return []string{p.Name, p.SupplierName} },
	Sorts: map[string]func(a, b models.Product) int{
		"rating": func(a, b models.Product) int { return cmp.Compare(b.Rating, a.Rating) },
		"price":  func(a, b models.Product) int { return a.Price.Cmp(b.Price) },
		"name":   func(a, b models.Product) int { return strings.Compare(a.Name, b.Name) },
	},
}
