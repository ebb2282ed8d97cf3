package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OfferStatus string // Статус предложения поставщика

const (
	PendingOffer        OfferStatus = "pending"         // Ожидает решения покупателя
	AcceptedOffer       OfferStatus = "accepted"        // Предложение принято
	RejectedOffer       OfferStatus = "rejected"        // Предложение отклонено
	CounterOfferedOffer OfferStatus = "counter_offered" // Заменено встречным предложением
)

// OfferStatuses перечисляет статусы предложения в порядке отображения.
var OfferStatuses = []OfferStatus{PendingOffer, AcceptedOffer, RejectedOffer, CounterOfferedOffer}

// Offer представляет ценовое предложение поставщика по RFQ.
type Offer struct {
	ID            string          `json:"id"`
	RFQID         string          `json:"rfqId"`
	SupplierID    string          `json:"supplierId"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	DeliveryDate  time.Time       `json:"deliveryDate"`
	DeliveryTerms string          `json:"deliveryTerms"`
	Message       string          `json:"message"`
	Status        OfferStatus     `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	SupersedesID  *string         `json:"supersedesId,omitempty"`
	ProposedBy    Role            `json:"proposedBy"`

	RFQTitle     string `json:"rfqTitle,omitempty"`
	SupplierName string `json:"supplierName,omitempty"`
	Category     string `json:"category,omitempty"`
}

// OfferRequest представляет структуру запроса для создания предложения.
// TotalAmount необязателен: если задан, он должен сходиться с ценой за единицу и объёмом.
type OfferRequest struct {
	RFQID         string           `json:"rfqId"`
	SupplierID    string           `json:"supplierId"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty"`
	DeliveryDate  time.Time        `json:"deliveryDate"`
	DeliveryTerms string           `json:"deliveryTerms"`
	Message       string           `json:"message"`
}

// CounterRequest содержит новые условия встречного предложения.
type CounterRequest struct {
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	DeliveryDate  time.Time       `json:"deliveryDate"`
	DeliveryTerms string          `json:"deliveryTerms"`
	Message       string          `json:"message"`
}

// IsTerminal сообщает, что статус предложения окончательный.
func (s OfferStatus) IsTerminal() bool {
	return s == AcceptedOffer || s == RejectedOffer
}
