package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	OrderStatus   string // Статус заказа
	PaymentStatus string // Статус оплаты заказа
)

const (
	CreatedOrder           OrderStatus = "created"
	ContractGeneratedOrder OrderStatus = "contract_generated"
	AwaitingPaymentOrder   OrderStatus = "awaiting_payment"
	PaymentReceivedOrder   OrderStatus = "payment_received"
	InPreparationOrder     OrderStatus = "in_preparation"
	InTransitOrder         OrderStatus = "in_transit"
	DeliveredOrder         OrderStatus = "delivered"
	ConfirmedOrder         OrderStatus = "confirmed"
	CompletedOrder         OrderStatus = "completed"
	CancelledOrder         OrderStatus = "cancelled"

	PendingPayment PaymentStatus = "pending"
	PaidPayment    PaymentStatus = "paid"
)

// OrderProgression задаёт строгий порядок прохождения заказа.
var OrderProgression = []OrderStatus{
	CreatedOrder,
	ContractGeneratedOrder,
	AwaitingPaymentOrder,
	PaymentReceivedOrder,
	InPreparationOrder,
	InTransitOrder,
	DeliveredOrder,
	ConfirmedOrder,
	CompletedOrder,
}

// OrderStatuses перечисляет все статусы заказа, включая отмену.
var OrderStatuses = append(append([]OrderStatus{}, OrderProgression...), CancelledOrder)

// PaymentStatuses перечисляет статусы оплаты.
var PaymentStatuses = []PaymentStatus{PendingPayment, PaidPayment}

// Order представляет заказ, созданный после принятия предложения.
type Order struct {
	ID             string          `json:"id"`
	OfferID        string          `json:"offerId"`
	RFQID          string          `json:"rfqId"`
	BuyerID        string          `json:"buyerId"`
	SupplierID     string          `json:"supplierId"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	OrderDate      time.Time       `json:"orderDate"`
	DeliveryDate   time.Time       `json:"deliveryDate"`
	TrackingNumber string          `json:"trackingNumber"`
	PaymentStatus  PaymentStatus   `json:"paymentStatus"`
	Status         OrderStatus     `json:"status"`

	RFQTitle     string `json:"rfqTitle,omitempty"`
	SupplierName string `json:"supplierName,omitempty"`
	Category     string `json:"category,omitempty"`
}

// IsTerminal сообщает, что заказ завершён или отменён.
func (s OrderStatus) IsTerminal() bool {
	return s == CompletedOrder || s == CancelledOrder
}

// StatusChange описывает запись истории смены статуса.
type StatusChange struct {
	Entity   string    `json:"entity" bson:"entity"`
	EntityID string    `json:"entityId" bson:"entity_id"`
	From     string    `json:"from" bson:"from"`
	To       string    `json:"to" bson:"to"`
	Role     Role      `json:"role" bson:"role"`
	ActorID  string    `json:"actorId" bson:"actor_id"`
	At       time.Time `json:"at" bson:"at"`
}
