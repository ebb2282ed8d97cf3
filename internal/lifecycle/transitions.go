package lifecycle

import (
	"fmt"
	"slices"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
)

var rfqTransitions = map[models.RFQStatus][]models.RFQStatus{
	models.ActiveRFQ:    {models.ExpiredRFQ, models.CancelledRFQ, models.CompletedRFQ},
	models.CompletedRFQ: {},
	models.CancelledRFQ: {},
	models.ExpiredRFQ:   {},
}

var offerTransitions = map[models.OfferStatus][]models.OfferStatus{
	models.PendingOffer:        {models.AcceptedOffer, models.RejectedOffer, models.CounterOfferedOffer},
	models.AcceptedOffer:       {},
	models.RejectedOffer:       {},
	models.CounterOfferedOffer: {},
}

// orderMovers задаёт роли, которым разрешено перевести заказ в статус.
var orderMovers = map[models.OrderStatus][]models.Role{
	models.ContractGeneratedOrder: {models.Supplier, models.System},
	models.AwaitingPaymentOrder:   {models.Buyer},
	models.PaymentReceivedOrder:   {models.Buyer},
	models.InPreparationOrder:     {models.Supplier},
	models.InTransitOrder:         {models.Supplier},
	models.DeliveredOrder:         {models.Supplier},
	models.ConfirmedOrder:         {models.Buyer},
	models.CompletedOrder:         {models.Buyer, models.System},
	models.CancelledOrder:         {models.Buyer, models.Supplier, models.System},
}

// CanTransitionRFQ проверяет переход статуса RFQ.
func CanTransitionRFQ(from, to models.RFQStatus) bool {
	return slices.Contains(rfqTransitions[from], to)
}

// CanTransitionOffer проверяет переход статуса предложения.
func CanTransitionOffer(from, to models.OfferStatus) bool {
	return slices.Contains(offerTransitions[from], to)
}

// NextOrderStatus возвращает следующий шаг заказа в строгом порядке.
func NextOrderStatus(from models.OrderStatus) (models.OrderStatus, bool) {
	i := slices.Index(models.OrderProgression, from)
	if i < 0 || i == len(models.OrderProgression)-1 {
		return "", false
	}
	return models.OrderProgression[i+1], true
}

// CanTransitionOrder проверяет переход статуса заказа без учёта роли.
// Отмена доступна из любого незавершённого статуса.
func CanTransitionOrder(from, to models.OrderStatus) bool {
	if from.IsTerminal() || !slices.Contains(models.OrderStatuses, from) {
		return false
	}
	if to == models.CancelledOrder {
		return true
	}
	next, ok := NextOrderStatus(from)
	return ok && next == to
}

// CanTransitionPayment разрешает только pending -> paid.
func CanTransitionPayment(from, to models.PaymentStatus) bool {
	return from == models.PendingPayment && to == models.PaidPayment
}

// TransitionRFQ меняет статус RFQ; при ошибке RFQ не меняется.
func TransitionRFQ(r *models.RFQ, to models.RFQStatus) error {
	if !CanTransitionRFQ(r.Status, to) {
		return &TransitionError{Entity: "rfq", ID: r.ID, From: string(r.Status), To: string(to)}
	}
	r.Status = to
	return nil
}

// TransitionOffer меняет статус предложения; при ошибке предложение не меняется.
func TransitionOffer(o *models.Offer, to models.OfferStatus) error {
	if !CanTransitionOffer(o.Status, to) {
		return &TransitionError{Entity: "offer", ID: o.ID, From: string(o.Status), To: string(to)}
	}
	o.Status = to
	return nil
}

// TransitionOrder продвигает заказ от имени участника.
func TransitionOrder(o *models.Order, to models.OrderStatus, party models.Party) error {
	if !CanTransitionOrder(o.Status, to) {
		return &TransitionError{Entity: "order", ID: o.ID, From: string(o.Status), To: string(to)}
	}
	if err := mayMoveOrder(o, to, party); err != nil {
		return err
	}
	if to == models.PaymentReceivedOrder && o.PaymentStatus != models.PaidPayment {
		return fmt.Errorf("order %s: %w", o.ID, ErrPaymentRequired)
	}
	o.Status = to
	return nil
}

// MarkPaid фиксирует оплату покупателем: awaiting_payment -> payment_received, pending -> paid.
func MarkPaid(o *models.Order, party models.Party) error {
	if !CanTransitionPayment(o.PaymentStatus, models.PaidPayment) {
		return &TransitionError{Entity: "payment", ID: o.ID, From: string(o.PaymentStatus), To: string(models.PaidPayment)}
	}
	if !CanTransitionOrder(o.Status, models.PaymentReceivedOrder) {
		return &TransitionError{Entity: "order", ID: o.ID, From: string(o.Status), To: string(models.PaymentReceivedOrder)}
	}
	if err := mayMoveOrder(o, models.PaymentReceivedOrder, party); err != nil {
		return err
	}
	o.PaymentStatus = models.PaidPayment
	o.Status = models.PaymentReceivedOrder
	return nil
}

func mayMoveOrder(o *models.Order, to models.OrderStatus, party models.Party) error {
	if !slices.Contains(orderMovers[to], party.Role) || !isParticipant(party, o.BuyerID, o.SupplierID) {
		return fmt.Errorf("%s %s cannot move order %s to %s: %w", party.Role, party.ID, o.ID, to, ErrNotPermitted)
	}
	return nil
}

func isParticipant(party models.Party, buyerID, supplierID string) bool {
	switch party.Role {
	case models.System:
		return true
	case models.Buyer:
		return party.ID != "" && party.ID == buyerID
	case models.Supplier:
		return party.ID != "" && party.ID == supplierID
	}
	return false
}
