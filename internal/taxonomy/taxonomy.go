// Package taxonomy сопоставляет статусам подписи и категорию отображения.
package taxonomy

import (
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
)

type (
	Kind string // Тип сущности, к которой относится статус
	Tone string // Категория отображения бейджа, не привязанная к цветам
)

const (
	RFQKind     Kind = "rfqs"
	OfferKind   Kind = "offers"
	OrderKind   Kind = "orders"
	PaymentKind Kind = "payments"

	Success Tone = "success"
	Warning Tone = "warning"
	Danger  Tone = "danger"
	Info    Tone = "info"
	Neutral Tone = "neutral"
)

// Kinds перечисляет типы, для которых есть словарь статусов.
var Kinds = []Kind{RFQKind, OfferKind, OrderKind, PaymentKind}

// Badge описывает отображение одного статуса.
type Badge struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
}

type entry struct {
	label string
	tone  Tone
}

var defaults = map[Kind]map[string]entry{
	RFQKind: {
		string(models.ActiveRFQ):    {"Active", Info},
		string(models.CompletedRFQ): {"Completed", Success},
		string(models.CancelledRFQ): {"Cancelled", Danger},
		string(models.ExpiredRFQ):   {"Expired", Neutral},
	},
	OfferKind: {
		string(models.PendingOffer):        {"Pending", Warning},
		string(models.AcceptedOffer):       {"Accepted", Success},
		string(models.RejectedOffer):       {"Rejected", Danger},
		string(models.CounterOfferedOffer): {"Counter-offered", Info},
	},
	OrderKind: {
		string(models.CreatedOrder):           {"Created", Neutral},
		string(models.ContractGeneratedOrder): {"Contract generated", Info},
		string(models.AwaitingPaymentOrder):   {"Awaiting payment", Warning},
		string(models.PaymentReceivedOrder):   {"Payment received", Info},
		string(models.InPreparationOrder):     {"In preparation", Info},
		string(models.InTransitOrder):         {"In transit", Info},
		string(models.DeliveredOrder):         {"Delivered", Success},
		string(models.ConfirmedOrder):         {"Confirmed", Success},
		string(models.CompletedOrder):         {"Completed", Success},
		string(models.CancelledOrder):         {"Cancelled", Danger},
	},
	PaymentKind: {
		string(models.PendingPayment): {"Pending", Warning},
		string(models.PaidPayment):    {"Paid", Success},
	},
}

// Values возвращает статусы типа в порядке домена.
func Values(kind Kind) []string {
	var values []string
	switch kind {
	case RFQKind:
		for _, s := range models.RFQStatuses {
			values = append(values, string(s))
		}
	case OfferKind:
		for _, s := range models.OfferStatuses {
			values = append(values, string(s))
		}
	case OrderKind:
		for _, s := range models.OrderStatuses {
			values = append(values, string(s))
		}
	case PaymentKind:
		for _, s := range models.PaymentStatuses {
			values = append(values, string(s))
		}
	}
	return values
}

// Describe возвращает бейдж статуса. Неизвестный статус отображается как есть.
func Describe(kind Kind, status string) Badge {
	if e, ok := defaults[kind][status]; ok {
		return Badge{Value: status, Label: e.label, Tone: e.tone}
	}
	return Badge{Value: status, Label: status, Tone: Neutral}
}

// Options возвращает словарь статусов по умолчанию.
func Options(kind Kind) []Badge {
	values := Values(kind)
	badges := make([]Badge, 0, len(values))
	for _, v := range values {
		badges = append(badges, Describe(kind, v))
	}
	return badges
}

// Overlay накладывает подписи, полученные от сервера, на словарь по умолчанию.
// Сервер считается источником истины для набора статусов: порядок и состав
// берутся из remote, категория отображения из словаря по умолчанию.
func Overlay(kind Kind, remote []Badge) []Badge {
	if len(remote) == 0 {
		return Options(kind)
	}
	badges := make([]Badge, 0, len(remote))
	for _, r := range remote {
		b := Describe(kind, r.Value)
		if r.Label != "" {
			b.Label = r.Label
		}
		if r.Tone != "" {
			b.Tone = r.Tone
		}
		badges = append(badges, b)
	}
	return badges
}
