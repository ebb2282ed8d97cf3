package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/lifecycle"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository"
)

// StatusHistory - журнал смены статусов.
type StatusHistory interface {
	SaveStatusChange(ctx context.Context, change models.StatusChange) error
	ListStatusChanges(ctx context.Context, entity, entityID string) ([]models.StatusChange, error)
}

// Deps - общие зависимости сервисов.
type Deps struct {
	RFQs    repository.RFQRepository
	Offers  repository.OfferRepository
	Orders  repository.OrderRepository
	History StatusHistory
	Logger  *slog.Logger
	Now     func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// record сохраняет смену статуса; ошибка журнала не прерывает операцию.
func (d Deps) record(ctx context.Context, entity, id, from, to string, party models.Party) {
	if d.History == nil {
		return
	}
	change := models.StatusChange{
		Entity:   entity,
		EntityID: id,
		From:     from,
		To:       to,
		Role:     party.Role,
		ActorID:  party.ID,
		At:       d.now(),
	}
	if err := d.History.SaveStatusChange(ctx, change); err != nil {
		d.logger().Warn("failed to record status change", "entity", entity, "id", id, "to", to, "error", err)
	}
}

// loadNegotiation собирает RFQ, его предложения и заказ.
func (d Deps) loadNegotiation(ctx context.Context, rfqID string) (*lifecycle.Negotiation, error) {
	rfq, err := d.RFQs.GetRFQ(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	offers, err := d.Offers.ListOffers(ctx, repository.OfferQuery{RFQID: rfqID})
	if err != nil {
		return nil, err
	}
	n := &lifecycle.Negotiation{RFQ: *rfq, Offers: offers}
	orders, err := d.Orders.ListOrders(ctx, repository.OrderQuery{RFQID: rfqID})
	if err != nil {
		return nil, err
	}
	if len(orders) > 0 {
		n.Order = &orders[0]
	}
	return n, nil
}

// requireParty проверяет, что участник указан и его роль известна.
func requireParty(p models.Party) error {
	if p.ID == "" || (p.Role != models.Buyer && p.Role != models.Supplier) {
		return models.BadRequest("missing or invalid query parameters: userId or role")
	}
	return nil
}

func (d Deps) toErrorResponse(err error) error {
	return errorResponse(d.logger(), err)
}

// errorResponse переводит ошибки домена и хранилища в ответ API.
func errorResponse(logger *slog.Logger, err error) error {
	var resp *models.ErrorResponse
	if errors.As(err, &resp) {
		return resp
	}
	switch {
	case errors.Is(err, lifecycle.ErrValidation), errors.Is(err, lifecycle.ErrTotalMismatch):
		return models.BadRequest(err.Error())
	case errors.Is(err, lifecycle.ErrNotPermitted):
		return models.Forbidden(err.Error())
	case errors.Is(err, lifecycle.ErrOfferNotFound), errors.Is(err, repository.ErrNotFound):
		return models.NotFound(err.Error())
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrRFQNotActive),
		errors.Is(err, lifecycle.ErrAlreadyAccepted),
		errors.Is(err, lifecycle.ErrPaymentRequired),
		errors.Is(err, repository.ErrConflict):
		return models.Conflict(err.Error())
	}
	logger.Error("unexpected service error", "error", err)
	return models.Internal()
}
