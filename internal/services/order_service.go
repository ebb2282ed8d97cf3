package services

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/lifecycle"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository"
)

type OrderService struct {
	Deps
	Documents *DocumentService
}

// NewOrderService создаёт новый экземпляр OrderService.
func NewOrderService(deps Deps, documents *DocumentService) *OrderService {
	return &OrderService{Deps: deps, Documents: documents}
}

// ListOrders возвращает заказы, в которых участвует сторона.
func (s *OrderService) ListOrders(ctx context.Context, party models.Party, f listing.Filter, limit, offset int) ([]models.Order, int, error) {
	if err := requireParty(party); err != nil {
		return nil, 0, err
	}
	q := repository.OrderQuery{}
	if party.Role == models.Buyer {
		q.BuyerID = party.ID
	} else {
		q.SupplierID = party.ID
	}
	orders, err := s.Orders.ListOrders(ctx, q)
	if err != nil {
		return nil, 0, s.toErrorResponse(err)
	}
	filtered := listing.Apply(orders, f, listing.Orders)
	return listing.Page(filtered, limit, offset), len(filtered), nil
}

// GetOrder возвращает заказ участнику сделки.
func (s *OrderService) GetOrder(ctx context.Context, party models.Party, id string) (*models.Order, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	order, err := s.Orders.GetOrder(ctx, id)
	if err != nil {
		return nil, s.toErrorResponse(err)
	}
	if order.BuyerID != party.ID && order.SupplierID != party.ID {
		return nil, models.Forbidden("you are not a participant of this order")
	}
	return order, nil
}

// UpdateStatus переводит заказ в следующий статус или отменяет его.
func (s *OrderService) UpdateStatus(ctx context.Context, party models.Party, id, status string) (*models.Order, error) {
	if status == "" {
		return nil, models.BadRequest("missing required query parameter: status")
	}
	to := models.OrderStatus(status)
	if !slices.Contains(models.OrderStatuses, to) {
		return nil, models.BadRequest("invalid order status")
	}
	if to == models.PaymentReceivedOrder {
		return s.Pay(ctx, party, id)
	}
	order, err := s.GetOrder(ctx, party, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := lifecycle.TransitionOrder(order, to, party); err != nil {
		return nil, s.toErrorResponse(err)
	}
	if err := s.Orders.UpdateOrder(ctx, *order, from); err != nil {
		return nil, s.toErrorResponse(err)
	}
	s.record(ctx, "order", id, string(from), string(to), party)
	return order, nil
}

// Pay фиксирует оплату заказа покупателем.
func (s *OrderService) Pay(ctx context.Context, party models.Party, id string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, party, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := lifecycle.MarkPaid(order, party); err != nil {
		return nil, s.toErrorResponse(err)
	}
	if err := s.Orders.UpdateOrder(ctx, *order, from); err != nil {
		return nil, s.toErrorResponse(err)
	}
	s.record(ctx, "order", id, string(from), string(order.Status), party)
	return order, nil
}

// SubmitDelivery отправляет заказ: сохраняет номер отслеживания и ТТН, статус in_transit.
// ttn может быть nil, если накладная не прикладывается.
func (s *OrderService) SubmitDelivery(ctx context.Context, party models.Party, id, trackingNumber string, ttn *Upload) (*models.Order, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, models.BadRequest("missing required field: trackingNumber")
	}
	order, err := s.GetOrder(ctx, party, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := lifecycle.TransitionOrder(order, models.InTransitOrder, party); err != nil {
		return nil, s.toErrorResponse(err)
	}
	order.TrackingNumber = trackingNumber

	var doc *models.Document
	if ttn != nil {
		if s.Documents == nil {
			return nil, models.NewErrorResponse(http.StatusServiceUnavailable, "file uploads are not configured")
		}
		ttn.CompanyID = party.ID
		ttn.OrderID = &order.ID
		ttn.Type = models.TransportDocument
		if doc, err = s.Documents.Upload(ctx, party, *ttn); err != nil {
			return nil, err
		}
	}
	if err := s.Orders.UpdateOrder(ctx, *order, from); err != nil {
		if doc != nil {
			if delErr := s.Documents.Delete(ctx, party, doc.ID); delErr != nil {
				s.logger().Warn("failed to remove transport document", "document_id", doc.ID, "error", delErr)
			}
		}
		return nil, s.toErrorResponse(err)
	}
	s.record(ctx, "order", id, string(from), string(order.Status), party)
	return order, nil
}

// History возвращает журнал смены статусов заказа.
func (s *OrderService) History(ctx context.Context, party models.Party, id string) ([]models.StatusChange, error) {
	if _, err := s.GetOrder(ctx, party, id); err != nil {
		return nil, err
	}
	if s.Deps.History == nil {
		return []models.StatusChange{}, nil
	}
	changes, err := s.Deps.History.ListStatusChanges(ctx, "order", id)
	if err != nil {
		s.logger().Error("failed to load order history", "order_id", id, "error", err)
		return nil, models.Internal()
	}
	if changes == nil {
		changes = []models.StatusChange{}
	}
	return changes, nil
}
