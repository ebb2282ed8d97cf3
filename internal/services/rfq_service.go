package services

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/lifecycle"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository"

	"github.com/google/uuid"
)

type RFQService struct {
	Deps
}

// NewRFQService создаёт новый экземпляр RFQService.
func NewRFQService(deps Deps) *RFQService {
	return &RFQService{Deps: deps}
}

// ListRFQs возвращает страницу запросов: покупателю - собственные, поставщику - активные.
func (s *RFQService) ListRFQs(ctx context.Context, party models.Party, f listing.Filter, limit, offset int) ([]models.RFQ, int, error) {
	if err := requireParty(party); err != nil {
		return nil, 0, err
	}
	q := repository.RFQQuery{}
	if party.Role == models.Buyer {
		q.BuyerID = party.ID
	} else {
		q.Statuses = []string{string(models.ActiveRFQ)}
	}
	rfqs, err := s.RFQs.ListRFQs(ctx, q)
	if err != nil {
		return nil, 0, s.toErrorResponse(err)
	}
	filtered := listing.Apply(rfqs, f, listing.RFQs)
	return listing.Page(filtered, limit, offset), len(filtered), nil
}

// CreateRFQ публикует новый запрос покупателя.
func (s *RFQService) CreateRFQ(ctx context.Context, party models.Party, req models.RFQRequest) (*models.RFQ, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	if party.Role != models.Buyer {
		return nil, models.Forbidden("only buyers can publish rfqs")
	}
	req.BuyerID = party.ID
	rfq, err := lifecycle.NewRFQ(uuid.NewString(), req, s.now())
	if err != nil {
		return nil, s.toErrorResponse(err)
	}
	if err := s.RFQs.CreateRFQ(ctx, *rfq); err != nil {
		return nil, s.toErrorResponse(err)
	}
	s.record(ctx, "rfq", rfq.ID, "", string(rfq.Status), party)
	return rfq, nil
}

// GetNegotiation возвращает переговоры по запросу и доступные участнику действия.
// Поставщик видит только собственные предложения.
func (s *RFQService) GetNegotiation(ctx context.Context, party models.Party, id string) (*lifecycle.View, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	n, err := s.loadNegotiation(ctx, id)
	if err != nil {
		return nil, s.toErrorResponse(err)
	}

	switch party.Role {
	case models.Buyer:
		if n.RFQ.BuyerID != party.ID {
			return nil, models.Forbidden("you are not the owner of this rfq")
		}
	case models.Supplier:
		own := slices.DeleteFunc(slices.Clone(n.Offers), func(o models.Offer) bool { return o.SupplierID != party.ID })
		if n.RFQ.Status != models.ActiveRFQ && len(own) == 0 {
			return nil, models.Forbidden("rfq is closed")
		}
		n.Offers = own
		if n.Order != nil && n.Order.SupplierID != party.ID {
			n.Order = nil
		}
	}
	view := n.ViewFor(party)
	return &view, nil
}

// CancelRFQ отменяет запрос по решению покупателя.
func (s *RFQService) CancelRFQ(ctx context.Context, party models.Party, id string) (*models.RFQ, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	n, err := s.loadNegotiation(ctx, id)
	if err != nil {
		return nil, s.toErrorResponse(err)
	}
	from := n.RFQ.Status
	if err := n.Cancel(party); err != nil {
		return nil, s.toErrorResponse(err)
	}
	if err := s.RFQs.UpdateRFQStatus(ctx, id, from, n.RFQ.Status); err != nil {
		return nil, s.toErrorResponse(err)
	}
	s.record(ctx, "rfq", id, string(from), string(n.RFQ.Status), party)
	return &n.RFQ, nil
}

// ExpireOverdue переводит просроченные активные запросы в expired и возвращает их число.
func (s *RFQService) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.now()
	overdue, err := s.RFQs.ListOverdueRFQs(ctx, now)
	if err != nil {
		return 0, err
	}
	system := models.Party{Role: models.System}
	expired := 0
	for _, rfq := range overdue {
		n, err := s.loadNegotiation(ctx, rfq.ID)
		if err != nil {
			return expired, err
		}
		if !n.Expire(now) {
			continue
		}
		err = s.RFQs.UpdateRFQStatus(ctx, rfq.ID, models.ActiveRFQ, models.ExpiredRFQ)
		if errors.Is(err, repository.ErrConflict) {
			s.logger().Debug("rfq changed before expiry", "rfq_id", rfq.ID)
			continue
		}
		if err != nil {
			return expired, err
		}
		s.record(ctx, "rfq", rfq.ID, string(models.ActiveRFQ), string(models.ExpiredRFQ), system)
		expired++
	}
	return expired, nil
}

// RunExpirySweeper периодически закрывает просроченные запросы, пока не отменён ctx.
func (s *RFQService) RunExpirySweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.logger().Warn("expiry sweeper disabled", "interval", interval.String())
		return
	}
	s.logger().Info("expiry sweeper started", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)
		select {
		case <-ctx.Done():
			s.logger().Info("expiry sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *RFQService) sweep(ctx context.Context) {
	n, err := s.ExpireOverdue(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger().Error("expiry sweep failed", "error", err)
		}
		return
	}
	if n > 0 {
		s.logger().Info("expired overdue rfqs", "count", n)
	}
}
