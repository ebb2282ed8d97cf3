package services

import (
	"context"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/lifecycle"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository"

	"github.com/google/uuid"
)

type OfferService struct {
	Deps
}

// NewOfferService создаёт новый экземпляр OfferService.
func NewOfferService(deps Deps) *OfferService {
	return &OfferService{Deps: deps}
}

// ListOffers возвращает предложения участника: поставщику - поданные им, покупателю - по его запросам.
func (s *OfferService) ListOffers(ctx context.Context, party models.Party, f listing.Filter, limit, offset int) ([]models.Offer, int, error) {
	if err := requireParty(party); err != nil {
		return nil, 0, err
	}
	q := repository.OfferQuery{}
	if party.Role == models.Supplier {
		q.SupplierID = party.ID
	} else {
		q.BuyerID = party.ID
	}
	offers, err := s.Offers.ListOffers(ctx, q)
	if err != nil {
		return nil, 0, s.toErrorResponse(err)
	}
	filtered := listing.Apply(offers, f, listing.Offers)
	return listing.Page(filtered, limit, offset), len(filtered), nil
}

// ListRFQOffers возвращает предложения по запросу, видимые участнику.
func (s *OfferService) ListRFQOffers(ctx context.Context, party models.Party, rfqID string, f listing.Filter, limit, offset int) ([]models.Offer, int, error) {
	if err := requireParty(party); err != nil {
		return nil, 0, err
	}
	rfq, err := s.RFQs.GetRFQ(ctx, rfqID)
	if err != nil {
		return nil, 0, s.toErrorResponse(err)
	}
	q := repository.OfferQuery{RFQID: rfqID}
	switch party.Role {
	case models.Buyer:
		if rfq.BuyerID != party.ID {
			return nil, 0, models.Forbidden("you are not the owner of this rfq")
		}
	case models.Supplier:
		q.SupplierID = party.ID
	}
	offers, err := s.Offers.ListOffers(ctx, q)
	if err != nil {
		return nil, 0, s.toErrorResponse(err)
	}
	filtered := listing.Apply(offers, f, listing.Offers)
	return listing.Page(filtered, limit, offset), len(filtered), nil
}

// CreateOffer подаёт предложение поставщика по активному запросу.
func (s *OfferService) CreateOffer(ctx context.Context, party models.Party, req models.OfferRequest) (*models.Offer, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	if party.Role != models.Supplier {
		return nil, models.Forbidden("only suppliers can submit offers")
	}
	if req.RFQID == "" {
		return nil, models.BadRequest("missing required field: rfqId")
	}
	req.SupplierID = party.ID

	n, err := s.loadNegotiation(ctx, req.RFQID)
	if err != nil {
		return nil, s.toErrorResponse(err)
	}
	offer, err := lifecycle.NewOffer(uuid.NewString(), req, n.RFQ, s.now())
	if err != nil {
		return nil, s.toErrorResponse(err)
	}
	if err := n.AddOffer(offer); err != nil {
		return nil, s.toErrorResponse(err)
	}
	if err := s.Offers.CreateOffer(ctx, offer); err != nil {
		return nil, s.toErrorResponse(err)
	}
	s.record(ctx, "offer", offer.ID, "", string(offer.Status), party)
	return &offer, nil
}

// AcceptOffer принимает предложение и создаёт заказ.
func (s *OfferService) AcceptOffer(ctx context.Context, party models.Party, offerID string) (*models.Order, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	n, err := s.negotiationFor(ctx, offerID)
	if err != nil {
		return nil, err
	}
	order, err := n.Accept(offerID, party, uuid.NewString(), s.now())
	if err != nil {
		return nil, s.toErrorResponse(err)
	}
	offer, _ := n.Offer(offerID)
	if err := s.Offers.SaveAcceptance(ctx, *offer, *order); err != nil {
		return nil, s.toErrorResponse(err)
	}
	s.record(ctx, "offer", offer.ID, string(models.PendingOffer), string(models.AcceptedOffer), party)
	s.record(ctx, "rfq", n.RFQ.ID, string(models.ActiveRFQ), string(models.CompletedRFQ), party)
	s.record(ctx, "order", order.ID, "", string(order.Status), party)
	return order, nil
}

// RejectOffer отклоняет ожидающее предложение.
func (s *OfferService) RejectOffer(ctx context.Context, party models.Party, offerID string) (*models.Offer, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	n, err := s.negotiationFor(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := n.Reject(offerID, party); err != nil {
		return nil, s.toErrorResponse(err)
	}
	offer, _ := n.Offer(offerID)
	if err := s.Offers.UpdateOfferStatus(ctx, offerID, models.PendingOffer, models.RejectedOffer); err != nil {
		return nil, s.toErrorResponse(err)
	}
	s.record(ctx, "offer", offerID, string(models.PendingOffer), string(models.RejectedOffer), party)
	return offer, nil
}

// CounterOffer заменяет предложение встречным с новыми условиями.
func (s *OfferService) CounterOffer(ctx context.Context, party models.Party, offerID string, req models.CounterRequest) (*models.Offer, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	n, err := s.negotiationFor(ctx, offerID)
	if err != nil {
		return nil, err
	}
	terms := lifecycle.CounterTerms{
		UnitPrice:     req.UnitPrice,
		DeliveryDate:  req.DeliveryDate,
		DeliveryTerms: req.DeliveryTerms,
		Message:       req.Message,
	}
	next, err := n.Counter(offerID, party, terms, uuid.NewString(), s.now())
	if err != nil {
		return nil, s.toErrorResponse(err)
	}
	prior, _ := n.Offer(offerID)
	if err := s.Offers.SaveCounter(ctx, *prior, *next); err != nil {
		return nil, s.toErrorResponse(err)
	}
	s.record(ctx, "offer", offerID, string(models.PendingOffer), string(models.CounterOfferedOffer), party)
	s.record(ctx, "offer", next.ID, "", string(next.Status), party)
	return next, nil
}

func (s *OfferService) negotiationFor(ctx context.Context, offerID string) (*lifecycle.Negotiation, error) {
	offer, err := s.Offers.GetOffer(ctx, offerID)
	if err != nil {
		return nil, s.toErrorResponse(err)
	}
	n, err := s.loadNegotiation(ctx, offer.RFQID)
	if err != nil {
		return nil, s.toErrorResponse(err)
	}
	return n, nil
}
