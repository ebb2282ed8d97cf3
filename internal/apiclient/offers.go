package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/lifecycle"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
)

// Offers возвращает предложения участника.
func (c *Client) Offers(ctx context.Context, f listing.Filter, p Page) (Collection[models.Offer], error) {
	var out Collection[models.Offer]
	err := c.do(ctx, http.MethodGet, endpoint("api", "offers"), listQuery(f, p), nil, &out)
	return out, err
}

// SubmitOffer отправляет предложение поставщика по активному запросу.
func (c *Client) SubmitOffer(ctx context.Context, rfq models.RFQ, req models.OfferRequest) (*models.Offer, error) {
	if c.party.Role != models.Supplier {
		return nil, fmt.Errorf("%s cannot submit offers: %w", c.party.Role, lifecycle.ErrNotPermitted)
	}
	req.RFQID = rfq.ID
	if req.SupplierID == "" {
		req.SupplierID = c.party.ID
	}
	offer, err := lifecycle.NewOffer("", req, rfq, c.now())
	if err != nil {
		return nil, err
	}
	trial := lifecycle.Negotiation{RFQ: rfq}
	if err := trial.AddOffer(offer); err != nil {
		return nil, err
	}

	var created models.Offer
	if err := c.do(ctx, http.MethodPost, endpoint("api", "offers"), nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AcceptOffer принимает предложение и возвращает созданный заказ.
func (c *Client) AcceptOffer(ctx context.Context, n lifecycle.Negotiation, offerID string) (*models.Order, error) {
	local := n.Clone()
	if _, err := local.Accept(offerID, c.party, "", c.now()); err != nil {
		return nil, err
	}
	var order models.Order
	if err := c.do(ctx, http.MethodPut, endpoint("api", "offers", offerID, "accept"), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// RejectOffer отклоняет предложение.
func (c *Client) RejectOffer(ctx context.Context, n lifecycle.Negotiation, offerID string) (*models.Offer, error) {
	local := n.Clone()
	if err := local.Reject(offerID, c.party); err != nil {
		return nil, err
	}
	var offer models.Offer
	if err := c.do(ctx, http.MethodPut, endpoint("api", "offers", offerID, "reject"), nil, nil, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// CounterOffer отвечает встречным предложением и возвращает новое предложение.
func (c *Client) CounterOffer(ctx context.Context, n lifecycle.Negotiation, offerID string, req models.CounterRequest) (*models.Offer, error) {
	local := n.Clone()
	terms := lifecycle.CounterTerms{
		UnitPrice:     req.UnitPrice,
		DeliveryDate:  req.DeliveryDate,
		DeliveryTerms: req.DeliveryTerms,
		Message:       req.Message,
	}
	if _, err := local.Counter(offerID, c.party, terms, "", c.now()); err != nil {
		return nil, err
	}
	var offer models.Offer
	if err := c.do(ctx, http.MethodPost, endpoint("api", "offers", offerID, "counter"), nil, req, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}
