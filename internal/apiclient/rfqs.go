package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/lifecycle"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
)

// RFQs возвращает запросы: покупателю - собственные, поставщику - активные.
func (c *Client) RFQs(ctx context.Context, f listing.Filter, p Page) (Collection[models.RFQ], error) {
	var out Collection[models.RFQ]
	err := c.do(ctx, http.MethodGet, endpoint("api", "rfqs"), listQuery(f, p), nil, &out)
	return out, err
}

// RFQ возвращает переговоры по запросу и действия, доступные участнику.
func (c *Client) RFQ(ctx context.Context, id string) (*lifecycle.View, error) {
	var view lifecycle.View
	if err := c.do(ctx, http.MethodGet, endpoint("api", "rfqs", id), nil, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// CreateRFQ публикует новый запрос покупателя.
func (c *Client) CreateRFQ(ctx context.Context, req models.RFQRequest) (*models.RFQ, error) {
	if c.party.Role != models.Buyer {
		return nil, fmt.Errorf("%s cannot publish rfq: %w", c.party.Role, lifecycle.ErrNotPermitted)
	}
	if req.BuyerID == "" {
		req.BuyerID = c.party.ID
	}
	if err := lifecycle.ValidateRFQRequest(req, c.now()); err != nil {
		return nil, err
	}
	var rfq models.RFQ
	if err := c.do(ctx, http.MethodPost, endpoint("api", "rfqs"), nil, req, &rfq); err != nil {
		return nil, err
	}
	return &rfq, nil
}

// CancelRFQ отменяет запрос. Недопустимая отмена отклоняется без запроса к серверу.
func (c *Client) CancelRFQ(ctx context.Context, n lifecycle.Negotiation) (*models.RFQ, error) {
	local := n.Clone()
	if err := local.Cancel(c.party); err != nil {
		return nil, err
	}
	var rfq models.RFQ
	if err := c.do(ctx, http.MethodPut, endpoint("api", "rfqs", n.RFQ.ID, "cancel"), nil, nil, &rfq); err != nil {
		return nil, err
	}
	return &rfq, nil
}

// RFQOffers возвращает предложения по запросу.
func (c *Client) RFQOffers(ctx context.Context, rfqID string) (Collection[models.Offer], error) {
	var out Collection[models.Offer]
	err := c.do(ctx, http.MethodGet, endpoint("api", "rfqs", rfqID, "offers"), nil, nil, &out)
	return out, err
}
