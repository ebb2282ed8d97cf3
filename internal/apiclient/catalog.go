package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
)

// Categories возвращает категории каталога.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out Collection[models.Category]
	if err := c.do(ctx, http.MethodGet, endpoint("api", "categories"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Products возвращает товары каталога.
func (c *Client) Products(ctx context.Context, f listing.Filter, p Page) (Collection[models.Product], error) {
	var out Collection[models.Product]
	err := c.do(ctx, http.MethodGet, endpoint("api", "products"), listQuery(f, p), nil, &out)
	return out, err
}

// Company возвращает профиль компании.
func (c *Client) Company(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	if err := c.do(ctx, http.MethodGet, endpoint("api", "companies", id), nil, nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// SaveCompany создаёт профиль, если id пустой, иначе обновляет его.
func (c *Client) SaveCompany(ctx context.Context, id string, req models.CompanyRequest) (*models.Company, error) {
	method, target := http.MethodPost, endpoint("api", "companies")
	if id != "" {
		method, target = http.MethodPut, endpoint("api", "companies", id)
	}
	var company models.Company
	if err := c.do(ctx, method, target, nil, req, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// SellerStats возвращает агрегаты панели поставщика.
func (c *Client) SellerStats(ctx context.Context, supplierID string) (*models.SellerStats, error) {
	if supplierID == "" {
		supplierID = c.party.ID
	}
	var stats models.SellerStats
	q := url.Values{"supplierId": {supplierID}}
	if err := c.do(ctx, http.MethodGet, endpoint("api", "analytics", "seller"), q, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
