package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/lifecycle"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
)

// Orders возвращает заказы участника.
func (c *Client) Orders(ctx context.Context, f listing.Filter, p Page) (Collection[models.Order], error) {
	var out Collection[models.Order]
	err := c.do(ctx, http.MethodGet, endpoint("api", "orders"), listQuery(f, p), nil, &out)
	return out, err
}

// Order возвращает заказ по ID.
func (c *Client) Order(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, endpoint("api", "orders", id), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// NextOrder проверяет переход локально и возвращает заказ в том виде,
// в каком он станет после успешного запроса. Исходный заказ не меняется.
func (c *Client) NextOrder(order models.Order, to models.OrderStatus) (models.Order, error) {
	next := order
	var err error
	if to == models.PaymentReceivedOrder {
		err = lifecycle.MarkPaid(&next, c.party)
	} else {
		err = lifecycle.TransitionOrder(&next, to, c.party)
	}
	if err != nil {
		return order, err
	}
	return next, nil
}

// AdvanceOrder переводит заказ в следующий статус или отменяет его.
func (c *Client) AdvanceOrder(ctx context.Context, order models.Order, to models.OrderStatus) (*models.Order, error) {
	if to == models.PaymentReceivedOrder {
		return c.PayOrder(ctx, order)
	}
	if _, err := c.NextOrder(order, to); err != nil {
		return nil, err
	}
	q := url.Values{"status": {string(to)}}
	var updated models.Order
	if err := c.do(ctx, http.MethodPut, endpoint("api", "orders", order.ID, "status"), q, nil, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// PayOrder фиксирует оплату заказа покупателем.
func (c *Client) PayOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	local := order
	if err := lifecycle.MarkPaid(&local, c.party); err != nil {
		return nil, err
	}
	var updated models.Order
	if err := c.do(ctx, http.MethodPut, endpoint("api", "orders", order.ID, "pay"), nil, nil, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delivery - данные отгрузки: номер отслеживания и скан ТТН.
type Delivery struct {
	TrackingNumber string
	FileName       string
	ContentType    string
	File           io.Reader
}

// SubmitDelivery отправляет ТТН и переводит заказ в in_transit.
func (c *Client) SubmitDelivery(ctx context.Context, order models.Order, d Delivery) (*models.Order, error) {
	if strings.TrimSpace(d.TrackingNumber) == "" {
		return nil, &lifecycle.ValidationError{Field: "trackingNumber", Reason: "is required"}
	}
	local := order
	if err := lifecycle.TransitionOrder(&local, models.InTransitOrder, c.party); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("trackingNumber", d.TrackingNumber); err != nil {
		return nil, err
	}
	if d.File != nil {
		if err := writeFilePart(mw, d.FileName, d.ContentType, d.File); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint("api", "orders", order.ID, "delivery"), nil, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var updated models.Order
	if err := c.send(req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// OrderHistory возвращает историю смены статусов заказа.
func (c *Client) OrderHistory(ctx context.Context, id string) ([]models.StatusChange, error) {
	var out Collection[models.StatusChange]
	if err := c.do(ctx, http.MethodGet, endpoint("api", "orders", id, "history"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
