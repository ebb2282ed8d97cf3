package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/services"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/utils"

	"github.com/go-chi/chi/v5"
)

// OrderHandler - структура для обработки HTTP-запросов по заказам.
type OrderHandler struct {
	Service *services.OrderService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewOrderHandler создаёт новый экземпляр OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *slog.Logger, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// ListOrders обрабатывает запросы для получения заказов участника.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, count, err := h.Service.ListOrders(ctx, party, listing.FilterFromQuery(r.URL.Query()), limit, offset)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, utils.NewListResponse(orders, count))
}

// GetOrder обрабатывает запросы для получения заказа.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	order, err := h.Service.GetOrder(ctx, party, chi.URLParam(r, "orderId"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, order)
}

// UpdateOrderStatus обрабатывает запросы для смены статуса заказа.
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	order, err := h.Service.UpdateStatus(ctx, party, chi.URLParam(r, "orderId"), r.URL.Query().Get("status"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	h.Logger.Info("order status changed", "order_id", order.ID, "status", order.Status, "role", party.Role)
	utils.SendJSON(w, http.StatusOK, order)
}

// PayOrder обрабатывает запросы для подтверждения оплаты.
func (h *OrderHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	order, err := h.Service.Pay(ctx, party, chi.URLParam(r, "orderId"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	h.Logger.Info("order paid", "order_id", order.ID)
	utils.SendJSON(w, http.StatusOK, order)
}

// SubmitDelivery обрабатывает отправку заказа: номер отслеживания и файл ТТН.
func (h *OrderHandler) SubmitDelivery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	if err := parseMultipart(w, r); err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	ttn, file, err := formFile(r, "file")
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	if file != nil {
		defer file.Close()
		ttn.Name = r.FormValue("name")
	}

	order, err := h.Service.SubmitDelivery(ctx, party, chi.URLParam(r, "orderId"), r.FormValue("trackingNumber"), ttn)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	h.Logger.Info("order shipped", "order_id", order.ID, "tracking_number", order.TrackingNumber)
	utils.SendJSON(w, http.StatusOK, order)
}

// OrderHistory обрабатывает запросы для получения истории статусов заказа.
func (h *OrderHandler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	changes, err := h.Service.History(ctx, party, chi.URLParam(r, "orderId"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, utils.NewListResponse(changes, len(changes)))
}
