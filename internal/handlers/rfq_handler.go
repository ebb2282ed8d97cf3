package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/services"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/utils"

	"github.com/go-chi/chi/v5"
)

// RFQHandler - структура для обработки HTTP-запросов по запросам котировок.
type RFQHandler struct {
	Service *services.RFQService
	Offers  *services.OfferService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRFQHandler создаёт новый экземпляр RFQHandler.
func NewRFQHandler(service *services.RFQService, offers *services.OfferService, logger *slog.Logger, timeout time.Duration) *RFQHandler {
	return &RFQHandler{
		Service: service,
		Offers:  offers,
		Logger:  logger,
		Timeout: timeout,
	}
}

// ListRFQs обрабатывает запросы для получения списка RFQ.
func (h *RFQHandler) ListRFQs(w http.ResponseWriter, r *http.Request) {
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

	rfqs, count, err := h.Service.ListRFQs(ctx, party, listing.FilterFromQuery(r.URL.Query()), limit, offset)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, utils.NewListResponse(rfqs, count))
}

// CreateRFQ обрабатывает запросы для публикации RFQ.
func (h *RFQHandler) CreateRFQ(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	var req models.RFQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rfq, err := h.Service.CreateRFQ(ctx, party, req)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	h.Logger.Info("rfq published", "rfq_id", rfq.ID, "buyer_id", rfq.BuyerID)
	utils.SendJSON(w, http.StatusCreated, rfq)
}

// GetRFQ обрабатывает запросы для получения переговоров по RFQ.
func (h *RFQHandler) GetRFQ(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	view, err := h.Service.GetNegotiation(ctx, party, chi.URLParam(r, "rfqId"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, view)
}

// CancelRFQ обрабатывает запросы для отмены RFQ.
func (h *RFQHandler) CancelRFQ(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	rfq, err := h.Service.CancelRFQ(ctx, party, chi.URLParam(r, "rfqId"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, rfq)
}

// ListRFQOffers обрабатывает запросы для получения предложений по RFQ.
func (h *RFQHandler) ListRFQOffers(w http.ResponseWriter, r *http.Request) {
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

	offers, count, err := h.Offers.ListRFQOffers(ctx, party, chi.URLParam(r, "rfqId"), listing.FilterFromQuery(r.URL.Query()), limit, offset)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, utils.NewListResponse(offers, count))
}
