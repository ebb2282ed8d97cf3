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

// OfferHandler - структура для обработки HTTP-запросов по предложениям.
type OfferHandler struct {
	Service *services.OfferService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewOfferHandler создаёт новый экземпляр OfferHandler.
func NewOfferHandler(service *services.OfferService, logger *slog.Logger, timeout time.Duration) *OfferHandler {
	return &OfferHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// ListOffers обрабатывает запросы для получения предложений участника.
func (h *OfferHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
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

	offers, count, err := h.Service.ListOffers(ctx, party, listing.FilterFromQuery(r.URL.Query()), limit, offset)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, utils.NewListResponse(offers, count))
}

// CreateOffer обрабатывает запросы для подачи предложения.
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	var req models.OfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	offer, err := h.Service.CreateOffer(ctx, party, req)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	h.Logger.Info("offer submitted", "offer_id", offer.ID, "rfq_id", offer.RFQID, "supplier_id", offer.SupplierID)
	utils.SendJSON(w, http.StatusCreated, offer)
}

// AcceptOffer обрабатывает запросы для принятия предложения.
func (h *OfferHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	order, err := h.Service.AcceptOffer(ctx, party, chi.URLParam(r, "offerId"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	h.Logger.Info("offer accepted", "offer_id", order.OfferID, "order_id", order.ID)
	utils.SendJSON(w, http.StatusOK, order)
}

// RejectOffer обрабатывает запросы для отклонения предложения.
func (h *OfferHandler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	offer, err := h.Service.RejectOffer(ctx, party, chi.URLParam(r, "offerId"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, offer)
}

// CounterOffer обрабатывает запросы для встречного предложения.
func (h *OfferHandler) CounterOffer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	var req models.CounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	offer, err := h.Service.CounterOffer(ctx, party, chi.URLParam(r, "offerId"), req)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, offer)
}
