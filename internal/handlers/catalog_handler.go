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
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/taxonomy"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/utils"

	"github.com/go-chi/chi/v5"
)

// CatalogHandler обслуживает справочники: категории, товары, профили компаний,
// статусы и аналитику поставщика.
type CatalogHandler struct {
	Catalog   *services.CatalogService
	Companies *services.CompanyService
	Analytics *services.AnalyticsService
	Logger    *slog.Logger
	Timeout   time.Duration
}

// NewCatalogHandler создаёт новый экземпляр CatalogHandler.
func NewCatalogHandler(catalog *services.CatalogService, companies *services.CompanyService, analytics *services.AnalyticsService, logger *slog.Logger, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		Catalog:   catalog,
		Companies: companies,
		Analytics: analytics,
		Logger:    logger,
		Timeout:   timeout,
	}
}

// ListCategories обрабатывает запросы для получения категорий.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	categories, err := h.Catalog.Categories(ctx)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, utils.NewListResponse(categories, len(categories)))
}

// ListProducts обрабатывает запросы для получения товаров каталога.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	products, count, err := h.Catalog.Products(ctx, listing.FilterFromQuery(r.URL.Query()), limit, offset)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, utils.NewListResponse(products, count))
}

// CreateCompany обрабатывает запросы для создания профиля компании.
func (h *CatalogHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	var req models.CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	company, err := h.Companies.CreateCompany(ctx, party, req)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, company)
}

// GetCompany обрабатывает запросы для получения профиля компании.
func (h *CatalogHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	company, err := h.Companies.GetCompany(ctx, chi.URLParam(r, "companyId"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, company)
}

// UpdateCompany обрабатывает запросы для изменения профиля компании.
func (h *CatalogHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	var req models.CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	company, err := h.Companies.UpdateCompany(ctx, party, chi.URLParam(r, "companyId"), req)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, company)
}

// SellerStats обрабатывает запросы для панели аналитики поставщика.
func (h *CatalogHandler) SellerStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	stats, err := h.Analytics.SellerStats(ctx, party, r.URL.Query().Get("supplierId"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, stats)
}

// Statuses возвращает обработчик со списком статусов сущности в порядке предметной области.
func Statuses(kind taxonomy.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, http.StatusOK, taxonomy.Options(kind))
	}
}
