package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/services"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/utils"

	"github.com/go-chi/chi/v5"
)

// DocumentHandler - структура для обработки HTTP-запросов по документам компании.
type DocumentHandler struct {
	Service *services.DocumentService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewDocumentHandler создаёт новый экземпляр DocumentHandler.
func NewDocumentHandler(service *services.DocumentService, logger *slog.Logger, timeout time.Duration) *DocumentHandler {
	return &DocumentHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// parseMultipart ограничивает размер тела и разбирает форму.
func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize)
	if err := r.ParseMultipartForm(services.MaxUploadSize); err != nil {
		return models.BadRequest("invalid multipart form or file too large (max 10 MB)")
	}
	return nil
}

// formFile читает файл из поля field. Если файла нет, возвращает nil без ошибки.
func formFile(r *http.Request, field string) (*services.Upload, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, models.BadRequest("invalid file upload")
	}
	up := &services.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		File:        file,
	}
	return up, file, nil
}

// UploadDocument обрабатывает загрузку документа компании.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
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
	up, file, err := formFile(r, "file")
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	if up == nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	up.Name = r.FormValue("name")
	up.Type = models.DocumentType(r.FormValue("type"))
	up.CompanyID = r.FormValue("companyId")

	doc, err := h.Service.Upload(ctx, party, *up)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, doc)
}

// ListDocuments обрабатывает запросы для получения документов компании.
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	docs, err := h.Service.List(ctx, party, r.URL.Query().Get("companyId"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, utils.NewListResponse(docs, len(docs)))
}

// DownloadDocument отдаёт содержимое документа.
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	doc, body, err := h.Service.Open(ctx, party, chi.URLParam(r, "documentId"))
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(doc.Name))
	if doc.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	}
	if _, err := io.Copy(w, body); err != nil {
		h.Logger.Error("failed to stream document", "document_id", doc.ID, "error", err)
	}
}

// DeleteDocument обрабатывает запросы для удаления документа.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	party, err := utils.ParseParty(r)
	if err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	if err := h.Service.Delete(ctx, party, chi.URLParam(r, "documentId")); err != nil {
		utils.SendError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
