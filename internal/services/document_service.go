package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/storage"

	"github.com/google/uuid"
)

// MaxUploadSize - предельный размер загружаемого файла.
const MaxUploadSize = 10 << 20 // 10 MB

// Допустимые типы загружаемых файлов
var allowedContentTypes = map[string]bool{
	"application/pdf":                                                        true,
	"application/msword":                                                     true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel":                                               true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":      true,
	"image/jpeg":                                                             true,
	"image/png":                                                              true,
	"image/gif":                                                              true,
	"text/plain":                                                             true,
}

// Upload описывает загружаемый файл и его метаданные.
type Upload struct {
	CompanyID   string
	OrderID     *string
	Name        string
	Type        models.DocumentType
	FileName    string
	ContentType string
	Size        int64
	File        io.Reader
}

type DocumentService struct {
	Repo      repository.DocumentRepository
	Companies repository.CompanyRepository
	Store     storage.ObjectStore
	Logger    *slog.Logger
	Now       func() time.Time
}

// NewDocumentService создаёт новый экземпляр DocumentService. store может быть nil,
// тогда загрузка файлов недоступна.
func NewDocumentService(repo repository.DocumentRepository, companies repository.CompanyRepository, store storage.ObjectStore, logger *slog.Logger) *DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		Repo:      repo,
		Companies: companies,
		Store:     store,
		Logger:    logger,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// BaseContentType отбрасывает параметры типа содержимого (charset и т.п.).
func BaseContentType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}

// Upload сохраняет файл в хранилище объектов и его метаданные в базе.
func (s *DocumentService) Upload(ctx context.Context, party models.Party, up Upload) (*models.Document, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	if s.Store == nil {
		s.Logger.Error("document upload attempted but object storage not configured")
		return nil, models.NewErrorResponse(http.StatusServiceUnavailable, "file uploads are not configured")
	}
	if up.CompanyID == "" {
		up.CompanyID = party.ID
	}
	if up.CompanyID != party.ID {
		return nil, models.Forbidden("you cannot upload documents for another company")
	}
	if up.File == nil {
		return nil, models.BadRequest("no file uploaded")
	}
	if strings.TrimSpace(up.Name) == "" {
		up.Name = up.FileName
	}
	if strings.TrimSpace(up.Name) == "" {
		return nil, models.BadRequest("missing required field: name")
	}
	if !up.Type.IsValid() {
		return nil, models.BadRequest("invalid document type")
	}
	if up.Size > MaxUploadSize {
		return nil, models.BadRequest("file too large (max 10 MB)")
	}
	contentType := BaseContentType(up.ContentType)
	if !allowedContentTypes[contentType] {
		return nil, models.BadRequest("file type not allowed")
	}
	// Документ ссылается на профиль компании.
	if _, err := s.Companies.GetCompany(ctx, up.CompanyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NotFound("company profile not found, create it before uploading documents")
		}
		s.Logger.Error("failed to load company", "error", err, "company_id", up.CompanyID)
		return nil, models.Internal()
	}

	key := storage.ObjectKey(up.CompanyID, up.FileName)
	if err := s.Store.Upload(ctx, key, up.File, contentType); err != nil {
		s.Logger.Error("failed to upload document", "error", err, "company_id", up.CompanyID)
		return nil, models.Internal()
	}

	doc := models.Document{
		ID:          uuid.NewString(),
		CompanyID:   up.CompanyID,
		OrderID:     up.OrderID,
		Name:        up.Name,
		Type:        up.Type,
		ObjectKey:   key,
		ContentType: contentType,
		Size:        up.Size,
		CreatedAt:   s.Now(),
	}
	if err := s.Repo.CreateDocument(ctx, doc); err != nil {
		s.Logger.Error("failed to save document metadata", "error", err, "company_id", up.CompanyID)
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			s.Logger.Warn("failed to clean up uploaded object", "key", key, "error", delErr)
		}
		return nil, models.Internal()
	}
	s.Logger.Info("document uploaded", "document_id", doc.ID, "company_id", doc.CompanyID, "size", doc.Size)
	return &doc, nil
}

// List возвращает документы компании.
func (s *DocumentService) List(ctx context.Context, party models.Party, companyID string) ([]models.Document, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	if companyID == "" {
		companyID = party.ID
	}
	if companyID != party.ID {
		return nil, models.Forbidden("you cannot view documents of another company")
	}
	docs, err := s.Repo.ListDocuments(ctx, companyID)
	if err != nil {
		s.Logger.Error("failed to list documents", "error", err, "company_id", companyID)
		return nil, models.Internal()
	}
	return docs, nil
}

// Open возвращает содержимое документа из хранилища объектов.
func (s *DocumentService) Open(ctx context.Context, party models.Party, id string) (*models.Document, io.ReadCloser, error) {
	doc, err := s.owned(ctx, party, id)
	if err != nil {
		return nil, nil, err
	}
	if s.Store == nil {
		return nil, nil, models.NewErrorResponse(http.StatusServiceUnavailable, "file storage is not configured")
	}
	body, err := s.Store.Download(ctx, doc.ObjectKey)
	if err != nil {
		s.Logger.Error("failed to download document", "error", err, "document_id", id)
		return nil, nil, models.Internal()
	}
	return doc, body, nil
}

// Delete удаляет документ и его файл.
func (s *DocumentService) Delete(ctx context.Context, party models.Party, id string) error {
	doc, err := s.owned(ctx, party, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteDocument(ctx, id); err != nil {
		return errorResponse(s.Logger, err)
	}
	if s.Store != nil {
		if err := s.Store.Delete(ctx, doc.ObjectKey); err != nil {
			s.Logger.Warn("failed to delete document object", "key", doc.ObjectKey, "error", err)
		}
	}
	return nil
}

func (s *DocumentService) owned(ctx context.Context, party models.Party, id string) (*models.Document, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	doc, err := s.Repo.GetDocument(ctx, id)
	if err != nil {
		return nil, errorResponse(s.Logger, err)
	}
	if doc.CompanyID != party.ID {
		return nil, models.Forbidden("document belongs to another company")
	}
	return doc, nil
}
