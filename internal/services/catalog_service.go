package services

import (
	"context"
	"log/slog"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository"
)

type CatalogService struct {
	Repo   repository.CatalogRepository
	Logger *slog.Logger
}

// NewCatalogService создаёт новый экземпляр CatalogService.
func NewCatalogService(repo repository.CatalogRepository, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{Repo: repo, Logger: logger}
}

// Categories возвращает дерево категорий в порядке каталога.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, errorResponse(s.Logger, err)
	}
	return categories, nil
}

// Products возвращает страницу товаров после фильтрации и сортировки.
// Фильтр по категории выполняется в хранилище, поиск и сортировка - в памяти.
func (s *CatalogService) Products(ctx context.Context, f listing.Filter, limit, offset int) ([]models.Product, int, error) {
	var categories []string
	if f.Category != "" && f.Category != "all" {
		categories = []string{f.Category}
	}
	products, err := s.Repo.ListProducts(ctx, categories)
	if err != nil {
		return nil, 0, errorResponse(s.Logger, err)
	}
	filtered := listing.Apply(products, f, listing.Products)
	return listing.Page(filtered, limit, offset), len(filtered), nil
}
