package services

import (
	"context"
	"log/slog"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository"
)

type AnalyticsService struct {
	Repo   repository.AnalyticsRepository
	Logger *slog.Logger
}

// NewAnalyticsService создаёт новый экземпляр AnalyticsService.
func NewAnalyticsService(repo repository.AnalyticsRepository, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{Repo: repo, Logger: logger}
}

// SellerStats возвращает показатели поставщика. Поставщик видит только свои показатели.
func (s *AnalyticsService) SellerStats(ctx context.Context, party models.Party, supplierID string) (*models.SellerStats, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	if supplierID == "" {
		supplierID = party.ID
	}
	if party.Role != models.Supplier || supplierID != party.ID {
		return nil, models.Forbidden("seller analytics are available to the supplier only")
	}
	stats, err := s.Repo.SellerStats(ctx, supplierID)
	if err != nil {
		return nil, errorResponse(s.Logger, err)
	}
	return stats, nil
}
