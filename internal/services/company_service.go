package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository"
)

type CompanyService struct {
	Repo   repository.CompanyRepository
	Logger *slog.Logger
	Now    func() time.Time
}

// NewCompanyService создаёт новый экземпляр CompanyService.
func NewCompanyService(repo repository.CompanyRepository, logger *slog.Logger) *CompanyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompanyService{Repo: repo, Logger: logger, Now: func() time.Time { return time.Now().UTC() }}
}

// CreateCompany создаёт профиль компании участника. ID профиля совпадает с userId.
func (s *CompanyService) CreateCompany(ctx context.Context, party models.Party, req models.CompanyRequest) (*models.Company, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, models.BadRequest("missing required field: name")
	}
	if req.Role != "" && req.Role != party.Role {
		return nil, models.BadRequest("company role must match the party role")
	}
	now := s.Now()
	company := models.Company{
		ID:        party.ID,
		Name:      strings.TrimSpace(req.Name),
		Role:      party.Role,
		TaxID:     req.TaxID,
		Address:   req.Address,
		Phone:     req.Phone,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.CreateCompany(ctx, company); err != nil {
		return nil, errorResponse(s.Logger, err)
	}
	return &company, nil
}

// GetCompany возвращает профиль компании.
func (s *CompanyService) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	company, err := s.Repo.GetCompany(ctx, id)
	if err != nil {
		return nil, errorResponse(s.Logger, err)
	}
	return company, nil
}

// UpdateCompany обновляет собственный профиль участника.
func (s *CompanyService) UpdateCompany(ctx context.Context, party models.Party, id string, req models.CompanyRequest) (*models.Company, error) {
	if err := requireParty(party); err != nil {
		return nil, err
	}
	if id != party.ID {
		return nil, models.Forbidden("you can only edit your own company profile")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, models.BadRequest("missing required field: name")
	}
	company, err := s.Repo.GetCompany(ctx, id)
	if err != nil {
		return nil, errorResponse(s.Logger, err)
	}
	company.Name = strings.TrimSpace(req.Name)
	company.TaxID = req.TaxID
	company.Address = req.Address
	company.Phone = req.Phone
	company.Email = req.Email
	company.UpdatedAt = s.Now()
	if err := s.Repo.UpdateCompany(ctx, *company); err != nil {
		return nil, errorResponse(s.Logger, err)
	}
	return company, nil
}
