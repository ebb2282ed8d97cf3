package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/db"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"

	"github.com/jackc/pgx/v5"
)

// PostgresCompanyRepository - реализация CompanyRepository для базы данных.
type PostgresCompanyRepository struct {
	DB *db.DB
}

var _ CompanyRepository = (*PostgresCompanyRepository)(nil)

// NewPostgresCompanyRepository создаёт новый экземпляр PostgresCompanyRepository.
func NewPostgresCompanyRepository(db *db.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{DB: db}
}

// CreateCompany сохраняет профиль компании.
func (r *PostgresCompanyRepository) CreateCompany(ctx context.Context, c models.Company) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO companies (id, name, role, tax_id, address, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, c.Role, c.TaxID, c.Address, c.Phone, c.Email, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company %s: %w", c.ID, ErrConflict)
		}
		return fmt.Errorf("failed to insert company: %w", err)
	}
	return nil
}

// GetCompany возвращает профиль по ID.
func (r *PostgresCompanyRepository) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, role, tax_id, address, phone, email, created_at, updated_at
		FROM companies WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.Role, &c.TaxID, &c.Address, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("company %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

// UpdateCompany обновляет изменяемые поля профиля.
func (r *PostgresCompanyRepository) UpdateCompany(ctx context.Context, c models.Company) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE companies SET name = $2, tax_id = $3, address = $4, phone = $5, email = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Name, c.TaxID, c.Address, c.Phone, c.Email, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("company %s: %w", c.ID, ErrNotFound)
	}
	return nil
}
