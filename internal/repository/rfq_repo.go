package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/db"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

const rfqColumns = `r.id, r.title, r.category, r.subcategory, r.brand, r.grade, r.volume, r.unit,
	r.delivery_location, r.delivery_date, r.payment_method, r.message, r.special_requirements,
	r.status, r.created_at, r.deadline, r.buyer_id, COALESCE(c.name, '')`

const rfqFrom = ` FROM rfqs r LEFT JOIN companies c ON c.id = r.buyer_id`

// PostgresRFQRepository - реализация RFQRepository для базы данных.
type PostgresRFQRepository struct {
	DB *db.DB
}

var _ RFQRepository = (*PostgresRFQRepository)(nil)

// NewPostgresRFQRepository создаёт новый экземпляр PostgresRFQRepository.
func NewPostgresRFQRepository(db *db.DB) *PostgresRFQRepository {
	return &PostgresRFQRepository{DB: db}
}

func scanRFQ(row scanner) (models.RFQ, error) {
	var r models.RFQ
	err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Category,
		&r.Subcategory,
		&r.Brand,
		&r.Grade,
		&r.Volume,
		&r.Unit,
		&r.DeliveryLocation,
		&r.DeliveryDate,
		&r.PaymentMethod,
		&r.Message,
		&r.SpecialRequirements,
		&r.Status,
		&r.CreatedAt,
		&r.Deadline,
		&r.BuyerID,
		&r.BuyerName)
	return r, err
}

// ListRFQs возвращает запросы, отсортированные от новых к старым.
func (r *PostgresRFQRepository) ListRFQs(ctx context.Context, q RFQQuery) ([]models.RFQ, error) {
	query := `SELECT ` + rfqColumns + rfqFrom
	var filters []string
	var args []interface{}
	argIndex := 1

	if q.BuyerID != "" {
		filters = append(filters, fmt.Sprintf("r.buyer_id = $%d", argIndex))
		args = append(args, q.BuyerID)
		argIndex++
	}
	if len(q.Statuses) > 0 {
		filters = append(filters, fmt.Sprintf("r.status = ANY($%d)", argIndex))
		args = append(args, pq.Array(q.Statuses))
		argIndex++
	}
	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rfqs: %w", err)
	}
	defer rows.Close()

	rfqs := []models.RFQ{}
	for rows.Next() {
		rfq, err := scanRFQ(rows)
		if err != nil {
			return nil, err
		}
		rfqs = append(rfqs, rfq)
	}
	return rfqs, rows.Err()
}

// GetRFQ возвращает запрос по ID.
func (r *PostgresRFQRepository) GetRFQ(ctx context.Context, id string) (*models.RFQ, error) {
	rfq, err := scanRFQ(r.DB.Pool.QueryRow(ctx, `SELECT `+rfqColumns+rfqFrom+` WHERE r.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("rfq %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rfq: %w", err)
	}
	return &rfq, nil
}

// CreateRFQ сохраняет новый запрос.
func (r *PostgresRFQRepository) CreateRFQ(ctx context.Context, rfq models.RFQ) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO rfqs (id, title, category, subcategory, brand, grade, volume, unit, delivery_location,
			delivery_date, payment_method, message, special_requirements, status, created_at, deadline, buyer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		rfq.ID,
		rfq.Title,
		rfq.Category,
		rfq.Subcategory,
		rfq.Brand,
		rfq.Grade,
		rfq.Volume,
		rfq.Unit,
		rfq.DeliveryLocation,
		rfq.DeliveryDate,
		rfq.PaymentMethod,
		rfq.Message,
		rfq.SpecialRequirements,
		rfq.Status,
		rfq.CreatedAt,
		rfq.Deadline,
		rfq.BuyerID)
	if err != nil {
		return fmt.Errorf("failed to insert rfq: %w", err)
	}
	return nil
}

// UpdateRFQStatus меняет статус, только если текущий статус равен from.
func (r *PostgresRFQRepository) UpdateRFQStatus(ctx context.Context, id string, from, to models.RFQStatus) error {
	return updateRFQStatus(ctx, r.DB.Pool, id, from, to)
}

func updateRFQStatus(ctx context.Context, q db.Querier, id string, from, to models.RFQStatus) error {
	tag, err := q.Exec(ctx, `UPDATE rfqs SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to update rfq status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rfq %s is no longer %s: %w", id, from, ErrConflict)
	}
	return nil
}

// ListOverdueRFQs возвращает активные запросы с истёкшим сроком.
func (r *PostgresRFQRepository) ListOverdueRFQs(ctx context.Context, now time.Time) ([]models.RFQ, error) {
	rows, err := r.DB.Pool.Query(ctx,
		`SELECT `+rfqColumns+rfqFrom+` WHERE r.status = $1 AND r.deadline < $2 ORDER BY r.deadline`,
		models.ActiveRFQ, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue rfqs: %w", err)
	}
	defer rows.Close()

	rfqs := []models.RFQ{}
	for rows.Next() {
		rfq, err := scanRFQ(rows)
		if err != nil {
			return nil, err
		}
		rfqs = append(rfqs, rfq)
	}
	return rfqs, rows.Err()
}
