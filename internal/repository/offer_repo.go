package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/db"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"

	"github.com/jackc/pgx/v5"
)

const offerColumns = `o.id, o.rfq_id, o.supplier_id, o.unit_price, o.total_amount, o.delivery_date,
	o.delivery_terms, o.message, o.status, o.created_at, o.supersedes_id, o.proposed_by,
	r.title, COALESCE(c.name, ''), r.category`

const offerFrom = ` FROM offers o JOIN rfqs r ON r.id = o.rfq_id LEFT JOIN companies c ON c.id = o.supplier_id`

// PostgresOfferRepository - реализация OfferRepository для базы данных.
type PostgresOfferRepository struct {
	DB *db.DB
}

var _ OfferRepository = (*PostgresOfferRepository)(nil)

// NewPostgresOfferRepository создаёт новый экземпляр PostgresOfferRepository.
func NewPostgresOfferRepository(db *db.DB) *PostgresOfferRepository {
	return &PostgresOfferRepository{DB: db}
}

func scanOffer(row scanner) (models.Offer, error) {
	var o models.Offer
	err := row.Scan(
		&o.ID,
		&o.RFQID,
		&o.SupplierID,
		&o.UnitPrice,
		&o.TotalAmount,
		&o.DeliveryDate,
		&o.DeliveryTerms,
		&o.Message,
		&o.Status,
		&o.CreatedAt,
		&o.SupersedesID,
		&o.ProposedBy,
		&o.RFQTitle,
		&o.SupplierName,
		&o.Category)
	return o, err
}

// ListOffers возвращает предложения в порядке создания.
func (r *PostgresOfferRepository) ListOffers(ctx context.Context, q OfferQuery) ([]models.Offer, error) {
	query := `SELECT ` + offerColumns + offerFrom
	var filters []string
	var args []interface{}
	argIndex := 1

	if q.RFQID != "" {
		filters = append(filters, fmt.Sprintf("o.rfq_id = $%d", argIndex))
		args = append(args, q.RFQID)
		argIndex++
	}
	if q.SupplierID != "" {
		filters = append(filters, fmt.Sprintf("o.supplier_id = $%d", argIndex))
		args = append(args, q.SupplierID)
		argIndex++
	}
	if q.BuyerID != "" {
		filters = append(filters, fmt.Sprintf("r.buyer_id = $%d", argIndex))
		args = append(args, q.BuyerID)
		argIndex++
	}
	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}
	query += " ORDER BY o.created_at"

	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	offers := []models.Offer{}
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

// GetOffer возвращает предложение по ID.
func (r *PostgresOfferRepository) GetOffer(ctx context.Context, id string) (*models.Offer, error) {
	offer, err := scanOffer(r.DB.Pool.QueryRow(ctx, `SELECT `+offerColumns+offerFrom+` WHERE o.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("offer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return &offer, nil
}

// CreateOffer сохраняет предложение, если RFQ всё ещё активен.
func (r *PostgresOfferRepository) CreateOffer(ctx context.Context, offer models.Offer) error {
	return insertOffer(ctx, r.DB.Pool, offer)
}

func insertOffer(ctx context.Context, q db.Querier, o models.Offer) error {
	tag, err := q.Exec(ctx, `
		INSERT INTO offers (id, rfq_id, supplier_id, unit_price, total_amount, delivery_date, delivery_terms,
			message, status, created_at, supersedes_id, proposed_by)
		SELECT $1, $2, $3, $4::numeric, $5::numeric, $6::timestamptz, $7, $8, $9, $10::timestamptz, $11, $12
		WHERE EXISTS (SELECT 1 FROM rfqs WHERE id = $2 AND status = $13)`,
		o.ID,
		o.RFQID,
		o.SupplierID,
		o.UnitPrice,
		o.TotalAmount,
		o.DeliveryDate,
		o.DeliveryTerms,
		o.Message,
		o.Status,
		o.CreatedAt,
		o.SupersedesID,
		o.ProposedBy,
		models.ActiveRFQ)
	if err != nil {
		return fmt.Errorf("failed to insert offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rfq %s is no longer active: %w", o.RFQID, ErrConflict)
	}
	return nil
}

// UpdateOfferStatus меняет статус, только если текущий статус равен from.
func (r *PostgresOfferRepository) UpdateOfferStatus(ctx context.Context, id string, from, to models.OfferStatus) error {
	return updateOfferStatus(ctx, r.DB.Pool, id, from, to)
}

func updateOfferStatus(ctx context.Context, q db.Querier, id string, from, to models.OfferStatus) error {
	tag, err := q.Exec(ctx, `UPDATE offers SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("offer %s: %w", id, ErrConflict)
		}
		return fmt.Errorf("failed to update offer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("offer %s is no longer %s: %w", id, from, ErrConflict)
	}
	return nil
}

// SaveCounter сохраняет встречное предложение.
func (r *PostgresOfferRepository) SaveCounter(ctx context.Context, prior models.Offer, next models.Offer) error {
	return r.DB.WithTx(ctx, func(tx pgx.Tx) error {
		if err := updateOfferStatus(ctx, tx, prior.ID, models.PendingOffer, models.CounterOfferedOffer); err != nil {
			return err
		}
		return insertOffer(ctx, tx, next)
	})
}

// SaveAcceptance сохраняет принятие предложения и созданный заказ.
// Частичный уникальный индекс offers_one_accepted_per_rfq не даёт принять два предложения по одному RFQ.
func (r *PostgresOfferRepository) SaveAcceptance(ctx context.Context, offer models.Offer, order models.Order) error {
	return r.DB.WithTx(ctx, func(tx pgx.Tx) error {
		if err := updateOfferStatus(ctx, tx, offer.ID, models.PendingOffer, models.AcceptedOffer); err != nil {
			return err
		}
		if err := updateRFQStatus(ctx, tx, offer.RFQID, models.ActiveRFQ, models.CompletedRFQ); err != nil {
			return err
		}
		return insertOrder(ctx, tx, order)
	})
}
