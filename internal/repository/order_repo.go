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

const orderColumns = `o.id, o.offer_id, o.rfq_id, o.buyer_id, o.supplier_id, o.total_amount, o.order_date,
	o.delivery_date, o.tracking_number, o.payment_status, o.status, r.title, COALESCE(c.name, ''), r.category`

const orderFrom = ` FROM orders o JOIN rfqs r ON r.id = o.rfq_id LEFT JOIN companies c ON c.id = o.supplier_id`

// PostgresOrderRepository - реализация OrderRepository для базы данных.
type PostgresOrderRepository struct {
	DB *db.DB
}

var _ OrderRepository = (*PostgresOrderRepository)(nil)

// NewPostgresOrderRepository создаёт новый экземпляр PostgresOrderRepository.
func NewPostgresOrderRepository(db *db.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

func scanOrder(row scanner) (models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID,
		&o.OfferID,
		&o.RFQID,
		&o.BuyerID,
		&o.SupplierID,
		&o.TotalAmount,
		&o.OrderDate,
		&o.DeliveryDate,
		&o.TrackingNumber,
		&o.PaymentStatus,
		&o.Status,
		&o.RFQTitle,
		&o.SupplierName,
		&o.Category)
	return o, err
}

// ListOrders возвращает заказы от новых к старым.
func (r *PostgresOrderRepository) ListOrders(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom
	var filters []string
	var args []interface{}
	argIndex := 1

	if q.RFQID != "" {
		filters = append(filters, fmt.Sprintf("o.rfq_id = $%d", argIndex))
		args = append(args, q.RFQID)
		argIndex++
	}
	if q.BuyerID != "" {
		filters = append(filters, fmt.Sprintf("o.buyer_id = $%d", argIndex))
		args = append(args, q.BuyerID)
		argIndex++
	}
	if q.SupplierID != "" {
		filters = append(filters, fmt.Sprintf("o.supplier_id = $%d", argIndex))
		args = append(args, q.SupplierID)
		argIndex++
	}
	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}
	query += " ORDER BY o.order_date DESC"

	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// GetOrder возвращает заказ по ID.
func (r *PostgresOrderRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := scanOrder(r.DB.Pool.QueryRow(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func insertOrder(ctx context.Context, q db.Querier, o models.Order) error {
	_, err := q.Exec(ctx, `
		INSERT INTO orders (id, offer_id, rfq_id, buyer_id, supplier_id, total_amount, order_date,
			delivery_date, tracking_number, payment_status, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID,
		o.OfferID,
		o.RFQID,
		o.BuyerID,
		o.SupplierID,
		o.TotalAmount,
		o.OrderDate,
		o.DeliveryDate,
		o.TrackingNumber,
		o.PaymentStatus,
		o.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order for offer %s: %w", o.OfferID, ErrConflict)
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// UpdateOrder сохраняет статус, статус оплаты и номер отслеживания.
func (r *PostgresOrderRepository) UpdateOrder(ctx context.Context, order models.Order, from models.OrderStatus) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE orders SET status = $3, payment_status = $4, tracking_number = $5
		WHERE id = $1 AND status = $2`,
		order.ID, from, order.Status, order.PaymentStatus, order.TrackingNumber)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s is no longer %s: %w", order.ID, from, ErrConflict)
	}
	return nil
}
