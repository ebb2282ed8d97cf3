package repository

import (
	"context"
	"fmt"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/db"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"

	"github.com/shopspring/decimal"
)

// PostgresAnalyticsRepository - реализация AnalyticsRepository для базы данных.
type PostgresAnalyticsRepository struct {
	DB *db.DB
}

var _ AnalyticsRepository = (*PostgresAnalyticsRepository)(nil)

// NewPostgresAnalyticsRepository создаёт новый экземпляр PostgresAnalyticsRepository.
func NewPostgresAnalyticsRepository(db *db.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{DB: db}
}

// SellerStats считает предложения и заказы поставщика по статусам.
func (r *PostgresAnalyticsRepository) SellerStats(ctx context.Context, supplierID string) (*models.SellerStats, error) {
	stats := &models.SellerStats{
		SupplierID:       supplierID,
		OffersByStatus:   map[models.OfferStatus]int{},
		OrdersByStatus:   map[models.OrderStatus]int{},
		CompletedRevenue: decimal.Zero,
	}

	rows, err := r.DB.Pool.Query(ctx, `SELECT status, COUNT(*) FROM offers WHERE supplier_id = $1 GROUP BY status`, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to count offers: %w", err)
	}
	for rows.Next() {
		var status models.OfferStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.OffersByStatus[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.DB.Pool.Query(ctx, `SELECT status, COUNT(*) FROM orders WHERE supplier_id = $1 GROUP BY status`, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	for rows.Next() {
		var status models.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.OrdersByStatus[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.DB.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE supplier_id = $1 AND status = $2`,
		supplierID, models.CompletedOrder).Scan(&stats.CompletedRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	stats.ComputeRates()
	return stats, nil
}
