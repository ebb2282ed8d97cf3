package repository

import (
	"context"
	"fmt"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/db"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"

	"github.com/lib/pq"
)

// PostgresCatalogRepository - реализация CatalogRepository для базы данных.
type PostgresCatalogRepository struct {
	DB *db.DB
}

var _ CatalogRepository = (*PostgresCatalogRepository)(nil)

// NewPostgresCatalogRepository создаёт новый экземпляр PostgresCatalogRepository.
func NewPostgresCatalogRepository(db *db.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{DB: db}
}

// ListCategories возвращает категории в порядке отображения.
func (r *PostgresCatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT key, name, parent_key FROM categories ORDER BY position, key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Key, &c.Name, &c.ParentKey); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListProducts возвращает активные товары; пустой список категорий не ограничивает выборку.
func (r *PostgresCatalogRepository) ListProducts(ctx context.Context, categories []string) ([]models.Product, error) {
	query := `SELECT p.id, p.name, p.category, p.brand, p.grade, p.unit, p.price, p.rating, p.status,
		p.supplier_id, COALESCE(c.name, ''), p.created_at
		FROM products p LEFT JOIN companies c ON c.id = p.supplier_id
		WHERE p.status = 'active'`
	var args []interface{}
	if len(categories) > 0 {
		query += " AND p.category = ANY($1)"
		args = append(args, pq.Array(categories))
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Category,
			&p.Brand,
			&p.Grade,
			&p.Unit,
			&p.Price,
			&p.Rating,
			&p.Status,
			&p.SupplierID,
			&p.SupplierName,
			&p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
