package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/db"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"

	"github.com/jackc/pgx/v5"
)

const documentColumns = `id, company_id, order_id, name, type, object_key, content_type, size, created_at`

// PostgresDocumentRepository - реализация DocumentRepository для базы данных.
type PostgresDocumentRepository struct {
	DB *db.DB
}

var _ DocumentRepository = (*PostgresDocumentRepository)(nil)

// NewPostgresDocumentRepository создаёт новый экземпляр PostgresDocumentRepository.
func NewPostgresDocumentRepository(db *db.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{DB: db}
}

func scanDocument(row scanner) (models.Document, error) {
	var d models.Document
	err := row.Scan(&d.ID, &d.CompanyID, &d.OrderID, &d.Name, &d.Type, &d.ObjectKey, &d.ContentType, &d.Size, &d.CreatedAt)
	return d, err
}

// CreateDocument сохраняет метаданные документа.
func (r *PostgresDocumentRepository) CreateDocument(ctx context.Context, d models.Document) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.CompanyID, d.OrderID, d.Name, d.Type, d.ObjectKey, d.ContentType, d.Size, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// ListDocuments возвращает документы компании от новых к старым.
func (r *PostgresDocumentRepository) ListDocuments(ctx context.Context, companyID string) ([]models.Document, error) {
	rows, err := r.DB.Pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE company_id = $1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// GetDocument возвращает документ по ID.
func (r *PostgresDocumentRepository) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	d, err := scanDocument(r.DB.Pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// DeleteDocument удаляет метаданные документа.
func (r *PostgresDocumentRepository) DeleteDocument(ctx context.Context, id string) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}
