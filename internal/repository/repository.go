package repository

import (
	"context"
	"errors"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict - условное обновление не применилось: запись уже изменена.
	ErrConflict = errors.New("record was changed concurrently")
)

// RFQQuery ограничивает выборку запросов.
type RFQQuery struct {
	BuyerID  string
	Statuses []string
}

// OfferQuery ограничивает выборку предложений.
type OfferQuery struct {
	RFQID      string
	SupplierID string
	BuyerID    string
}

// OrderQuery ограничивает выборку заказов.
type OrderQuery struct {
	RFQID      string
	BuyerID    string
	SupplierID string
}

// RFQRepository - интерфейс для работы с запросами котировок.
type RFQRepository interface {
	ListRFQs(ctx context.Context, q RFQQuery) ([]models.RFQ, error)
	GetRFQ(ctx context.Context, id string) (*models.RFQ, error)
	CreateRFQ(ctx context.Context, rfq models.RFQ) error
	UpdateRFQStatus(ctx context.Context, id string, from, to models.RFQStatus) error
	ListOverdueRFQs(ctx context.Context, now time.Time) ([]models.RFQ, error)
}

// OfferRepository - интерфейс для работы с предложениями.
type OfferRepository interface {
	ListOffers(ctx context.Context, q OfferQuery) ([]models.Offer, error)
	GetOffer(ctx context.Context, id string) (*models.Offer, error)
	CreateOffer(ctx context.Context, offer models.Offer) error
	UpdateOfferStatus(ctx context.Context, id string, from, to models.OfferStatus) error
	// SaveCounter переводит prior в counter_offered и сохраняет next в одной транзакции.
	SaveCounter(ctx context.Context, prior models.Offer, next models.Offer) error
	// SaveAcceptance принимает предложение, завершает RFQ и создаёт заказ в одной транзакции.
	SaveAcceptance(ctx context.Context, offer models.Offer, order models.Order) error
}

// OrderRepository - интерфейс для работы с заказами.
type OrderRepository interface {
	ListOrders(ctx context.Context, q OrderQuery) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// UpdateOrder сохраняет заказ, если его статус в базе всё ещё from.
	UpdateOrder(ctx context.Context, order models.Order, from models.OrderStatus) error
}

// CatalogRepository - интерфейс каталога товаров.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context, categories []string) ([]models.Product, error)
}

// CompanyRepository - интерфейс профилей компаний.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, company models.Company) error
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	UpdateCompany(ctx context.Context, company models.Company) error
}

// DocumentRepository - интерфейс метаданных документов.
type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc models.Document) error
	ListDocuments(ctx context.Context, companyID string) ([]models.Document, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// AnalyticsRepository - агрегаты для панели поставщика.
type AnalyticsRepository interface {
	SellerStats(ctx context.Context, supplierID string) (*models.SellerStats, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
