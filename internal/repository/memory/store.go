// Package memory хранит данные маркетплейса в памяти процесса. Используется в
// тестах и при локальном запуске без PostgreSQL.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository"

	"github.com/shopspring/decimal"
)

// Store реализует все репозитории маркетплейса.
type Store struct {
	mu         sync.RWMutex
	rfqs       map[string]models.RFQ
	offers     map[string]models.Offer
	orders     map[string]models.Order
	companies  map[string]models.Company
	documents  map[string]models.Document
	categories []models.Category
	products   []models.Product
}

// Verify interface compliance
var (
	_ repository.RFQRepository       = (*Store)(nil)
	_ repository.OfferRepository     = (*Store)(nil)
	_ repository.OrderRepository     = (*Store)(nil)
	_ repository.CatalogRepository   = (*Store)(nil)
	_ repository.CompanyRepository   = (*Store)(nil)
	_ repository.DocumentRepository  = (*Store)(nil)
	_ repository.AnalyticsRepository = (*Store)(nil)
)

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{
		rfqs:       make(map[string]models.RFQ),
		offers:     make(map[string]models.Offer),
		orders:     make(map[string]models.Order),
		companies:  make(map[string]models.Company),
		documents:  make(map[string]models.Document),
		categories: []models.Category{},
		products:   []models.Product{},
	}
}

// DefaultCategories - начальный каталог категорий.
func DefaultCategories() []models.Category {
	metal := "metal"
	return []models.Category{
		{Key: "metal", Name: "Metal products"},
		{Key: "rebar", Name: "Rebar", ParentKey: &metal},
		{Key: "pipes", Name: "Pipes", ParentKey: &metal},
		{Key: "cement", Name: "Cement"},
		{Key: "concrete", Name: "Concrete"},
		{Key: "bricks", Name: "Bricks and blocks"},
		{Key: "aggregates", Name: "Sand and gravel"},
	}
}

// AddCategories добавляет категории каталога.
func (s *Store) AddCategories(categories ...models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, categories...)
}

// AddProducts добавляет товары каталога.
func (s *Store) AddProducts(products ...models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, products...)
}

func (s *Store) companyName(id string) string {
	return s.companies[id].Name
}

func (s *Store) decorateRFQ(r models.RFQ) models.RFQ {
	r.BuyerName = s.companyName(r.BuyerID)
	return r
}

func (s *Store) decorateOffer(o models.Offer) models.Offer {
	rfq := s.rfqs[o.RFQID]
	o.RFQTitle, o.Category = rfq.Title, rfq.Category
	o.SupplierName = s.companyName(o.SupplierID)
	return o
}

func (s *Store) decorateOrder(o models.Order) models.Order {
	rfq := s.rfqs[o.RFQID]
	o.RFQTitle, o.Category = rfq.Title, rfq.Category
	o.SupplierName = s.companyName(o.SupplierID)
	return o
}

// ListRFQs возвращает запросы от новых к старым.
func (s *Store) ListRFQs(_ context.Context, q repository.RFQQuery) ([]models.RFQ, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.RFQ{}
	for _, r := range s.rfqs {
		if q.BuyerID != "" && r.BuyerID != q.BuyerID {
			continue
		}
		if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, string(r.Status)) {
			continue
		}
		out = append(out, s.decorateRFQ(r))
	}
	slices.SortFunc(out, func(a, b models.RFQ) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// GetRFQ возвращает запрос по ID.
func (s *Store) GetRFQ(_ context.Context, id string) (*models.RFQ, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rfqs[id]
	if !ok {
		return nil, fmt.Errorf("rfq %s: %w", id, repository.ErrNotFound)
	}
	r = s.decorateRFQ(r)
	return &r, nil
}

// CreateRFQ сохраняет запрос.
func (s *Store) CreateRFQ(_ context.Context, rfq models.RFQ) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rfqs[rfq.ID]; ok {
		return fmt.Errorf("rfq %s: %w", rfq.ID, repository.ErrConflict)
	}
	s.rfqs[rfq.ID] = rfq
	return nil
}

// UpdateRFQStatus меняет статус, только если текущий статус равен from.
func (s *Store) UpdateRFQStatus(_ context.Context, id string, from, to models.RFQStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setRFQStatus(id, from, to)
}

func (s *Store) setRFQStatus(id string, from, to models.RFQStatus) error {
	r, ok := s.rfqs[id]
	if !ok || r.Status != from {
		return fmt.Errorf("rfq %s is no longer %s: %w", id, from, repository.ErrConflict)
	}
	r.Status = to
	s.rfqs[id] = r
	return nil
}

// ListOverdueRFQs возвращает активные запросы с истёкшим сроком.
func (s *Store) ListOverdueRFQs(_ context.Context, now time.Time) ([]models.RFQ, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.RFQ{}
	for _, r := range s.rfqs {
		if r.Status == models.ActiveRFQ && r.Deadline.Before(now) {
			out = append(out, s.decorateRFQ(r))
		}
	}
	slices.SortFunc(out, func(a, b models.RFQ) int {
		return cmp.Or(a.Deadline.Compare(b.Deadline), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// ListOffers возвращает предложения в порядке создания.
func (s *Store) ListOffers(_ context.Context, q repository.OfferQuery) ([]models.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Offer{}
	for _, o := range s.offers {
		if q.RFQID != "" && o.RFQID != q.RFQID {
			continue
		}
		if q.SupplierID != "" && o.SupplierID != q.SupplierID {
			continue
		}
		if q.BuyerID != "" && s.rfqs[o.RFQID].BuyerID != q.BuyerID {
			continue
		}
		out = append(out, s.decorateOffer(o))
	}
	slices.SortFunc(out, func(a, b models.Offer) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// GetOffer возвращает предложение по ID.
func (s *Store) GetOffer(_ context.Context, id string) (*models.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offers[id]
	if !ok {
		return nil, fmt.Errorf("offer %s: %w", id, repository.ErrNotFound)
	}
	o = s.decorateOffer(o)
	return &o, nil
}

// CreateOffer сохраняет предложение, если RFQ всё ещё активен.
func (s *Store) CreateOffer(_ context.Context, offer models.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertOffer(offer)
}

func (s *Store) insertOffer(o models.Offer) error {
	if s.rfqs[o.RFQID].Status != models.ActiveRFQ {
		return fmt.Errorf("rfq %s is no longer active: %w", o.RFQID, repository.ErrConflict)
	}
	if _, ok := s.offers[o.ID]; ok {
		return fmt.Errorf("offer %s: %w", o.ID, repository.ErrConflict)
	}
	s.offers[o.ID] = o
	return nil
}

// UpdateOfferStatus меняет статус, только если текущий статус равен from.
func (s *Store) UpdateOfferStatus(_ context.Context, id string, from, to models.OfferStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setOfferStatus(id, from, to)
}

func (s *Store) setOfferStatus(id string, from, to models.OfferStatus) error {
	o, ok := s.offers[id]
	if !ok || o.Status != from {
		return fmt.Errorf("offer %s is no longer %s: %w", id, from, repository.ErrConflict)
	}
	if to == models.AcceptedOffer {
		for _, other := range s.offers {
			if other.RFQID == o.RFQID && other.Status == models.AcceptedOffer {
				return fmt.Errorf("rfq %s already has an accepted offer: %w", o.RFQID, repository.ErrConflict)
			}
		}
	}
	o.Status = to
	s.offers[id] = o
	return nil
}

// SaveCounter сохраняет встречное предложение атомарно.
func (s *Store) SaveCounter(_ context.Context, prior models.Offer, next models.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.offers[prior.ID]; !ok || current.Status != models.PendingOffer {
		return fmt.Errorf("offer %s is no longer pending: %w", prior.ID, repository.ErrConflict)
	}
	if err := s.insertOffer(next); err != nil {
		return err
	}
	return s.setOfferStatus(prior.ID, models.PendingOffer, models.CounterOfferedOffer)
}

// SaveAcceptance принимает предложение, завершает RFQ и создаёт заказ атомарно.
func (s *Store) SaveAcceptance(_ context.Context, offer models.Offer, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rfqs[offer.RFQID].Status != models.ActiveRFQ {
		return fmt.Errorf("rfq %s is no longer active: %w", offer.RFQID, repository.ErrConflict)
	}
	if _, ok := s.orders[order.ID]; ok {
		return fmt.Errorf("order %s: %w", order.ID, repository.ErrConflict)
	}
	if err := s.setOfferStatus(offer.ID, models.PendingOffer, models.AcceptedOffer); err != nil {
		return err
	}
	if err := s.setRFQStatus(offer.RFQID, models.ActiveRFQ, models.CompletedRFQ); err != nil {
		return err
	}
	s.orders[order.ID] = order
	return nil
}

// ListOrders возвращает заказы от новых к старым.
func (s *Store) ListOrders(_ context.Context, q repository.OrderQuery) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Order{}
	for _, o := range s.orders {
		if q.RFQID != "" && o.RFQID != q.RFQID {
			continue
		}
		if q.BuyerID != "" && o.BuyerID != q.BuyerID {
			continue
		}
		if q.SupplierID != "" && o.SupplierID != q.SupplierID {
			continue
		}
		out = append(out, s.decorateOrder(o))
	}
	slices.SortFunc(out, func(a, b models.Order) int {
		return cmp.Or(b.OrderDate.Compare(a.OrderDate), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// GetOrder возвращает заказ по ID.
func (s *Store) GetOrder(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, repository.ErrNotFound)
	}
	o = s.decorateOrder(o)
	return &o, nil
}

// UpdateOrder сохраняет заказ, если его статус всё ещё from.
func (s *Store) UpdateOrder(_ context.Context, order models.Order, from models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.orders[order.ID]
	if !ok || current.Status != from {
		return fmt.Errorf("order %s is no longer %s: %w", order.ID, from, repository.ErrConflict)
	}
	current.Status = order.Status
	current.PaymentStatus = order.PaymentStatus
	current.TrackingNumber = order.TrackingNumber
	s.orders[order.ID] = current
	return nil
}

// ListCategories возвращает категории в порядке добавления.
func (s *Store) ListCategories(context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories), nil
}

// ListProducts возвращает активные товары.
func (s *Store) ListProducts(_ context.Context, categories []string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Product{}
	for _, p := range s.products {
		if p.Status != "" && p.Status != "active" {
			continue
		}
		if len(categories) > 0 && !slices.Contains(categories, p.Category) {
			continue
		}
		p.SupplierName = s.companyName(p.SupplierID)
		out = append(out, p)
	}
	return out, nil
}

// CreateCompany сохраняет профиль компании.
func (s *Store) CreateCompany(_ context.Context, c models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[c.ID]; ok {
		return fmt.Errorf("company %s: %w", c.ID, repository.ErrConflict)
	}
	s.companies[c.ID] = c
	return nil
}

// GetCompany возвращает профиль по ID.
func (s *Store) GetCompany(_ context.Context, id string) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[id]
	if !ok {
		return nil, fmt.Errorf("company %s: %w", id, repository.ErrNotFound)
	}
	return &c, nil
}

// UpdateCompany обновляет профиль.
func (s *Store) UpdateCompany(_ context.Context, c models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.companies[c.ID]
	if !ok {
		return fmt.Errorf("company %s: %w", c.ID, repository.ErrNotFound)
	}
	c.Role, c.CreatedAt = current.Role, current.CreatedAt
	s.companies[c.ID] = c
	return nil
}

// CreateDocument сохраняет метаданные документа.
func (s *Store) CreateDocument(_ context.Context, d models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[d.ID] = d
	return nil
}

// ListDocuments возвращает документы компании от новых к старым.
func (s *Store) ListDocuments(_ context.Context, companyID string) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Document{}
	for _, d := range s.documents {
		if d.CompanyID == companyID {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b models.Document) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// GetDocument возвращает документ по ID.
func (s *Store) GetDocument(_ context.Context, id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, repository.ErrNotFound)
	}
	return &d, nil
}

// DeleteDocument удаляет метаданные документа.
func (s *Store) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return fmt.Errorf("document %s: %w", id, repository.ErrNotFound)
	}
	delete(s.documents, id)
	return nil
}

// SellerStats считает предложения и заказы поставщика по статусам.
func (s *Store) SellerStats(_ context.Context, supplierID string) (*models.SellerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &models.SellerStats{
		SupplierID:       supplierID,
		OffersByStatus:   map[models.OfferStatus]int{},
		OrdersByStatus:   map[models.OrderStatus]int{},
		CompletedRevenue: decimal.Zero,
	}
	for _, o := range s.offers {
		if o.SupplierID == supplierID {
			stats.OffersByStatus[o.Status]++
		}
	}
	for _, o := range s.orders {
		if o.SupplierID != supplierID {
			continue
		}
		stats.OrdersByStatus[o.Status]++
		if o.Status == models.CompletedOrder {
			stats.CompletedRevenue = stats.CompletedRevenue.Add(o.TotalAmount)
		}
	}
	stats.ComputeRates()
	return stats, nil
}
