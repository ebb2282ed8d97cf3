package apiclient

import (
	"context"
	"net/http"
	"sync"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/taxonomy"

	"golang.org/x/sync/errgroup"
)

// CategoriesSection - имя раздела метаданных с категориями в Metadata.Failed.
const CategoriesSection = "categories"

// Metadata - словари статусов и категории для фильтров экранов.
type Metadata struct {
	Statuses   map[taxonomy.Kind][]taxonomy.Badge
	Categories []models.Category
	// Failed содержит ошибки разделов, для которых использованы значения по умолчанию.
	Failed map[string]error
}

// Describe возвращает бейдж статуса по загруженному словарю.
func (m Metadata) Describe(kind taxonomy.Kind, status string) taxonomy.Badge {
	for _, b := range m.Statuses[kind] {
		if b.Value == status {
			return b
		}
	}
	return taxonomy.Describe(kind, status)
}

// Statuses возвращает словарь статусов с сервера, дополненный подписями по умолчанию.
func (c *Client) Statuses(ctx context.Context, kind taxonomy.Kind) ([]taxonomy.Badge, error) {
	var out Collection[StatusOption]
	if err := c.do(ctx, http.MethodGet, endpoint("api", string(kind), "statuses")+"/", nil, nil, &out); err != nil {
		return nil, err
	}
	remote := make([]taxonomy.Badge, 0, len(out.Items))
	for _, o := range out.Items {
		if o.Value != "" {
			remote = append(remote, o.Badge())
		}
	}
	return taxonomy.Overlay(kind, remote), nil
}

// LoadMetadata загружает словари статусов и категории параллельно.
// Ошибка одного раздела не мешает остальным: раздел получает значения по
// умолчанию, а ошибка попадает в Failed.
func (c *Client) LoadMetadata(ctx context.Context) Metadata {
	md := Metadata{
		Statuses:   make(map[taxonomy.Kind][]taxonomy.Badge, len(taxonomy.Kinds)),
		Categories: []models.Category{},
		Failed:     make(map[string]error),
	}
	for _, kind := range taxonomy.Kinds {
		md.Statuses[kind] = taxonomy.Options(kind)
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	settle := func(section string, err error, apply func()) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			md.Failed[section] = err
			c.logger.Warn("metadata section unavailable, using defaults", "section", section, "error", err)
			return
		}
		apply()
	}

	for _, kind := range []taxonomy.Kind{taxonomy.RFQKind, taxonomy.OfferKind, taxonomy.OrderKind} {
		g.Go(func() error {
			badges, err := c.Statuses(ctx, kind)
			settle(string(kind), err, func() { md.Statuses[kind] = badges })
			return nil
		})
	}
	g.Go(func() error {
		categories, err := c.Categories(ctx)
		settle(CategoriesSection, err, func() { md.Categories = categories })
		return nil
	})
	_ = g.Wait()
	return md
}
