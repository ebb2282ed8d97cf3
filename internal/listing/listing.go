// Package listing применяет к спискам RFQ, предложений, заказов и товаров
// фильтры экрана: статус, категория, поиск и сортировка.
package listing

import (
	"net/url"
	"slices"
	"strings"
)

// All отключает фильтр по статусу или категории.
const All = "all"

// Filter описывает состояние фильтров экрана.
type Filter struct {
	Status   string `json:"status"`
	Category string `json:"category"`
	Search   string `json:"search"`
	SortBy   string `json:"sortBy"`
}

// Spec описывает, как извлечь поля фильтрации из элемента списка.
type Spec[T any] struct {
	Status   func(T) string
	Category func(T) string
	Search   func(T) []string
	Sorts    map[string]func(a, b T) int
}

// FilterFromQuery читает фильтр из параметров запроса.
func FilterFromQuery(q url.Values) Filter {
	return Filter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sort"),
	}
}

// Query возвращает фильтр в виде параметров запроса, пропуская пустые значения.
func (f Filter) Query() url.Values {
	q := url.Values{}
	for key, value := range map[string]string{"status": f.Status, "category": f.Category, "search": f.Search, "sort": f.SortBy} {
		if value != "" && value != All {
			q.Set(key, value)
		}
	}
	return q
}

// Apply фильтрует и сортирует копию items. Исходный срез не меняется.
// Порядок этапов: статус, категория, поиск, устойчивая сортировка.
func Apply[T any](items []T, f Filter, spec Spec[T]) []T {
	out := make([]T, 0, len(items))
	query := strings.ToLower(f.Search)
	for _, item := range items {
		if active(f.Status) && spec.Status != nil && spec.Status(item) != f.Status {
			continue
		}
		if active(f.Category) && spec.Category != nil && spec.Category(item) != f.Category {
			continue
		}
		if query != "" && !matches(spec.Search, item, query) {
			continue
		}
		out = append(out, item)
	}
	if cmp, ok := spec.Sorts[f.SortBy]; ok {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

// Page возвращает окно списка после фильтрации.
func Page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func active(value string) bool {
	return value != "" && value != All
}

func matches[T any](fields func(T) []string, item T, query string) bool {
	if fields == nil {
		return false
	}
	for _, field := range fields(item) {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
