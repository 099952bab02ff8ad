package listing

import (
	"slices"
	"strings"
	"time"
)

// endOfDay — смещение верхней границы периода до конца дня (23:59:59.999).
const endOfDay = 24*time.Hour - time.Millisecond

// Filter сужает коллекцию по всем активным критериям (логическое И):
// вкладка → период → быстрый фильтр → поиск → фильтры колонок.
//
// Пустая коллекция или отсутствие критериев возвращает items без изменений.
// Если совпадений нет — пустой срез, не nil.
// Неизвестные быстрые фильтры и колонки игнорируются.
func Filter[T any](spec Spec[T], items []T, c Criteria, now time.Time) []T {
	if len(items) == 0 || c.IsEmpty() {
		return items
	}

	preds := make([]func(T) bool, 0, 5)

	if spec.Tab != nil && c.Tab != "" && c.Tab != AllTab {
		tab := c.Tab
		preds = append(preds, func(item T) bool { return spec.Tab(item) == tab })
	}

	if spec.Timestamp != nil && (c.From != nil || c.To != nil) {
		from, to := c.From, c.To
		var upper time.Time
		if to != nil {
			y, m, d := to.Date()
			upper = time.Date(y, m, d, 0, 0, 0, 0, to.Location()).Add(endOfDay)
		}
		preds = append(preds, func(item T) bool {
			ts := spec.Timestamp(item)
			if from != nil && ts.Before(*from) {
				return false
			}
			if to != nil && ts.After(upper) {
				return false
			}
			return true
		})
	}

	if pred, ok := spec.QuickFilters[c.QuickFilter]; ok && c.QuickFilter != "" {
		preds = append(preds, func(item T) bool { return pred(item, now) })
	}

	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" && len(spec.SearchFields) > 0 {
		preds = append(preds, func(item T) bool { return matchesSearch(spec.SearchFields, item, q) })
	}

	for field, values := range c.Columns {
		accessor, ok := spec.Columns[field]
		if !ok || len(values) == 0 {
			continue
		}
		accepted := values
		preds = append(preds, func(item T) bool { return slices.Contains(accepted, accessor(item)) })
	}

	if len(preds) == 0 {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(preds, item) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAll[T any](preds []func(T) bool, item T) bool {
	for _, p := range preds {
		if !p(item) {
			return false
		}
	}
	return true
}

func matchesSearch[T any](fields []Accessor[T], item T, lowerQuery string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f(item)), lowerQuery) {
			return true
		}
	}
	return false
}
