package listing

import (
	"net/url"
	"time"
)

// View — результат вычисления конвейера для одной страницы.
type View[T any] struct {
	// Items — записи текущей страницы
	Items []T
	// Filtered — отфильтрованная и отсортированная последовательность целиком
	// (используется для экспорта без выделения)
	Filtered []T
	// Total — размер исходной коллекции
	Total     int
	Page      int
	PageSize  int
	PageCount int
}

// Controller — обобщённый контроллер списка: спецификация домена,
// активные критерии, пагинация и набор выделенных записей.
type Controller[T any] struct {
	Spec     Spec[T]
	Criteria Criteria
	Pager    Pager
	// Selected — идентификаторы отмеченных строк
	Selected map[string]struct{}
}

// NewController создаёт контроллер с пустыми критериями.
func NewController[T any](spec Spec[T], pageSize int) *Controller[T] {
	return &Controller[T]{
		Spec:     spec,
		Pager:    NewPager(pageSize),
		Selected: make(map[string]struct{}),
	}
}

// FromQuery создаёт контроллер по параметрам запроса страницы.
// Выделение берётся из параметров sel.
func FromQuery[T any](spec Spec[T], values url.Values, defaultSize int) (*Controller[T], error) {
	c, page, size, err := ParseCriteria(values)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		size = defaultSize
	}
	ctrl := NewController(spec, size)
	ctrl.Criteria = c
	ctrl.Pager.SetPage(page)
	for _, id := range values["sel"] {
		if id != "" {
			ctrl.Selected[id] = struct{}{}
		}
	}
	return ctrl, nil
}

// SetCriteria заменяет критерии. Изменение критериев возвращает на первую
// страницу при следующем Compute, если текущая выйдет за пределы.
func (c *Controller[T]) SetCriteria(criteria Criteria) {
	c.Criteria = criteria
}

// SetPageSize меняет размер страницы (страница сбрасывается на 1).
func (c *Controller[T]) SetPageSize(size int) {
	c.Pager.SetSize(size)
}

// IsSelected проверяет, отмечена ли запись.
func (c *Controller[T]) IsSelected(id string) bool {
	_, ok := c.Selected[id]
	return ok
}

// SelectedOf возвращает отмеченные записи items в их исходном порядке.
// Без выделения возвращает items целиком.
func (c *Controller[T]) SelectedOf(items []T, idOf func(T) string) []T {
	if len(c.Selected) == 0 {
		return items
	}
	out := make([]T, 0, len(c.Selected))
	for _, item := range items {
		if c.IsSelected(idOf(item)) {
			out = append(out, item)
		}
	}
	return out
}

// Compute пересчитывает конвейер целиком: фильтр → сортировка →
// согласование пагинации → нарезка страницы.
func (c *Controller[T]) Compute(source []T, now time.Time) View[T] {
	filtered := Filter(c.Spec, source, c.Criteria, now)
	sorted := Sort(c.Spec, filtered, c.Criteria.Sort...)
	count := c.Pager.Reconcile(len(sorted))
	return View[T]{
		Items:     Paginate(sorted, c.Pager.Page, c.Pager.Size),
		Filtered:  sorted,
		Total:     len(source),
		Page:      c.Pager.Page,
		PageSize:  c.Pager.Size,
		PageCount: count,
	}
}
