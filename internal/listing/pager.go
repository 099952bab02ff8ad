package listing

import "slices"

// DefaultPageSize — размер страницы по умолчанию.
const DefaultPageSize = 10

// PageSizes — допустимые размеры страницы.
var PageSizes = []int{10, 25, 50, 100}

// Paginate возвращает окно [(page-1)*size, page*size), обрезанное по границам.
// Страница вне диапазона — пустой срез (не nil).
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 || page < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return items[start:end:end]
}

// PageCount — ceil(total/size), минимум 1.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Pager — текущая позиция пагинации.
type Pager struct {
	Page int
	Size int
}

// NewPager создаёт пагинатор на первой странице.
// Недопустимый размер заменяется на DefaultPageSize.
func NewPager(size int) Pager {
	p := Pager{Page: 1, Size: DefaultPageSize}
	p.SetSize(size)
	return p
}

// SetSize меняет размер страницы и возвращает на первую страницу.
func (p *Pager) SetSize(size int) {
	if slices.Contains(PageSizes, size) {
		p.Size = size
	}
	p.Page = 1
}

// SetPage переходит на страницу (значения < 1 приводятся к 1).
func (p *Pager) SetPage(page int) {
	p.Page = max(page, 1)
}

// Reconcile пересчитывает число страниц для total записей
// и сбрасывает страницу на 1, если она вышла за пределы.
func (p *Pager) Reconcile(total int) int {
	count := PageCount(total, p.Size)
	if p.Page > count || p.Page < 1 {
		p.Page = 1
	}
	return count
}
