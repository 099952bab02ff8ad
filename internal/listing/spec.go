// Пакет listing — конвейер обработки списков админ-страниц:
// фильтрация (вкладка → период → быстрый фильтр → поиск → фильтры колонок),
// сортировка по таблице компараторов и постраничная нарезка.
//
// Доменные различия описываются данными (Spec): таблицами предикатов,
// полей поиска и компараторов. Конвейер пересчитывается целиком на каждый
// запрос, инкрементального пересчёта нет.
package listing

import (
	"cmp"
	"strings"
	"time"
)

// AllTab — вкладка по умолчанию, отключающая фильтр по вкладке.
const AllTab = "all"

// Predicate — именованный быстрый фильтр. now — момент вычисления
// (для условий вида «старше 24 часов»).
type Predicate[T any] func(item T, now time.Time) bool

// Comparator — сравнение двух записей по одному полю (по возрастанию).
type Comparator[T any] func(a, b T) int

// Accessor — извлечение строкового значения поля записи.
type Accessor[T any] func(item T) string

// Spec — описание конвейера для одного домена.
// Все поля — обычные данные: добавление сортируемой колонки или
// быстрого фильтра — изменение таблицы, а не кода.
type Spec[T any] struct {
	// Tab — значение записи для фильтра по вкладке (nil — вкладок нет)
	Tab Accessor[T]
	// Timestamp — поле для фильтра по периоду (nil — фильтра нет)
	Timestamp func(item T) time.Time
	// QuickFilters — быстрые фильтры по имени
	QuickFilters map[string]Predicate[T]
	// SearchFields — поля полнотекстового поиска (совпадение в любом)
	SearchFields []Accessor[T]
	// Columns — поля фильтров колонок по идентификатору
	Columns map[string]Accessor[T]
	// Comparators — сортируемые поля по идентификатору
	Comparators map[string]Comparator[T]
	// DefaultSort — порядок при отсутствии явной сортировки (nil — порядок фильтра)
	DefaultSort Comparator[T]
}

// IsSortable проверяет, есть ли компаратор для поля.
func (s Spec[T]) IsSortable(field string) bool {
	_, ok := s.Comparators[field]
	return ok
}

// --- Компараторы полей ---

// CompareFold сравнивает строки без учёта регистра.
func CompareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// CompareInt сравнивает целые числа.
func CompareInt[N ~int | ~int64 | ~int32](a, b N) int {
	return cmp.Compare(a, b)
}

// CompareFloat сравнивает числа с плавающей точкой.
func CompareFloat(a, b float64) int {
	return cmp.Compare(a, b)
}

// CompareOptional сравнивает опциональные числа, nil считается нулём.
func CompareOptional(a, b *float64) int {
	return cmp.Compare(deref(a), deref(b))
}

// CompareTime сравнивает метки времени по миллисекундам эпохи.
func CompareTime(a, b time.Time) int {
	return cmp.Compare(a.UnixMilli(), b.UnixMilli())
}

// CompareOptionalTime сравнивает опциональные метки времени, nil — ноль эпохи.
func CompareOptionalTime(a, b *time.Time) int {
	var am, bm int64
	if a != nil {
		am = a.UnixMilli()
	}
	if b != nil {
		bm = b.UnixMilli()
	}
	return cmp.Compare(am, bm)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
