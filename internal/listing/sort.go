package listing

import "slices"

// Sort возвращает новую упорядоченную последовательность, исходный срез
// не изменяется. Каждая директива — отдельный стабильный проход, поэтому
// последняя директива определяет итоговый порядок, а предыдущие разрешают
// равенства. Неизвестные поля пропускаются без изменения порядка.
//
// Без директив применяется DefaultSort (если задан), иначе сохраняется
// порядок фильтра.
func Sort[T any](spec Spec[T], items []T, directives ...SortDirective) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}

	if len(directives) == 0 {
		if spec.DefaultSort != nil {
			slices.SortStableFunc(out, spec.DefaultSort)
		}
		return out
	}

	for _, d := range directives {
		compare, ok := spec.Comparators[d.Field]
		if !ok {
			continue
		}
		if d.Descending {
			slices.SortStableFunc(out, func(a, b T) int { return compare(b, a) })
		} else {
			slices.SortStableFunc(out, compare)
		}
	}
	return out
}
