package pages

import (
	"net/url"
	"slices"
)

// param — скрытое поле формы, переносящее критерий списка.
type param struct {
	Name  string
	Value string
}

// hiddenPairs раскладывает критерии в поля формы в порядке ключей.
func hiddenPairs(values url.Values) []param {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var out []param
	for _, k := range keys {
		for _, v := range values[k] {
			out = append(out, param{Name: k, Value: v})
		}
	}
	return out
}

func ariaSort(desc bool) string {
	if desc {
		return "descending"
	}
	return "ascending"
}

func sortMark(h Header) string {
	switch {
	case !h.Sorted:
		return ""
	case h.Desc:
		return " ↓"
	default:
		return " ↑"
	}
}

func buttonClass(destructive bool) string {
	if destructive {
		return "btn btn-danger"
	}
	return "btn"
}
