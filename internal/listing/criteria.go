package listing

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
)

// Префикс параметров фильтров колонок в query string: col.<field>=value.
const columnParamPrefix = "col."

// Формат дат в query string (from/to).
const dateLayout = "2006-01-02"

// SortDirective — активная сортировка по полю.
type SortDirective struct {
	Field      string
	Descending bool
}

// Criteria — активные критерии фильтрации и сортировки страницы.
type Criteria struct {
	// Tab — выбранная вкладка ("" или "all" — без фильтра)
	Tab string
	// From, To — границы периода (включительно, любая может отсутствовать)
	From *time.Time
	To   *time.Time
	// QuickFilter — активный быстрый фильтр (не более одного)
	QuickFilter string
	// Search — строка поиска
	Search string
	// Columns — допустимые значения по полям колонок
	Columns map[string][]string
	// Sort — активные сортировки (на практике не более одной)
	Sort []SortDirective
}

// IsEmpty — ни один критерий фильтрации не задан.
func (c Criteria) IsEmpty() bool {
	if c.Tab != "" && c.Tab != AllTab {
		return false
	}
	if c.From != nil || c.To != nil || c.QuickFilter != "" || strings.TrimSpace(c.Search) != "" {
		return false
	}
	for _, values := range c.Columns {
		if len(values) > 0 {
			return false
		}
	}
	return true
}

// ToggleQuickFilter выбирает быстрый фильтр name, снимая предыдущий.
// Повторный выбор активного фильтра снимает его.
func (c Criteria) ToggleQuickFilter(name string) Criteria {
	if c.QuickFilter == name {
		c.QuickFilter = ""
		return c
	}
	c.QuickFilter = name
	return c
}

// WithSort задаёт единственную активную сортировку.
// Повторный выбор того же поля меняет направление.
func (c Criteria) WithSort(field string) Criteria {
	desc := false
	if len(c.Sort) == 1 && c.Sort[0].Field == field {
		desc = !c.Sort[0].Descending
	}
	c.Sort = []SortDirective{{Field: field, Descending: desc}}
	return c
}

// queryParams — параметры списка в query string.
type queryParams struct {
	Tab         *string
	Search      *string
	QuickFilter *string
	From        *string
	To          *string
	Sort        *string
	Dir         *string
	Page        *int
	Size        *int
}

// ParseCriteria разбирает критерии и позицию пагинации из query string.
// Некорректные значения параметров — ошибка (страница отвечает 400).
func ParseCriteria(values url.Values) (Criteria, int, int, error) {
	var p queryParams
	binds := []struct {
		name string
		dest any
	}{
		{"tab", &p.Tab},
		{"q", &p.Search},
		{"qf", &p.QuickFilter},
		{"from", &p.From},
		{"to", &p.To},
		{"sort", &p.Sort},
		{"dir", &p.Dir},
		{"page", &p.Page},
		{"size", &p.Size},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, values, b.dest); err != nil {
			return Criteria{}, 0, 0, fmt.Errorf("параметр %s: %w", b.name, err)
		}
	}

	var c Criteria
	c.Tab = strValue(p.Tab)
	c.Search = strValue(p.Search)
	c.QuickFilter = strValue(p.QuickFilter)

	var err error
	if c.From, err = parseDate(strValue(p.From)); err != nil {
		return Criteria{}, 0, 0, fmt.Errorf("параметр from: %w", err)
	}
	if c.To, err = parseDate(strValue(p.To)); err != nil {
		return Criteria{}, 0, 0, fmt.Errorf("параметр to: %w", err)
	}

	if field := strValue(p.Sort); field != "" {
		c.Sort = []SortDirective{{Field: field, Descending: strValue(p.Dir) == "desc"}}
	}

	for key, vals := range values {
		if !strings.HasPrefix(key, columnParamPrefix) {
			continue
		}
		field := strings.TrimPrefix(key, columnParamPrefix)
		var nonEmpty []string
		for _, v := range vals {
			if v = strings.TrimSpace(v); v != "" {
				nonEmpty = append(nonEmpty, v)
			}
		}
		if field != "" && len(nonEmpty) > 0 {
			if c.Columns == nil {
				c.Columns = make(map[string][]string)
			}
			c.Columns[field] = nonEmpty
		}
	}

	page, size := 1, 0
	if p.Page != nil {
		page = *p.Page
	}
	if p.Size != nil {
		size = *p.Size
	}
	return c, page, size, nil
}

// Query возвращает критерии в виде query string (для ссылок страницы).
func (c Criteria) Query() url.Values {
	v := url.Values{}
	if c.Tab != "" && c.Tab != AllTab {
		v.Set("tab", c.Tab)
	}
	if c.Search != "" {
		v.Set("q", c.Search)
	}
	if c.QuickFilter != "" {
		v.Set("qf", c.QuickFilter)
	}
	if c.From != nil {
		v.Set("from", c.From.Format(dateLayout))
	}
	if c.To != nil {
		v.Set("to", c.To.Format(dateLayout))
	}
	if len(c.Sort) > 0 {
		v.Set("sort", c.Sort[0].Field)
		if c.Sort[0].Descending {
			v.Set("dir", "desc")
		} else {
			v.Set("dir", "asc")
		}
	}
	fields := make([]string, 0, len(c.Columns))
	for f := range c.Columns {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		for _, val := range c.Columns[f] {
			v.Add(columnParamPrefix+f, val)
		}
	}
	return v
}

// QueryWithPage добавляет к критериям позицию пагинации.
func (c Criteria) QueryWithPage(page, size int) url.Values {
	v := c.Query()
	v.Set("page", strconv.Itoa(page))
	v.Set("size", strconv.Itoa(size))
	return v
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("некорректная дата %q (ожидается ГГГГ-ММ-ДД)", s)
	}
	return &t, nil
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
