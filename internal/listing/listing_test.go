package listing

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID       string
	Name     string
	URL      string
	Status   string
	Country  string
	Traffic  int64
	Revenue  *float64
	Verified bool
	Created  time.Time
}

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func rowSpec() Spec[row] {
	return Spec[row]{
		Tab:       func(r row) string { return r.Status },
		Timestamp: func(r row) time.Time { return r.Created },
		QuickFilters: map[string]Predicate[row]{
			"high_traffic": func(r row, _ time.Time) bool { return r.Traffic >= 100000 },
			"verified":     func(r row, _ time.Time) bool { return r.Verified },
		},
		SearchFields: []Accessor[row]{
			func(r row) string { return r.Name },
			func(r row) string { return r.URL },
		},
		Columns: map[string]Accessor[row]{
			"country": func(r row) string { return r.Country },
		},
		Comparators: map[string]Comparator[row]{
			"name":    func(a, b row) int { return CompareFold(a.Name, b.Name) },
			"traffic": func(a, b row) int { return CompareInt(a.Traffic, b.Traffic) },
			"revenue": func(a, b row) int { return CompareOptional(a.Revenue, b.Revenue) },
			"created": func(a, b row) int { return CompareTime(a.Created, b.Created) },
		},
	}
}

func ptr(v float64) *float64 { return &v }

func sampleRows() []row {
	return []row{
		{ID: "1", Name: "Alpha", URL: "alpha.in", Status: "active", Country: "IN", Traffic: 150000, Verified: true, Revenue: ptr(10), Created: now.Add(-72 * time.Hour)},
		{ID: "2", Name: "beta", URL: "beta.com", Status: "monitoring", Country: "US", Traffic: 5000, Created: now.Add(-48 * time.Hour)},
		{ID: "3", Name: "Gamma", URL: "gamma.in", Status: "active", Country: "IN", Traffic: 200000, Revenue: ptr(5), Created: now.Add(-24 * time.Hour)},
		{ID: "4", Name: "delta", URL: "shop.delta.io", Status: "archived", Country: "UK", Traffic: 90000, Verified: true, Created: now},
		{ID: "5", Name: "Alpha Two", URL: "alpha2.in", Status: "active", Country: "US", Traffic: 150000, Verified: true, Created: now.Add(-time.Hour)},
	}
}

func ids(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestFilter_IdentityShortCircuit(t *testing.T) {
	items := sampleRows()
	got := Filter(rowSpec(), items, Criteria{Tab: AllTab}, now)
	assert.Equal(t, items, got)

	empty := Filter(rowSpec(), []row{}, Criteria{Search: "x"}, now)
	assert.Empty(t, empty)
}

func TestFilter_NoMatchReturnsEmptyNonNil(t *testing.T) {
	got := Filter(rowSpec(), sampleRows(), Criteria{Search: "nothing-matches"}, now)
	require.NotNil(t, got)
	assert.Len(t, got, 0)
}

func TestFilter_Categories(t *testing.T) {
	day := func(d int) *time.Time {
		v := time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"вкладка", Criteria{Tab: "active"}, []string{"1", "3", "5"}},
		{"быстрый фильтр", Criteria{QuickFilter: "high_traffic"}, []string{"1", "3", "5"}},
		{"неизвестный быстрый фильтр игнорируется", Criteria{QuickFilter: "bogus"}, []string{"1", "2", "3", "4", "5"}},
		{"поиск без учёта регистра по любому полю", Criteria{Search: "ALPHA"}, []string{"1", "5"}},
		{"поиск по url", Criteria{Search: "delta.io"}, []string{"4"}},
		{"фильтр колонки (ИЛИ внутри набора)", Criteria{Columns: map[string][]string{"country": {"UK", "US"}}}, []string{"2", "4", "5"}},
		{"пустой набор колонки не ограничивает", Criteria{Columns: map[string][]string{"country": {}}}, []string{"1", "2", "3", "4", "5"}},
		{"неизвестная колонка игнорируется", Criteria{Columns: map[string][]string{"bogus": {"x"}}}, []string{"1", "2", "3", "4", "5"}},
		{"период: to включает весь день", Criteria{From: day(8), To: day(9)}, []string{"2", "3"}},
		{"период: только from", Criteria{From: day(10)}, []string{"4", "5"}},
		{"период: только to", Criteria{To: day(7)}, []string{"1"}},
		{"сочетание критериев (И)", Criteria{Tab: "active", QuickFilter: "verified", Columns: map[string][]string{"country": {"IN"}}}, []string{"1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(rowSpec(), sampleRows(), tt.c, now)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	criteria := []Criteria{
		{Tab: "active"},
		{QuickFilter: "verified", Search: "a"},
		{Columns: map[string][]string{"country": {"IN", "US"}}, Search: "in"},
		{Search: "zzz"},
	}
	for i, c := range criteria {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			once := Filter(rowSpec(), sampleRows(), c, now)
			twice := Filter(rowSpec(), once, c, now)
			assert.Equal(t, ids(once), ids(twice))
		})
	}
}

func TestSearch_NarrowsResult(t *testing.T) {
	base := Filter(rowSpec(), sampleRows(), Criteria{Tab: "active"}, now)
	for _, q := range []string{"a", "alpha", ".in", "two", "nope", ""} {
		searched := Filter(rowSpec(), base, Criteria{Tab: "active", Search: q}, now)
		assert.Subset(t, ids(base), ids(searched), "запрос %q", q)
	}
}

func TestToggleQuickFilter_Exclusive(t *testing.T) {
	var c Criteria
	c = c.ToggleQuickFilter("high_traffic")
	c = c.ToggleQuickFilter("verified")
	assert.Equal(t, "verified", c.QuickFilter)

	// Запись 1 удовлетворяет обоим предикатам, запись 4 — только verified.
	got := Filter(rowSpec(), sampleRows(), c, now)
	assert.Equal(t, []string{"1", "4", "5"}, ids(got))

	c = c.ToggleQuickFilter("verified")
	assert.Empty(t, c.QuickFilter)
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	items := sampleRows()
	before := ids(items)
	sorted := Sort(rowSpec(), items, SortDirective{Field: "name", Descending: true})
	assert.Equal(t, before, ids(items))
	assert.Equal(t, []string{"3", "4", "2", "5", "1"}, ids(sorted))
}

func TestSort_Stable(t *testing.T) {
	// 1 и 5 имеют одинаковый трафик — исходный порядок сохраняется.
	sorted := Sort(rowSpec(), sampleRows(), SortDirective{Field: "traffic"})
	assert.Equal(t, []string{"2", "4", "1", "5", "3"}, ids(sorted))

	desc := Sort(rowSpec(), sampleRows(), SortDirective{Field: "traffic", Descending: true})
	assert.Equal(t, []string{"3", "1", "5", "4", "2"}, ids(desc))
}

func TestSort_OptionalNilAsZero(t *testing.T) {
	sorted := Sort(rowSpec(), sampleRows(), SortDirective{Field: "revenue"})
	assert.Equal(t, []string{"2", "4", "5", "3", "1"}, ids(sorted))
}

func TestSort_UnknownFieldIsNoop(t *testing.T) {
	sorted := Sort(rowSpec(), sampleRows(), SortDirective{Field: "bogus"})
	assert.Equal(t, ids(sampleRows()), ids(sorted))
}

func TestSort_MultiplePassesLastWins(t *testing.T) {
	sorted := Sort(rowSpec(), sampleRows(),
		SortDirective{Field: "name"},
		SortDirective{Field: "traffic", Descending: true},
	)
	// Равный трафик 1 и 5 упорядочен предыдущим проходом по имени.
	assert.Equal(t, []string{"3", "1", "5", "4", "2"}, ids(sorted))
}

func TestSort_DefaultComparator(t *testing.T) {
	spec := rowSpec()
	spec.DefaultSort = func(a, b row) int { return CompareTime(b.Created, a.Created) }

	sorted := Sort(spec, sampleRows())
	assert.Equal(t, []string{"4", "5", "3", "2", "1"}, ids(sorted))

	explicit := Sort(spec, sampleRows(), SortDirective{Field: "name"})
	assert.Equal(t, []string{"1", "5", "2", "4", "3"}, ids(explicit))

	// Неизвестное поле не меняет порядок фильтра и не включает DefaultSort.
	unknown := Sort(spec, sampleRows(), SortDirective{Field: "bogus", Descending: true})
	assert.Equal(t, ids(sampleRows()), ids(unknown))

	ctrl, err := FromQuery(spec, url.Values{"sort": {"bogus"}}, 10)
	require.NoError(t, err)
	assert.Equal(t, ids(sampleRows()), ids(ctrl.Compute(sampleRows(), time.Now()).Items))
}

func TestPaginate_Totality(t *testing.T) {
	for n := 0; n <= 23; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		for _, size := range []int{1, 3, 10, 25} {
			var joined []int
			pages := PageCount(n, size)
			for p := 1; p <= pages; p++ {
				joined = append(joined, Paginate(items, p, size)...)
			}
			if n == 0 {
				assert.Empty(t, joined)
				continue
			}
			assert.Equal(t, items, joined, "n=%d size=%d", n, size)
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	items := []int{1, 2, 3}
	got := Paginate(items, 5, 10)
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, Paginate(items, 0, 10))
	assert.Equal(t, []int{3}, Paginate(items, 2, 2))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 5, PageCount(50, 10))
}

func TestPager_SizeChangeResetsPage(t *testing.T) {
	const n = 50
	p := NewPager(10)
	p.SetPage(3)
	require.Equal(t, 5, p.Reconcile(n))
	require.Equal(t, 3, p.Page)

	p.SetSize(25)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 2, p.Reconcile(n))
}

func TestPager_InvalidSizeKeepsCurrent(t *testing.T) {
	p := NewPager(7)
	assert.Equal(t, DefaultPageSize, p.Size)
	p.SetSize(50)
	p.SetSize(33)
	assert.Equal(t, 50, p.Size)
}

func TestPager_ReconcileResetsOverflow(t *testing.T) {
	p := NewPager(10)
	p.SetPage(4)
	p.Reconcile(12)
	assert.Equal(t, 1, p.Page)
}

func TestController_Compute(t *testing.T) {
	ctrl := NewController(rowSpec(), 10)
	ctrl.SetPageSize(25)
	ctrl.Pager.SetPage(2)
	ctrl.SetCriteria(Criteria{Tab: "active"}.WithSort("traffic"))

	view := ctrl.Compute(sampleRows(), now)
	assert.Equal(t, 1, view.Page, "страница вышла за пределы и сброшена")
	assert.Equal(t, 1, view.PageCount)
	assert.Equal(t, 5, view.Total)
	assert.Equal(t, []string{"1", "5", "3"}, ids(view.Items))
	assert.Equal(t, ids(view.Items), ids(view.Filtered))
}

func TestController_FromQuery(t *testing.T) {
	values := url.Values{
		"tab":         {"active"},
		"q":           {" alpha "},
		"qf":          {"verified"},
		"from":        {"2026-03-01"},
		"sort":        {"name"},
		"dir":         {"desc"},
		"page":        {"2"},
		"size":        {"25"},
		"col.country": {"IN", ""},
		"sel":         {"5", "1"},
	}
	ctrl, err := FromQuery(rowSpec(), values, 10)
	require.NoError(t, err)

	c := ctrl.Criteria
	assert.Equal(t, "active", c.Tab)
	assert.Equal(t, "alpha", c.Search)
	assert.Equal(t, "verified", c.QuickFilter)
	require.NotNil(t, c.From)
	assert.Equal(t, "2026-03-01", c.From.Format(dateLayout))
	assert.Equal(t, []SortDirective{{Field: "name", Descending: true}}, c.Sort)
	assert.Equal(t, map[string][]string{"country": {"IN"}}, c.Columns)
	assert.Equal(t, 25, ctrl.Pager.Size)
	assert.Equal(t, 2, ctrl.Pager.Page)
	selected := ctrl.SelectedOf(sampleRows(), func(r row) string { return r.ID })
	require.Len(t, selected, 2)
	assert.Equal(t, "1", selected[0].ID)
	assert.Equal(t, "5", selected[1].ID)

	round := c.QueryWithPage(2, 25)
	again, page, size, err := ParseCriteria(round)
	require.NoError(t, err)
	assert.Equal(t, 2, page)
	assert.Equal(t, 25, size)
	assert.Equal(t, c.Columns, again.Columns)
	assert.Equal(t, c.Sort, again.Sort)
}

func TestParseCriteria_Errors(t *testing.T) {
	tests := []url.Values{
		{"page": {"abc"}},
		{"from": {"10.03.2026"}},
		{"to": {"2026-13-01"}},
	}
	for _, v := range tests {
		_, _, _, err := ParseCriteria(v)
		assert.Error(t, err, "параметры %v", v)
	}
}

func TestCriteria_WithSortToggles(t *testing.T) {
	c := Criteria{}.WithSort("name")
	assert.False(t, c.Sort[0].Descending)
	c = c.WithSort("name")
	assert.True(t, c.Sort[0].Descending)
	c = c.WithSort("traffic")
	assert.Equal(t, SortDirective{Field: "traffic"}, c.Sort[0])
}
