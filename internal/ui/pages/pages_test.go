package pages

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestListPage_EscapesCells(t *testing.T) {
	html := render(t, ListPage(ListView{
		Title:   "Stores",
		BaseURL: "/admin/stores",
		Headers: []Header{{Label: "Name", SortURL: "/admin/stores?sort=name", Sorted: true, Desc: true}},
		Rows: []Row{
			{ID: "store_01", ViewURL: "/admin/stores/store_01", Cells: []string{`<script>alert("x")</script>`}, Selected: true},
			{ID: "store_02", Cells: []string{"Bewakoof"}, InFlight: true},
		},
		Criteria: url.Values{"tab": {"active"}},
	}))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, `aria-sort="descending"`)
	assert.Contains(t, html, `value="store_01" checked`)
	assert.Contains(t, html, `class="in-flight"`)
	assert.Contains(t, html, `<input type="hidden" name="tab" value="active">`)
}

func TestListPage_Empty(t *testing.T) {
	html := render(t, ListPage(ListView{
		Title:   "Orders",
		Headers: []Header{{Label: "ID"}, {Label: "Status"}},
	}))
	assert.Contains(t, html, `colspan="3"`)
	assert.NotContains(t, html, "<a class=\"btn btn-primary\"", "без права создания кнопки нет")
}

func TestConfirmPage(t *testing.T) {
	html := render(t, ConfirmPage(ConfirmView{
		Title:       "Delete",
		Message:     `Delete "Nykaa"?`,
		ConfirmURL:  "/admin/stores/confirm/abc",
		CancelURL:   "/admin/stores/cancel/abc",
		ReturnURL:   "/admin/stores?tab=active",
		Destructive: true,
	}))

	assert.Contains(t, html, `action="/admin/stores/confirm/abc"`)
	assert.Contains(t, html, `action="/admin/stores/cancel/abc"`)
	assert.Contains(t, html, "btn btn-danger")
	assert.Contains(t, html, "&#34;Nykaa&#34;")
}

func TestFormPage_InlineErrors(t *testing.T) {
	html := render(t, FormPage(FormView{
		Title:     "New plan",
		ActionURL: "/admin/plans",
		Fields: []FormField{
			{Name: "name", Label: "Name", Type: "text", Required: true, Error: "This field is required"},
			{Name: "billing_interval", Label: "Billing", Type: "select", Value: "yearly", Options: []Option{
				{Value: "monthly", Label: "Monthly"},
				{Value: "yearly", Label: "Yearly", Selected: true},
			}},
			{Name: "is_active", Label: "Active", Type: "checkbox", Value: "true"},
		},
	}))

	assert.Contains(t, html, "novalidate")
	assert.Contains(t, html, "This field is required")
	assert.Contains(t, html, `value="yearly" selected`)
	assert.Contains(t, html, `name="is_active"`)
}

func TestPage_LanguageSwitch(t *testing.T) {
	html := render(t, Page(Layout{
		Title: "Plans",
		Lang:  "ru",
		Back:  "/admin/plans?tab=active",
		Nav:   []Link{{Label: "Plans", URL: "/admin/plans", Active: true}},
		Flash: Flash{Kind: "error", Message: "Boom"},
	}, ErrorPage("Not found", "/admin/plans")))

	assert.Contains(t, html, `lang="ru"`)
	assert.Contains(t, html, `action="/admin/set-language"`)
	assert.Contains(t, html, `value="/admin/plans?tab=active"`)
	assert.Contains(t, html, "Boom")
	assert.Contains(t, html, "/static/css/app.css")
}

func TestListPage_CriteriaInKeyOrder(t *testing.T) {
	html := render(t, ListPage(ListView{
		Title:    "Suppliers",
		Criteria: url.Values{"tab": {"verified"}, "q": {"textile"}, "col.country": {"IN", "BD"}},
		Tabs:     []Link{{Label: "All", URL: "/admin/suppliers"}, {Label: "Verified", URL: "/admin/suppliers?tab=verified", Active: true}},
	}))

	country := strings.Index(html, `name="col.country" value="IN"`)
	bd := strings.Index(html, `name="col.country" value="BD"`)
	q := strings.Index(html, `name="q" value="textile"`)
	tab := strings.Index(html, `name="tab" value="verified"`)
	require.True(t, country >= 0 && bd >= 0 && q >= 0 && tab >= 0, html)
	assert.Less(t, country, bd)
	assert.Less(t, bd, q)
	assert.Less(t, q, tab)

	assert.Contains(t, html, `<a class="tab active" href="/admin/suppliers?tab=verified">Verified</a>`)
	assert.Contains(t, html, `<a class="tab" href="/admin/suppliers">All</a>`)
}

func TestPage_DefaultLanguage(t *testing.T) {
	html := render(t, Page(Layout{Title: "Orders"}, ErrorPage("Boom", "")))

	assert.Contains(t, html, `lang="en"`)
	assert.Contains(t, html, `value="en" disabled>`)
	assert.NotContains(t, html, `value="ru" disabled`)
	assert.NotContains(t, html, `class="operator"><span`, "без оператора роль не выводится")
}
