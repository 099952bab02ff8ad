package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/backoffice/internal/adminclient"
	"github.com/bigkaa/backoffice/internal/api/middleware"
	"github.com/bigkaa/backoffice/internal/collection"
	"github.com/bigkaa/backoffice/internal/domain/rbac"
	"github.com/bigkaa/backoffice/internal/export"
	"github.com/bigkaa/backoffice/internal/i18n"
	"github.com/bigkaa/backoffice/internal/listing"
	"github.com/bigkaa/backoffice/internal/ui/pages"
	"github.com/bigkaa/backoffice/internal/validation"
)

// errActionFailed — действие завершилось ошибкой (сообщение уже сформировано).
var errActionFailed = errors.New("action failed")

// Page — админ-страница домена: список, просмотр, формы, действия, выгрузка.
type Page[T collection.Record[T]] struct {
	shell    *Shell
	domain   Domain[T]
	store    *collection.Store[T]
	tracker  *collection.ActionTracker
	pageSize int
	now      func() time.Time
	logger   *slog.Logger
}

// NewPage создаёт страницу домена d над коллекцией store.
func NewPage[T collection.Record[T]](
	shell *Shell,
	d Domain[T],
	store *collection.Store[T],
	tracker *collection.ActionTracker,
	pageSize int,
	logger *slog.Logger,
) *Page[T] {
	return &Page[T]{
		shell:    shell,
		domain:   d,
		store:    store,
		tracker:  tracker,
		pageSize: pageSize,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "ui."+d.Name)),
	}
}

// WithClock задаёт источник времени (для тестов).
func (p *Page[T]) WithClock(now func() time.Time) *Page[T] {
	p.now = now
	return p
}

// Routes регистрирует маршруты страницы под /admin/<name>.
func (p *Page[T]) Routes(r chi.Router) {
	r.Route(p.base(), func(r chi.Router) {
		r.Get("/", p.List)
		r.Get("/export.csv", p.Export)
		r.Get("/new", p.New)
		r.Post("/", p.Create)
		r.Post("/bulk/{action}", p.Bulk)
		r.Post("/confirm/{token}", p.Confirm)
		r.Post("/cancel/{token}", p.Cancel)
		r.Get("/{id}", p.View)
		r.Get("/{id}/edit", p.Edit)
		r.Post("/{id}", p.Update)
		r.Post("/{id}/actions/{action}", p.Action)
	})
}

func (p *Page[T]) base() string { return "/admin/" + p.domain.Name }

func (p *Page[T]) itemURL(id string) string { return p.base() + "/" + url.PathEscape(id) }

func (p *Page[T]) can(r *http.Request, perm string) bool {
	return rbac.Can(middleware.RoleFromContext(r.Context()), perm)
}

// load загружает коллекцию (или перечитывает, если домен этого требует).
func (p *Page[T]) load(ctx context.Context) error {
	if p.domain.RefreshOnView {
		return p.store.Refresh(ctx)
	}
	return p.store.Load(ctx)
}

// source возвращает коллекцию, подготовленную для конвейера.
func (p *Page[T]) source(ctx context.Context) []T {
	items := p.store.Items()
	if p.domain.Prepare != nil {
		items = p.domain.Prepare(ctx, items)
	}
	return items
}

// loadFailed отвечает страницей ошибки загрузки коллекции.
func (p *Page[T]) loadFailed(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Warn("Не удалось загрузить коллекцию", slog.String("error", err.Error()))
	p.shell.renderError(w, r, http.StatusBadGateway, p.domain.Name,
		i18n.T(r.Context(), "ui.load_failed")+": "+collection.MessageOf(err))
}

// List обрабатывает GET /admin/<name> — страница списка.
func (p *Page[T]) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := p.load(ctx); err != nil {
		p.loadFailed(w, r, err)
		return
	}

	ctrl, err := listing.FromQuery(p.domain.Spec, r.URL.Query(), p.pageSize)
	if err != nil {
		p.shell.renderError(w, r, http.StatusBadRequest, p.domain.Name,
			i18n.T(ctx, "ui.invalid_query")+": "+err.Error())
		return
	}

	source := p.source(ctx)
	view := ctrl.Compute(source, p.now())
	title := i18n.T(ctx, p.domain.Title)
	p.shell.render(w, r, http.StatusOK, p.domain.Name, title, pages.ListPage(p.listView(r, ctrl, source, view)))
}

func (p *Page[T]) listURL(c listing.Criteria, page, size int) string {
	return p.base() + "?" + c.QueryWithPage(page, size).Encode()
}

// listView собирает модель страницы списка.
func (p *Page[T]) listView(r *http.Request, ctrl *listing.Controller[T], source []T, view listing.View[T]) pages.ListView {
	ctx := r.Context()
	spec := p.domain.Spec
	c := ctrl.Criteria
	size := view.PageSize

	v := pages.ListView{
		Title:     i18n.T(ctx, p.domain.Title),
		BaseURL:   p.base(),
		Search:    c.Search,
		Page:      view.Page,
		PageCount: view.PageCount,
		Shown:     len(view.Items),
		Filtered:  len(view.Filtered),
		Total:     view.Total,
		Criteria:  c.Query(),
		ReturnURL: p.base() + "?" + c.QueryWithPage(view.Page, size).Encode(),
	}
	if c.From != nil {
		v.From = c.From.Format("2006-01-02")
	}
	if c.To != nil {
		v.To = c.To.Format("2006-01-02")
	}

	// Форма фильтра сохраняет вкладку, быстрый фильтр, сортировку и размер.
	v.Keep = url.Values{}
	for _, key := range []string{"tab", "qf", "sort", "dir"} {
		if val := v.Criteria.Get(key); val != "" {
			v.Keep.Set(key, val)
		}
	}
	v.Keep.Set("size", strconv.Itoa(size))

	if spec.Tab != nil {
		all := c
		all.Tab = ""
		v.Tabs = append(v.Tabs, pages.Link{
			Label:  i18n.T(ctx, "ui.tab.all"),
			URL:    p.listURL(all, 1, size),
			Active: c.Tab == "" || c.Tab == listing.AllTab,
		})
		for _, tab := range p.tabs(source) {
			next := c
			next.Tab = tab
			v.Tabs = append(v.Tabs, pages.Link{
				Label:  valueLabel(r, p.domain.ValuePrefix, tab),
				URL:    p.listURL(next, 1, size),
				Active: c.Tab == tab,
			})
		}
	}

	for _, name := range sortedKeys(spec.QuickFilters) {
		v.QuickFilters = append(v.QuickFilters, pages.Link{
			Label:  i18n.T(ctx, "ui.quick."+name),
			URL:    p.listURL(c.ToggleQuickFilter(name), 1, size),
			Active: c.QuickFilter == name,
		})
	}

	for _, field := range sortedKeys(spec.Columns) {
		accessor := spec.Columns[field]
		filter := pages.ColumnFilter{Field: field, Label: i18n.T(ctx, "ui.field."+field)}
		for _, val := range distinct(source, accessor) {
			filter.Options = append(filter.Options, pages.Option{
				Value:    val,
				Label:    valueLabel(r, p.domain.ValuePrefix, val),
				Selected: slices.Contains(c.Columns[field], val),
			})
		}
		v.Columns = append(v.Columns, filter)
	}

	for _, col := range p.domain.Table {
		h := pages.Header{Label: i18n.T(ctx, col.Label)}
		if col.Sort != "" && spec.IsSortable(col.Sort) {
			h.SortURL = p.listURL(c.WithSort(col.Sort), 1, size)
			if len(c.Sort) > 0 && c.Sort[0].Field == col.Sort {
				h.Sorted = true
				h.Desc = c.Sort[0].Descending
			}
		}
		v.Headers = append(v.Headers, h)
	}

	for _, item := range view.Items {
		id := item.GetID()
		row := pages.Row{
			ID:       id,
			ViewURL:  p.itemURL(id),
			Selected: ctrl.IsSelected(id),
			InFlight: p.store.InFlight(id),
		}
		for _, col := range p.domain.Table {
			row.Cells = append(row.Cells, valueLabel(r, p.domain.ValuePrefix, col.Value(item)))
		}
		v.Rows = append(v.Rows, row)
	}

	if view.Page > 1 {
		v.PrevURL = p.listURL(c, view.Page-1, size)
	}
	if view.Page < view.PageCount {
		v.NextURL = p.listURL(c, view.Page+1, size)
	}
	for _, s := range listing.PageSizes {
		v.PageSizes = append(v.PageSizes, pages.Link{
			Label:  strconv.Itoa(s),
			URL:    p.listURL(c, 1, s),
			Active: s == size,
		})
	}

	for _, a := range p.domain.Actions {
		if a.Bulk && p.can(r, a.Perm) {
			v.BulkActions = append(v.BulkActions, pages.ActionButton{
				Name:        a.Name,
				Label:       i18n.T(ctx, "ui.action."+a.Name),
				URL:         p.base() + "/bulk/" + a.Name,
				Destructive: a.Destructive,
			})
		}
	}
	if p.can(r, rbac.PermExportCSV) {
		v.ExportURL = p.base() + "/export.csv"
	}
	if len(p.domain.Form) > 0 && p.can(r, p.domain.ManagePerm) {
		v.CreateURL = p.base() + "/new"
	}
	return v
}

// tabs возвращает вкладки домена: фиксированные или значения коллекции.
func (p *Page[T]) tabs(source []T) []string {
	if p.domain.Tabs != nil {
		return p.domain.Tabs
	}
	return distinct(source, p.domain.Spec.Tab)
}

// Export обрабатывает GET /admin/<name>/export.csv — выгрузка выделенных
// записей или всего отфильтрованного списка.
func (p *Page[T]) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !p.can(r, rbac.PermExportCSV) {
		p.shell.renderError(w, r, http.StatusForbidden, p.domain.Name, i18n.T(ctx, "api.forbidden"))
		return
	}
	if err := p.load(ctx); err != nil {
		p.loadFailed(w, r, err)
		return
	}

	ctrl, err := listing.FromQuery(p.domain.Spec, r.URL.Query(), p.pageSize)
	if err != nil {
		p.shell.renderError(w, r, http.StatusBadRequest, p.domain.Name,
			i18n.T(ctx, "ui.invalid_query")+": "+err.Error())
		return
	}

	now := p.now()
	view := ctrl.Compute(p.source(ctx), now)
	rows := ctrl.SelectedOf(view.Filtered, func(item T) string { return item.GetID() })

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", export.ContentDisposition(export.Filename(p.domain.Name, now)))
	if err := export.Write(w, p.domain.Export, rows); err != nil {
		p.logger.Error("Ошибка выгрузки CSV", slog.String("error", err.Error()))
		return
	}
	p.logger.Info("Выгрузка CSV", slog.Int("rows", len(rows)))
}

// View обрабатывает GET /admin/<name>/{id} — быстрый просмотр.
func (p *Page[T]) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	item, ok := p.find(w, r)
	if !ok {
		return
	}
	if p.domain.Prepare != nil {
		item = p.domain.Prepare(ctx, []T{item})[0]
	}

	id := item.GetID()
	v := pages.DetailView{
		Title:     p.domain.RecordTitle(item),
		BackURL:   p.base(),
		InFlight:  p.store.InFlight(id),
		ReturnURL: p.itemURL(id),
	}
	details := p.domain.Details
	if details == nil {
		details = p.domain.Table
	}
	for _, col := range details {
		v.Fields = append(v.Fields, pages.Field{
			Label: i18n.T(ctx, col.Label),
			Value: valueLabel(r, p.domain.ValuePrefix, col.Value(item)),
		})
	}
	if len(p.domain.Form) > 0 && p.can(r, p.domain.ManagePerm) {
		v.EditURL = p.itemURL(id) + "/edit"
	}
	for _, a := range p.domain.Actions {
		if !p.can(r, a.Perm) || (a.Allowed != nil && !a.Allowed(item)) {
			continue
		}
		v.Actions = append(v.Actions, pages.ActionButton{
			Name:        a.Name,
			Label:       i18n.T(ctx, "ui.action."+a.Name),
			URL:         p.itemURL(id) + "/actions/" + a.Name,
			Destructive: a.Destructive,
		})
	}
	p.shell.render(w, r, http.StatusOK, p.domain.Name, v.Title, pages.DetailPage(v))
}

// find загружает коллекцию и ищет запись {id}. При неудаче отвечает сам.
func (p *Page[T]) find(w http.ResponseWriter, r *http.Request) (T, bool) {
	var zero T
	if err := p.store.Load(r.Context()); err != nil {
		p.loadFailed(w, r, err)
		return zero, false
	}
	item, ok := p.store.Get(chi.URLParam(r, "id"))
	if !ok {
		p.shell.renderError(w, r, http.StatusNotFound, p.domain.Name, i18n.T(r.Context(), "ui.not_found"))
		return zero, false
	}
	return item, true
}

// New обрабатывает GET /admin/<name>/new — форма создания.
func (p *Page[T]) New(w http.ResponseWriter, r *http.Request) {
	if !p.requireManage(w, r) {
		return
	}
	var item T
	p.renderForm(w, r, http.StatusOK, item.Normalized(), true, nil, "")
}

// Edit обрабатывает GET /admin/<name>/{id}/edit — форма редактирования.
func (p *Page[T]) Edit(w http.ResponseWriter, r *http.Request) {
	if !p.requireManage(w, r) {
		return
	}
	item, ok := p.find(w, r)
	if !ok {
		return
	}
	p.renderForm(w, r, http.StatusOK, item, false, nil, "")
}

// Create обрабатывает POST /admin/<name> — отправка формы создания.
// Форма проверяется до мутации; ошибки выводятся рядом с полями.
func (p *Page[T]) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !p.requireManage(w, r) {
		return
	}
	if err := p.store.Load(ctx); err != nil {
		p.loadFailed(w, r, err)
		return
	}

	var item T
	item, errs := p.parseForm(r, item.Normalized())
	if !errs.OK() {
		p.renderForm(w, r, http.StatusBadRequest, item, true, errs, "")
		return
	}

	created, err := p.store.Create(ctx, item)
	if err != nil {
		p.renderForm(w, r, http.StatusUnprocessableEntity, item, true, apiFields(err), collection.MessageOf(err))
		return
	}
	redirectWithFlash(w, r, p.base(), "success",
		i18n.Tf(ctx, "ui.flash.created", p.domain.RecordTitle(created)))
}

// Update обрабатывает POST /admin/<name>/{id} — отправка формы редактирования.
func (p *Page[T]) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !p.requireManage(w, r) {
		return
	}
	current, ok := p.find(w, r)
	if !ok {
		return
	}

	item, errs := p.parseForm(r, current)
	if !errs.OK() {
		p.renderForm(w, r, http.StatusBadRequest, item, false, errs, "")
		return
	}

	saved, err := p.store.Update(ctx, item)
	if err != nil {
		p.renderForm(w, r, http.StatusUnprocessableEntity, item, false, apiFields(err), collection.MessageOf(err))
		return
	}
	redirectWithFlash(w, r, p.itemURL(saved.GetID()), "success",
		i18n.Tf(ctx, "ui.flash.saved", p.domain.RecordTitle(saved)))
}

// requireManage проверяет право редактирования домена.
func (p *Page[T]) requireManage(w http.ResponseWriter, r *http.Request) bool {
	if len(p.domain.Form) == 0 {
		p.shell.renderError(w, r, http.StatusNotFound, p.domain.Name, i18n.T(r.Context(), "ui.not_found"))
		return false
	}
	if !p.can(r, p.domain.ManagePerm) {
		p.shell.renderError(w, r, http.StatusForbidden, p.domain.Name, i18n.T(r.Context(), "api.forbidden"))
		return false
	}
	return true
}

// parseForm накладывает значения формы на item и проверяет результат.
func (p *Page[T]) parseForm(r *http.Request, item T) (T, validation.Errors) {
	ctx := r.Context()
	errs := validation.Errors{}
	if err := r.ParseForm(); err != nil {
		errs["_form"] = i18n.T(ctx, "api.invalid_body")
		return item, errs
	}

	for _, f := range p.domain.Form {
		if err := f.Set(&item, r.PostForm.Get(f.Name)); err != nil {
			errs[f.Name] = i18n.T(ctx, "validation.number_invalid")
		}
	}
	if !errs.OK() {
		return item, errs
	}

	item = item.Normalized()
	if p.domain.Validate != nil {
		errs = p.domain.Validate(ctx, item, p.store.Items())
	}
	return item, errs
}

// renderForm рендерит форму создания или редактирования.
func (p *Page[T]) renderForm(w http.ResponseWriter, r *http.Request, status int, item T, isNew bool, errs map[string]string, message string) {
	ctx := r.Context()
	v := pages.FormView{Error: message}
	if isNew {
		v.Title = i18n.Tf(ctx, "ui.form.create", i18n.T(ctx, p.domain.Title))
		v.ActionURL = p.base()
		v.BackURL = p.base()
	} else {
		v.Title = i18n.Tf(ctx, "ui.form.edit", p.domain.RecordTitle(item))
		v.ActionURL = p.itemURL(item.GetID())
		v.BackURL = p.itemURL(item.GetID())
	}
	if msg, ok := errs["_form"]; ok && v.Error == "" {
		v.Error = msg
	}

	for _, f := range p.domain.Form {
		field := pages.FormField{
			Name:     f.Name,
			Label:    i18n.T(ctx, f.Label),
			Type:     f.Type,
			Value:    f.Get(item),
			Required: f.Required,
			Error:    errs[f.Name],
		}
		for _, opt := range f.Options {
			field.Options = append(field.Options, pages.Option{
				Value:    opt,
				Label:    valueLabel(r, p.domain.ValuePrefix, opt),
				Selected: opt == field.Value,
			})
		}
		v.Fields = append(v.Fields, field)
	}
	p.shell.render(w, r, status, p.domain.Name, v.Title, pages.FormPage(v))
}

// apiFields извлекает ошибки полей из ответа API.
func apiFields(err error) map[string]string {
	var apiErr *adminclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}

// Action обрабатывает POST /admin/<name>/{id}/actions/{action}.
// Право проверяется до открытия диалога; действия с подтверждением
// открывают диалог, остальные выполняются сразу.
func (p *Page[T]) Action(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	back := safeBack(r.FormValue("back"), p.base())

	a, ok := p.domain.action(chi.URLParam(r, "action"))
	if !ok {
		p.shell.renderError(w, r, http.StatusNotFound, p.domain.Name, i18n.T(ctx, "ui.not_found"))
		return
	}
	if !p.can(r, a.Perm) {
		redirectWithFlash(w, r, back, "error", i18n.T(ctx, "api.forbidden"))
		return
	}
	item, ok := p.find(w, r)
	if !ok {
		return
	}
	if a.Allowed != nil && !a.Allowed(item) {
		redirectWithFlash(w, r, back, "error", i18n.T(ctx, "ui.action_not_allowed"))
		return
	}

	ids := []string{item.GetID()}
	if a.Confirm {
		p.beginConfirm(w, r, a, ids, i18n.Tf(ctx, "ui.confirm.single",
			i18n.T(ctx, "ui.action."+a.Name), p.domain.RecordTitle(item)), back)
		return
	}

	kind, msg, _ := p.run(ctx, a, ids)
	redirectWithFlash(w, r, back, kind, msg)
}

// Bulk обрабатывает POST /admin/<name>/bulk/{action} над выделением sel.
func (p *Page[T]) Bulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		p.shell.renderError(w, r, http.StatusBadRequest, p.domain.Name, i18n.T(ctx, "api.invalid_body"))
		return
	}
	back := safeBack(r.PostForm.Get("back"), p.base())

	a, ok := p.domain.action(chi.URLParam(r, "action"))
	if !ok || !a.Bulk {
		p.shell.renderError(w, r, http.StatusNotFound, p.domain.Name, i18n.T(ctx, "ui.not_found"))
		return
	}
	if !p.can(r, a.Perm) {
		redirectWithFlash(w, r, back, "error", i18n.T(ctx, "api.forbidden"))
		return
	}
	if err := p.store.Load(ctx); err != nil {
		p.loadFailed(w, r, err)
		return
	}

	var ids []string
	for _, id := range r.PostForm["sel"] {
		if id == "" || slices.Contains(ids, id) {
			continue
		}
		if item, ok := p.store.Get(id); ok && (a.Allowed == nil || a.Allowed(item)) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		redirectWithFlash(w, r, back, "error", i18n.T(ctx, "ui.nothing_selected"))
		return
	}

	if a.Confirm {
		p.beginConfirm(w, r, a, ids, i18n.Tf(ctx, "ui.confirm.bulk",
			i18n.T(ctx, "ui.action."+a.Name), len(ids)), back)
		return
	}

	kind, msg, failed := p.run(ctx, a, ids)
	redirectWithFlash(w, r, withSelection(back, failed), kind, msg)
}

// beginConfirm открывает подтверждение и рендерит диалог.
func (p *Page[T]) beginConfirm(w http.ResponseWriter, r *http.Request, a Action[T], ids []string, message, back string) {
	ctx := r.Context()
	pending, err := p.tracker.Begin(p.domain.Name, a.Name, ids)
	if err != nil {
		redirectWithFlash(w, r, back, "error", collection.MessageOf(err))
		return
	}
	v := pages.ConfirmView{
		Title:       i18n.T(ctx, "ui.action."+a.Name),
		Message:     message,
		ConfirmURL:  p.base() + "/confirm/" + pending.Token,
		CancelURL:   p.base() + "/cancel/" + pending.Token,
		ReturnURL:   back,
		Destructive: a.Destructive,
	}
	p.shell.render(w, r, http.StatusOK, p.domain.Name, v.Title, pages.ConfirmPage(v))
}

// Confirm обрабатывает POST /admin/<name>/confirm/{token}.
func (p *Page[T]) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	back := safeBack(r.FormValue("back"), p.base())
	token := chi.URLParam(r, "token")

	pending, ok := p.tracker.Get(p.domain.Name, token)
	if !ok {
		redirectWithFlash(w, r, back, "error", i18n.T(ctx, "ui.confirm_expired"))
		return
	}
	a, ok := p.domain.action(pending.Name)
	if !ok {
		redirectWithFlash(w, r, back, "error", i18n.T(ctx, "ui.not_found"))
		return
	}
	if !p.can(r, a.Perm) {
		redirectWithFlash(w, r, back, "error", i18n.T(ctx, "api.forbidden"))
		return
	}

	var (
		kind, msg string
		failed    []string
	)
	err := p.tracker.Confirm(ctx, p.domain.Name, token, func(ctx context.Context, pa *collection.PendingAction) error {
		kind, msg, failed = p.run(ctx, a, pa.IDs)
		if kind == "error" {
			return errActionFailed
		}
		return nil
	})
	switch {
	case errors.Is(err, collection.ErrUnknownToken):
		redirectWithFlash(w, r, back, "error", i18n.T(ctx, "ui.confirm_expired"))
	case err != nil && !errors.Is(err, errActionFailed):
		redirectWithFlash(w, r, back, "error", collection.MessageOf(err))
	default:
		if len(pending.IDs) > 1 {
			back = withSelection(back, failed)
		}
		redirectWithFlash(w, r, back, kind, msg)
	}
}

// Cancel обрабатывает POST /admin/<name>/cancel/{token}. Запрос не выполняется.
func (p *Page[T]) Cancel(w http.ResponseWriter, r *http.Request) {
	back := safeBack(r.FormValue("back"), p.base())
	if err := p.tracker.Cancel(p.domain.Name, chi.URLParam(r, "token")); err != nil {
		p.logger.Debug("Отмена неизвестного подтверждения", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// run выполняет действие над ids и возвращает вид уведомления, сообщение
// и идентификаторы записей, по которым действие не выполнено.
func (p *Page[T]) run(ctx context.Context, a Action[T], ids []string) (string, string, []string) {
	label := i18n.T(ctx, "ui.action."+a.Name)

	if len(ids) == 1 {
		id := ids[0]
		title := id
		if item, ok := p.store.Get(id); ok {
			title = p.domain.RecordTitle(item)
		}

		if a.Delete {
			msg, err := p.store.Delete(ctx, id)
			if err != nil {
				return "error", collection.MessageOf(err), ids
			}
			if msg == "" {
				msg = i18n.Tf(ctx, "ui.flash.deleted", title)
			}
			return "success", msg, nil
		}

		if _, err := p.store.Patch(ctx, a.Name, id, a.Apply); err != nil {
			return "error", collection.MessageOf(err), ids
		}
		return "success", i18n.Tf(ctx, "ui.flash.action_done", label, title), nil
	}

	var res collection.BulkResult
	if a.Delete {
		res = p.store.BulkDelete(ctx, ids)
	} else {
		res = p.store.BulkPatch(ctx, a.Name, ids, a.Apply)
	}

	var failed []string
	for _, id := range ids {
		if _, ok := res.Failures[id]; ok {
			failed = append(failed, id)
		}
	}
	msg := i18n.Tf(ctx, "ui.flash.bulk", label, res.Succeeded, res.Failed)
	if !res.OK() {
		return "error", msg, failed
	}
	return "success", msg, nil
}

// withSelection добавляет к адресу выделение ids (оставшиеся после ошибки).
func withSelection(target string, ids []string) string {
	if len(ids) == 0 {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Del("sel")
	for _, id := range ids {
		q.Add("sel", id)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// sortedKeys возвращает ключи карты по алфавиту.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// distinct возвращает непустые различные значения поля по алфавиту.
func distinct[T any](items []T, field func(T) string) []string {
	seen := make(map[string]struct{})
	for _, item := range items {
		if v := field(item); v != "" {
			seen[v] = struct{}{}
		}
	}
	return sortedKeys(seen)
}
