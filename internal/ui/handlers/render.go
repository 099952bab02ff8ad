package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/bigkaa/backoffice/internal/api/middleware"
	"github.com/bigkaa/backoffice/internal/i18n"
	"github.com/bigkaa/backoffice/internal/ui/pages"
)

// Параметры уведомления в адресе после redirect.
const (
	flashParam     = "flash"
	flashKindParam = "flash_kind"
)

// NavItem — пункт навигации: сегмент URL и ключ перевода.
type NavItem struct {
	Name  string
	Title string
}

// Shell — общий каркас страниц: навигация и логгер рендера.
type Shell struct {
	Nav    []NavItem
	logger *slog.Logger
}

// NewShell создаёт каркас страниц.
func NewShell(nav []NavItem, logger *slog.Logger) *Shell {
	return &Shell{
		Nav:    nav,
		logger: logger.With(slog.String("component", "ui.render")),
	}
}

// render рендерит страницу с каркасом.
func (s *Shell) render(w http.ResponseWriter, r *http.Request, status int, active, title string, body templ.Component) {
	ctx := r.Context()

	layout := pages.Layout{
		Title: title,
		Lang:  i18n.LangFromContext(ctx),
		Flash: flashFromQuery(r.URL.Query()),
		Back:  r.URL.RequestURI(),
	}
	for _, item := range s.Nav {
		layout.Nav = append(layout.Nav, pages.Link{
			Label:  i18n.T(ctx, item.Title),
			URL:    "/admin/" + item.Name,
			Active: item.Name == active,
		})
	}
	if claims := middleware.ClaimsFromContext(ctx); claims != nil {
		layout.Operator = claims.PreferredUsername
		layout.Role = claims.Role
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.Page(layout, body).Render(ctx, w); err != nil {
		s.logger.Error("Ошибка рендеринга страницы",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}

// renderError рендерит страницу ошибки.
func (s *Shell) renderError(w http.ResponseWriter, r *http.Request, status int, active, message string) {
	back := ""
	if active != "" {
		back = "/admin/" + active
	}
	s.render(w, r, status, active, message, pages.ErrorPage(message, back))
}

// Index обрабатывает GET /admin/ — redirect на первую страницу навигации.
func (s *Shell) Index(w http.ResponseWriter, r *http.Request) {
	target := "/admin/"
	if len(s.Nav) > 0 {
		target += s.Nav[0].Name
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// flashFromQuery извлекает уведомление из параметров адреса.
func flashFromQuery(q url.Values) pages.Flash {
	msg := q.Get(flashParam)
	if msg == "" {
		return pages.Flash{}
	}
	kind := q.Get(flashKindParam)
	if kind != "error" {
		kind = "success"
	}
	return pages.Flash{Kind: kind, Message: msg}
}

// redirectWithFlash перенаправляет на target с уведомлением.
// Существующие параметры уведомления в target заменяются.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/admin/"}
	}
	q := u.Query()
	q.Del(flashParam)
	q.Del(flashKindParam)
	if message != "" {
		q.Set(flashParam, message)
		q.Set(flashKindParam, kind)
	}
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// safeBack возвращает адрес возврата, если он ведёт на страницу base,
// иначе base.
func safeBack(back, base string) string {
	if back == base || strings.HasPrefix(back, base+"?") || strings.HasPrefix(back, base+"/") {
		return back
	}
	return base
}

// valueLabel переводит значение поля по ключу prefix+value.
// Если перевода нет, возвращается само значение.
func valueLabel(r *http.Request, prefix, value string) string {
	if prefix == "" || value == "" {
		return value
	}
	key := prefix + value
	if msg := i18n.T(r.Context(), key); msg != key {
		return msg
	}
	return value
}
