// Пакет pages — HTML-компоненты админ-страниц (templ.Component).
// Каркас и список описаны в .templ (templ generate), карточка, форма и
// подтверждение пишутся через htmlWriter.
// Компоненты получают готовые модели представления: строки уже
// отформатированы и локализованы обработчиками, кроме статических подписей.
package pages

//go:generate templ generate

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/bigkaa/backoffice/internal/i18n"
)

// htmlWriter накапливает первую ошибку записи.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

// raw пишет строку без экранирования.
func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// text пишет экранированный текст.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// t пишет экранированный перевод ключа.
func (h *htmlWriter) t(key string) {
	h.text(i18n.T(h.ctx, key))
}

// attr пишет атрибут name="value".
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// boolAttr пишет атрибут без значения, если on.
func (h *htmlWriter) boolAttr(name string, on bool) {
	if on {
		h.raw(" " + name)
	}
}

// hidden пишет скрытое поле формы.
func (h *htmlWriter) hidden(name, value string) {
	h.raw(`<input type="hidden"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(">")
}

// component оборачивает функцию рендера в templ.Component.
func component(render func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		render(h)
		return h.err
	})
}
