package pages

import (
	"github.com/a-h/templ"
)

// DetailPage — быстрый просмотр записи с действиями.
func DetailPage(v DetailView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="detail"><div class="list-head"><h1>`)
		h.text(v.Title)
		h.raw("</h1>")
		if v.InFlight {
			h.raw(`<span class="badge">`)
			h.t("ui.in_flight")
			h.raw("</span>")
		}
		h.raw("</div><dl>")
		for _, f := range v.Fields {
			h.raw("<dt>")
			h.text(f.Label)
			h.raw("</dt><dd>")
			h.text(f.Value)
			h.raw("</dd>")
		}
		h.raw(`</dl><div class="toolbar">`)
		if v.EditURL != "" {
			h.raw(`<a class="btn"`)
			h.attr("href", v.EditURL)
			h.raw(">")
			h.t("ui.edit")
			h.raw("</a>")
		}
		for _, a := range v.Actions {
			h.raw(`<form method="post"`)
			h.attr("action", a.URL)
			h.raw(">")
			h.hidden("back", v.ReturnURL)
			h.raw(`<button type="submit"`)
			h.attr("class", buttonClass(a.Destructive))
			h.raw(">")
			h.text(a.Label)
			h.raw("</button></form>")
		}
		h.raw(`<a class="btn btn-link"`)
		h.attr("href", v.BackURL)
		h.raw(">")
		h.t("ui.back")
		h.raw("</a></div></section>")
	})
}

// FormPage — форма создания или редактирования записи.
// Ошибки валидации выводятся рядом с полями.
func FormPage(v FormView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="form"><h1>`)
		h.text(v.Title)
		h.raw("</h1>")
		if v.Error != "" {
			h.raw(`<div class="flash flash-error" role="alert">`)
			h.text(v.Error)
			h.raw("</div>")
		}
		h.raw(`<form method="post" novalidate`)
		h.attr("action", v.ActionURL)
		h.raw(">")
		for _, f := range v.Fields {
			formField(h, f)
		}
		h.raw(`<div class="toolbar"><button type="submit" class="btn btn-primary">`)
		h.t("ui.save")
		h.raw(`</button><a class="btn btn-link"`)
		h.attr("href", v.BackURL)
		h.raw(">")
		h.t("ui.cancel")
		h.raw("</a></div></form></section>")
	})
}

func formField(h *htmlWriter, f FormField) {
	class := "field"
	if f.Error != "" {
		class += " invalid"
	}
	h.raw("<div")
	h.attr("class", class)
	h.raw("><label")
	h.attr("for", "f-"+f.Name)
	h.raw(">")
	h.text(f.Label)
	if f.Required {
		h.raw(` <span class="required">*</span>`)
	}
	h.raw("</label>")

	switch f.Type {
	case "textarea", "lines":
		h.raw("<textarea")
		h.attr("id", "f-"+f.Name)
		h.attr("name", f.Name)
		h.raw(">")
		h.text(f.Value)
		h.raw("</textarea>")
	case "select":
		h.raw("<select")
		h.attr("id", "f-"+f.Name)
		h.attr("name", f.Name)
		h.raw(">")
		for _, opt := range f.Options {
			h.raw("<option")
			h.attr("value", opt.Value)
			h.boolAttr("selected", opt.Selected)
			h.raw(">")
			h.text(opt.Label)
			h.raw("</option>")
		}
		h.raw("</select>")
	case "checkbox":
		h.raw(`<input type="checkbox" value="true"`)
		h.attr("id", "f-"+f.Name)
		h.attr("name", f.Name)
		h.boolAttr("checked", f.Value == "true")
		h.raw(">")
	default:
		h.raw("<input")
		h.attr("type", f.Type)
		h.attr("id", "f-"+f.Name)
		h.attr("name", f.Name)
		h.attr("value", f.Value)
		if f.Type == "number" {
			h.attr("step", "any")
		}
		h.raw(">")
	}

	if f.Error != "" {
		h.raw(`<p class="error">`)
		h.text(f.Error)
		h.raw("</p>")
	}
	h.raw("</div>")
}

// ConfirmPage — диалог подтверждения действия.
// Отмена не выполняет запрос и возвращает на страницу.
func ConfirmPage(v ConfirmView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="confirm" role="dialog" aria-modal="true"><h1>`)
		h.text(v.Title)
		h.raw("</h1><p>")
		h.text(v.Message)
		h.raw(`</p><div class="toolbar"><form method="post"`)
		h.attr("action", v.ConfirmURL)
		h.raw(">")
		h.hidden("back", v.ReturnURL)
		h.raw(`<button type="submit"`)
		h.attr("class", buttonClass(v.Destructive))
		h.raw(">")
		h.t("ui.confirm")
		h.raw(`</button></form><form method="post"`)
		h.attr("action", v.CancelURL)
		h.raw(">")
		h.hidden("back", v.ReturnURL)
		h.raw(`<button type="submit" class="btn btn-link">`)
		h.t("ui.cancel")
		h.raw("</button></form></div></section>")
	})
}
