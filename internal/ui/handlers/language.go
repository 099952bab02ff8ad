// language.go — обработчик переключения языка UI.
package handlers

import (
	"net/http"
	"time"

	"github.com/bigkaa/backoffice/internal/i18n"
)

// HandleSetLanguage обрабатывает POST /admin/set-language.
// Устанавливает cookie языка и перенаправляет обратно.
// Параметр lang: "en" или "ru"; back — адрес возврата внутри /admin.
func HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLang
	}

	http.SetCookie(w, &http.Cookie{
		Name:     i18n.LangCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 год
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})

	http.Redirect(w, r, safeBack(r.FormValue("back"), "/admin"), http.StatusSeeOther)
}
