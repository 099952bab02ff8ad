package handlers

import (
	"net/http"
	"strings"

	"github.com/bigkaa/backoffice/internal/adminclient"
)

// ForwardToken передаёт bearer-токен оператора в запросы страниц к REST API.
// Без заголовка Authorization используется токен клиента по умолчанию.
func ForwardToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if ok && strings.EqualFold(scheme, "Bearer") && token != "" {
			r = r.WithContext(adminclient.WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}
