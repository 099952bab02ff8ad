// handler.go — общие функции обработчиков REST API Back Office.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/backoffice/internal/api/errors"
	"github.com/bigkaa/backoffice/internal/domain/rbac"
	"github.com/bigkaa/backoffice/internal/i18n"
	"github.com/bigkaa/backoffice/internal/service"
	"github.com/bigkaa/backoffice/internal/validation"
)

// maxBodyBytes — предельный размер тела запроса.
const maxBodyBytes = 1 << 20

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// readBody читает тело запроса и проверяет, что это JSON-объект.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		apierrors.ValidationError(w, i18n.T(r.Context(), "api.invalid_body"))
		return nil, false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		apierrors.ValidationError(w, i18n.T(r.Context(), "api.invalid_body"))
		return nil, false
	}
	return raw, true
}

// decodeBody читает тело запроса в v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	raw, ok := readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		apierrors.ValidationError(w, i18n.T(r.Context(), "api.invalid_body"))
		return false
	}
	return true
}

// patchFrom возвращает функцию, накладывающую JSON raw на запись.
func patchFrom[T any](raw []byte) func(*T) error {
	return func(item *T) error {
		return json.Unmarshal(raw, item)
	}
}

// writeServiceError переводит ошибку сервисного слоя в HTTP-ответ.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	ctx := r.Context()

	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		apierrors.FieldErrors(w, fields.First(), fields)
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, i18n.T(ctx, "api.invalid_body"))
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, i18n.T(ctx, "api.not_found"))
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, i18n.T(ctx, "api.conflict"))
	case errors.Is(err, rbac.ErrPermissionDenied):
		apierrors.Forbidden(w, i18n.T(ctx, "api.forbidden"))
	default:
		logger.Error("Ошибка обработки запроса",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, i18n.T(ctx, "api.internal"))
	}
}
