// openapi.go — проверка запросов REST API по OpenAPI контракту (kin-openapi).
// Запросы к путям вне контракта пропускаются без проверки.
package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	apierrors "github.com/bigkaa/backoffice/internal/api/errors"
	"github.com/bigkaa/backoffice/internal/i18n"
)

// OpenAPIValidator возвращает middleware, проверяющий параметры
// и тело запроса по контракту doc.
func OpenAPIValidator(doc *openapi3.T, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("создание OpenAPI router: %w", err)
	}
	logger = logger.With(slog.String("component", "openapi_validator"))

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				// Путь или метод вне контракта — решение за роутером chi
				if !errors.Is(err, routers.ErrPathNotFound) && !errors.Is(err, routers.ErrMethodNotAllowed) {
					logger.Debug("Маршрут не найден в контракте", slog.String("error", err.Error()))
				}
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Debug("Запрос не соответствует контракту",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				apierrors.ValidationError(w, requestErrorMessage(r, err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// requestErrorMessage формирует краткое сообщение об ошибке запроса.
func requestErrorMessage(r *http.Request, err error) string {
	msg := i18n.T(r.Context(), "api.invalid_request")

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Parameter != nil:
			return fmt.Sprintf("%s: %s", msg, reqErr.Parameter.Name)
		case reqErr.RequestBody != nil:
			var schemaErr *openapi3.SchemaError
			if errors.As(reqErr.Err, &schemaErr) && len(schemaErr.JSONPointer()) > 0 {
				return fmt.Sprintf("%s: %s", msg, schemaErr.JSONPointer()[0])
			}
			return msg
		}
	}
	return msg
}
