// logging.go — журнал обращений операторов к Back Office.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder запоминает статус и объём ответа для журнала и метрик.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newResponseWriter(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap открывает исходный ResponseWriter для http.ResponseController.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

type accessKey struct{}

// accessEntry заполняется аутентификацией ниже по цепочке:
// контекст запроса внешнему middleware недоступен.
type accessEntry struct {
	operator string
	role     string
}

func noteOperator(ctx context.Context, claims *AuthClaims) {
	entry, ok := ctx.Value(accessKey{}).(*accessEntry)
	if !ok || claims == nil {
		return
	}
	entry.operator = claims.PreferredUsername
	entry.role = claims.Role
}

// RequestLogger пишет по строке на запрос: маршрут chi, оператор и роль,
// статус, длительность. 4xx — WARN, 5xx — ERROR.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "access"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := &accessEntry{}
			rec := newResponseWriter(w)

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), accessKey{}, entry)))

			level := slog.LevelInfo
			switch {
			case rec.statusCode >= 500:
				level = slog.LevelError
			case rec.statusCode >= 400:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("route", normalizePath(r)),
				slog.Int("status", rec.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", rec.written),
			}
			if entry.role != "" {
				attrs = append(attrs, slog.String("operator", entry.operator), slog.String("role", entry.role))
			}
			logger.LogAttrs(r.Context(), level, "Обращение к Back Office", attrs...)
		})
	}
}
