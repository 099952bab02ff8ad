// Пакет server — HTTP-сервер Back Office с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/backoffice/internal/api/handlers"
	"github.com/bigkaa/backoffice/internal/api/middleware"
	"github.com/bigkaa/backoffice/internal/config"
	"github.com/bigkaa/backoffice/internal/domain/rbac"
	"github.com/bigkaa/backoffice/internal/i18n"
	uihandlers "github.com/bigkaa/backoffice/internal/ui/handlers"
	"github.com/bigkaa/backoffice/internal/ui/static"
)

// Page — админ-страница домена, регистрирующая собственные маршруты.
type Page interface {
	Routes(r chi.Router)
}

// Handlers — обработчики, подключаемые к маршрутам сервера.
// Nil-обработчик REST API не регистрируется.
type Handlers struct {
	Health        *handlers.HealthHandler
	InternalUsers *handlers.InternalUsersHandler
	Plans         *handlers.PlansHandler
	Suppliers     *handlers.SuppliersHandler

	Shell *uihandlers.Shell
	Pages []Page
}

// Server — HTTP-сервер Back Office.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
// auth — аутентификация (JWT или роль по умолчанию), validator — проверка
// запросов API по контракту (nil — без проверки).
func New(cfg *config.Config, logger *slog.Logger, h Handlers, auth, validator func(http.Handler) http.Handler) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(logger, h, auth, validator),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает маршруты сервиса.
func NewRouter(logger *slog.Logger, h Handlers, auth, validator func(http.Handler) http.Handler) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(i18n.Middleware())

	// Health, metrics и статика проверяются Kubernetes и браузером без токена.
	if auth != nil {
		router.Use(middleware.WithExclusions(auth, "/health/", "/metrics", "/static/"))
	}

	if h.Health != nil {
		router.Get("/health/live", h.Health.HealthLive)
		router.Get("/health/ready", h.Health.HealthReady)
		router.Get("/metrics", h.Health.GetMetrics)
	}
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	router.Route("/api/admin", func(r chi.Router) {
		if validator != nil {
			r.Use(validator)
		}
		if h.InternalUsers != nil {
			manage := middleware.RequirePermission(rbac.PermInternalUsersManage)
			r.Get("/internal-users", h.InternalUsers.List)
			r.With(manage).Post("/internal-users", h.InternalUsers.Create)
			r.With(manage).Patch("/internal-users/{id}", h.InternalUsers.Update)
			r.With(manage).Delete("/internal-users/{id}", h.InternalUsers.Delete)
		}
		if h.Plans != nil {
			manage := middleware.RequirePermission(rbac.PermPlansManage)
			r.Get("/plans", h.Plans.List)
			r.With(manage).Post("/plans", h.Plans.Create)
			r.With(manage).Patch("/plans/{id}", h.Plans.Update)
			r.With(manage).Delete("/plans/{id}", h.Plans.Delete)
		}
		if h.Suppliers != nil {
			manage := middleware.RequirePermission(rbac.PermSuppliersManage)
			r.Get("/suppliers", h.Suppliers.List)
			r.With(manage).Post("/suppliers", h.Suppliers.Create)
			// Право на PATCH зависит от тела запроса и проверяется обработчиком.
			r.Patch("/suppliers/{id}", h.Suppliers.Update)
			r.With(manage).Delete("/suppliers/{id}", h.Suppliers.Delete)
		}
	})

	router.Group(func(r chi.Router) {
		r.Use(uihandlers.ForwardToken)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/", http.StatusFound)
		})
		if h.Shell != nil {
			r.Get("/admin", h.Shell.Index)
			r.Get("/admin/", h.Shell.Index)
		}
		r.Post("/admin/set-language", uihandlers.HandleSetLanguage)
		for _, p := range h.Pages {
			p.Routes(r)
		}
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
