package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/bigkaa/backoffice/internal/api/errors"
	"github.com/bigkaa/backoffice/internal/api/handlers"
	"github.com/bigkaa/backoffice/internal/api/middleware"
	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/domain/rbac"
	"github.com/bigkaa/backoffice/internal/i18n"
	"github.com/bigkaa/backoffice/internal/repository"
	"github.com/bigkaa/backoffice/internal/service"
	uihandlers "github.com/bigkaa/backoffice/internal/ui/handlers"
)

func TestMain(m *testing.M) {
	bundle, err := i18n.Load(nil)
	if err != nil {
		panic(err)
	}
	i18n.SetDefault(bundle)
	os.Exit(m.Run())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// stubPlanRepo — PlanRepository с одним тарифом.
type stubPlanRepo struct{}

func (stubPlanRepo) List(context.Context) ([]*model.Plan, error) {
	return []*model.Plan{{ID: "0a7e4f52-1c2b-4d3e-8f90-aa0000000001", Name: "Starter"}}, nil
}

func (stubPlanRepo) GetByID(context.Context, string) (*model.Plan, error) {
	return nil, repository.ErrNotFound
}
func (stubPlanRepo) Create(context.Context, *model.Plan) error { return nil }
func (stubPlanRepo) Update(context.Context, *model.Plan) error { return nil }
func (stubPlanRepo) Delete(context.Context, string) error      { return nil }

type okChecker struct{}

func (okChecker) CheckReady(context.Context) (string, string) { return "ok", "" }

// denyAll отклоняет все запросы, не попавшие в исключения.
func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.Unauthorized(w, "unauthorized")
	})
}

func newRouter(auth func(http.Handler) http.Handler) http.Handler {
	logger := testLogger()
	plans := service.NewPlanService(stubPlanRepo{}, service.NewSnapshotCache(8, 0, logger), logger)
	return NewRouter(logger, Handlers{
		Health: handlers.NewHealthHandler(okChecker{}, nil),
		Plans:  handlers.NewPlansHandler(plans, logger),
		Shell:  uihandlers.NewShell(uihandlers.Navigation, logger),
	}, auth, nil)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_ExcludedPathsSkipAuth(t *testing.T) {
	router := newRouter(denyAll)

	tests := []struct {
		path string
		want int
	}{
		{"/health/live", http.StatusOK},
		{"/health/ready", http.StatusOK},
		{"/static/css/app.css", http.StatusOK},
		{"/api/admin/plans", http.StatusUnauthorized},
		{"/admin/stores", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_APIPermissions(t *testing.T) {
	body := `{"name":"Scale","slug":"scale","price_inr":99900,"billing_interval":"monthly"}`

	tests := []struct {
		name   string
		role   string
		method string
		path   string
		want   int
	}{
		{"readonly читает", rbac.RoleReadonly, http.MethodGet, "/api/admin/plans", http.StatusOK},
		{"readonly не создаёт", rbac.RoleReadonly, http.MethodPost, "/api/admin/plans", http.StatusForbidden},
		{"support не удаляет", rbac.RoleSupport, http.MethodDelete, "/api/admin/plans/p1", http.StatusForbidden},
		{"support не изменяет", rbac.RoleSupport, http.MethodPatch, "/api/admin/plans/p1", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(middleware.StaticRole(tt.role))
			rec := do(t, router, tt.method, tt.path, body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_UnregisteredAPI(t *testing.T) {
	router := newRouter(middleware.StaticRole(rbac.RoleAdmin))

	rec := do(t, router, http.MethodGet, "/api/admin/internal-users", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Redirects(t *testing.T) {
	router := newRouter(middleware.StaticRole(rbac.RoleAdmin))

	tests := []struct {
		path string
		want string
	}{
		{"/", "/admin/"},
		{"/admin", "/admin/stores"},
		{"/admin/", "/admin/stores"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestRouter_SetLanguage(t *testing.T) {
	router := newRouter(middleware.StaticRole(rbac.RoleReadonly))

	req := httptest.NewRequest(http.MethodPost, "/admin/set-language",
		strings.NewReader("lang=ru&back=/admin/plans"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/plans", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), i18n.LangCookieName+"=ru")
}
