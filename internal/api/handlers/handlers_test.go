package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigkaa/backoffice/internal/api/middleware"
	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/domain/rbac"
	"github.com/bigkaa/backoffice/internal/i18n"
	"github.com/bigkaa/backoffice/internal/repository"
	"github.com/bigkaa/backoffice/internal/service"
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

// memSupplierRepo — in-memory реализация SupplierRepository.
type memSupplierRepo struct {
	mu        sync.Mutex
	suppliers []model.Supplier
}

func (r *memSupplierRepo) List(_ context.Context, f repository.SupplierFilter) ([]*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Supplier
	for _, s := range r.suppliers {
		if f.Verified != nil && s.Verified != *f.Verified {
			continue
		}
		if f.Search != nil && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(*f.Search)) {
			continue
		}
		s := s
		out = append(out, &s)
	}
	return out, nil
}

func (r *memSupplierRepo) GetByID(_ context.Context, id string) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.suppliers {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	r.suppliers = append(r.suppliers, *s)
	return nil
}

func (r *memSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.suppliers {
		if r.suppliers[i].ID == s.ID {
			s.UpdatedAt = time.Now().UTC()
			r.suppliers[i] = *s
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memSupplierRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.suppliers {
		if r.suppliers[i].ID == id {
			r.suppliers = append(r.suppliers[:i], r.suppliers[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// memPlanRepo — in-memory реализация PlanRepository.
type memPlanRepo struct {
	mu    sync.Mutex
	plans []model.Plan
}

func (r *memPlanRepo) List(context.Context) ([]*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *memPlanRepo) GetByID(_ context.Context, id string) (*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memPlanRepo) Create(_ context.Context, p *model.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans = append(r.plans, *p)
	return nil
}

func (r *memPlanRepo) Update(_ context.Context, p *model.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.plans {
		if r.plans[i].ID == p.ID {
			r.plans[i] = *p
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memPlanRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.plans {
		if r.plans[i].ID == id {
			r.plans = append(r.plans[:i], r.plans[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func spiceRoute() model.Supplier {
	return model.Supplier{
		ID:       "b3c1a7d0-5e6f-4a2b-9c8d-bb0000000001",
		Name:     "Spice Route",
		Company:  "Spice Route Traders Pvt Ltd",
		Email:    "hello@spiceroute.in",
		Category: "Groceries",
		Country:  "India",
		Verified: true,
		Rating:   4.6,
		Status:   model.SupplierStatusActive,
	}
}

func pureLeaf() model.Supplier {
	return model.Supplier{
		ID:       "b3c1a7d0-5e6f-4a2b-9c8d-bb0000000002",
		Name:     "Pure Leaf Co",
		Company:  "Pure Leaf Co",
		Email:    "sales@pureleaf.in",
		Category: "Beverages",
		Country:  "India",
		Rating:   3.9,
		Status:   model.SupplierStatusSuspended,
	}
}

// newRouter собирает маршруты с ролью role.
func newRouter(role string, suppliers *memSupplierRepo, plans *memPlanRepo) http.Handler {
	logger := testLogger()
	sh := NewSuppliersHandler(service.NewSupplierService(suppliers, logger), logger)
	cache := service.NewSnapshotCache(16, time.Minute, logger)
	ph := NewPlansHandler(service.NewPlanService(plans, cache, logger), logger)

	r := chi.NewRouter()
	r.Use(i18n.Middleware())
	r.Use(middleware.StaticRole(role))
	r.Get("/api/admin/suppliers", sh.List)
	r.With(middleware.RequirePermission(rbac.PermSuppliersManage)).Post("/api/admin/suppliers", sh.Create)
	r.Patch("/api/admin/suppliers/{id}", sh.Update)
	r.With(middleware.RequirePermission(rbac.PermSuppliersManage)).Delete("/api/admin/suppliers/{id}", sh.Delete)
	r.Get("/api/admin/plans", ph.List)
	r.Delete("/api/admin/plans/{id}", ph.Delete)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSuppliers_ListFilter(t *testing.T) {
	repo := &memSupplierRepo{suppliers: []model.Supplier{spiceRoute(), pureLeaf()}}
	h := newRouter(rbac.RoleReadonly, repo, &memPlanRepo{})

	rec := do(t, h, http.MethodGet, "/api/admin/suppliers?verified=true", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Suppliers []model.Supplier `json:"suppliers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Suppliers, 1)
	assert.Equal(t, "Spice Route", resp.Suppliers[0].Name)

	rec = do(t, h, http.MethodGet, "/api/admin/suppliers?search=leaf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Suppliers, 1)
	assert.Equal(t, "Pure Leaf Co", resp.Suppliers[0].Name)
}

func TestSuppliers_ListBadVerified(t *testing.T) {
	h := newRouter(rbac.RoleReadonly, &memSupplierRepo{}, &memPlanRepo{})

	rec := do(t, h, http.MethodGet, "/api/admin/suppliers?verified=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "verified")
}

func TestSuppliers_Create(t *testing.T) {
	repo := &memSupplierRepo{suppliers: []model.Supplier{spiceRoute()}}
	h := newRouter(rbac.RoleAdmin, repo, &memPlanRepo{})

	rec := do(t, h, http.MethodPost, "/api/admin/suppliers", `{
		"name": "Masala Works", "company": "Masala Works LLP", "email": "ops@masalaworks.in",
		"category": "Groceries", "country": "India", "rating": 4.1
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Supplier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.SupplierStatusActive, created.Status)
}

func TestSuppliers_CreateDuplicateEmail(t *testing.T) {
	repo := &memSupplierRepo{suppliers: []model.Supplier{spiceRoute()}}
	h := newRouter(rbac.RoleAdmin, repo, &memPlanRepo{})

	rec := do(t, h, http.MethodPost, "/api/admin/suppliers", `{
		"name": "Copy", "company": "Copy", "email": "HELLO@spiceroute.in",
		"category": "Groceries", "country": "India"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "This email is already in use", body.Fields["email"])
	assert.NotEmpty(t, body.Error)
}

func TestSuppliers_CreateLocalizedError(t *testing.T) {
	repo := &memSupplierRepo{suppliers: []model.Supplier{spiceRoute()}}
	h := newRouter(rbac.RoleAdmin, repo, &memPlanRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/suppliers", strings.NewReader(`{
		"name": "Copy", "company": "Copy", "email": "hello@spiceroute.in",
		"category": "Groceries", "country": "India"
	}`))
	req.Header.Set("Accept-Language", "ru")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Этот email уже используется")
}

func TestSuppliers_InvalidBody(t *testing.T) {
	h := newRouter(rbac.RoleAdmin, &memSupplierRepo{}, &memPlanRepo{})

	for _, body := range []string{"not json", "[1,2]"} {
		rec := do(t, h, http.MethodPost, "/api/admin/suppliers", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestSuppliers_UpdatePermissions(t *testing.T) {
	tests := []struct {
		name string
		role string
		body string
		want int
	}{
		{"support меняет verified", rbac.RoleSupport, `{"verified": false}`, http.StatusOK},
		{"support меняет имя", rbac.RoleSupport, `{"name": "Spice Route Ltd"}`, http.StatusForbidden},
		{"readonly меняет verified", rbac.RoleReadonly, `{"verified": false}`, http.StatusForbidden},
		{"admin меняет имя", rbac.RoleAdmin, `{"name": "Spice Route Ltd"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memSupplierRepo{suppliers: []model.Supplier{spiceRoute()}}
			h := newRouter(tt.role, repo, &memPlanRepo{})

			rec := do(t, h, http.MethodPatch, "/api/admin/suppliers/"+spiceRoute().ID, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestSuppliers_UpdateKeepsUntouchedFields(t *testing.T) {
	repo := &memSupplierRepo{suppliers: []model.Supplier{spiceRoute()}}
	h := newRouter(rbac.RoleSupport, repo, &memPlanRepo{})

	rec := do(t, h, http.MethodPatch, "/api/admin/suppliers/"+spiceRoute().ID, `{"verified": false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Supplier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.False(t, updated.Verified)
	assert.Equal(t, "Spice Route", updated.Name)
	assert.Equal(t, spiceRoute().ID, updated.ID)
}

func TestSuppliers_DeleteMissing(t *testing.T) {
	h := newRouter(rbac.RoleAdmin, &memSupplierRepo{}, &memPlanRepo{})

	rec := do(t, h, http.MethodDelete, "/api/admin/suppliers/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuppliers_Delete(t *testing.T) {
	repo := &memSupplierRepo{suppliers: []model.Supplier{spiceRoute()}}
	h := newRouter(rbac.RoleAdmin, repo, &memPlanRepo{})

	rec := do(t, h, http.MethodDelete, "/api/admin/suppliers/"+spiceRoute().ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.suppliers)
}

func TestPlans_DeleteWithSubscribers(t *testing.T) {
	plans := &memPlanRepo{plans: []model.Plan{{
		ID:              "6f1d2c3a-0b1e-4c6a-9a51-1f2e3d4c5b03",
		Name:            "Pro",
		Slug:            "pro",
		PriceINR:        99900,
		BillingInterval: model.BillingMonthly,
		IsActive:        true,
		SubscriberCount: 148,
		Features:        []string{"Unlimited stores"},
	}}}
	h := newRouter(rbac.RoleAdmin, &memSupplierRepo{}, plans)

	rec := do(t, h, http.MethodDelete, "/api/admin/plans/6f1d2c3a-0b1e-4c6a-9a51-1f2e3d4c5b03", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "Pro")
	require.Len(t, plans.plans, 1)
	assert.False(t, plans.plans[0].IsActive)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrConflict, http.StatusConflict},
		{service.ErrValidation, http.StatusBadRequest},
		{rbac.ErrPermissionDenied, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/admin/plans", nil)
			writeServiceError(rec, req, testLogger(), tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

type stubChecker struct {
	status string
}

func (c stubChecker) CheckReady(context.Context) (string, string) { return c.status, "" }

type stubDeps map[string]bool

func (d stubDeps) Health() map[string]bool { return d }

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		checker    ReadinessChecker
		deps       DependencyHealth
		wantCode   int
		wantStatus string
	}{
		{"ok", stubChecker{"ok"}, nil, http.StatusOK, "ok"},
		{"postgres fail", stubChecker{"fail"}, nil, http.StatusServiceUnavailable, "fail"},
		{"без checker", nil, nil, http.StatusServiceUnavailable, "fail"},
		{"зависимость недоступна", stubChecker{"ok"}, stubDeps{"postgres": false}, http.StatusOK, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checker, tt.deps)
			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
		})
	}
}
