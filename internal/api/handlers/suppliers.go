// suppliers.go — обработчики /api/admin/suppliers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	apierrors "github.com/bigkaa/backoffice/internal/api/errors"
	"github.com/bigkaa/backoffice/internal/api/middleware"
	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/domain/rbac"
	"github.com/bigkaa/backoffice/internal/i18n"
	"github.com/bigkaa/backoffice/internal/repository"
	"github.com/bigkaa/backoffice/internal/service"
)

// SuppliersHandler — REST API поставщиков.
type SuppliersHandler struct {
	svc    *service.SupplierService
	logger *slog.Logger
}

// NewSuppliersHandler создаёт обработчик поставщиков.
func NewSuppliersHandler(svc *service.SupplierService, logger *slog.Logger) *SuppliersHandler {
	return &SuppliersHandler{
		svc:    svc,
		logger: logger.With(slog.String("component", "suppliers_handler")),
	}
}

// suppliersResponse — ответ списка поставщиков.
type suppliersResponse struct {
	Suppliers []model.Supplier `json:"suppliers"`
}

// List — GET /api/admin/suppliers?search=&verified=.
func (h *SuppliersHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repository.SupplierFilter
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "search", query, &filter.Search); err != nil {
		apierrors.ValidationError(w, i18n.T(r.Context(), "api.invalid_request")+": search")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "verified", query, &filter.Verified); err != nil {
		apierrors.ValidationError(w, i18n.T(r.Context(), "api.invalid_request")+": verified")
		return
	}

	suppliers, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, suppliersResponse{Suppliers: suppliers})
}

// Create — POST /api/admin/suppliers.
func (h *SuppliersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.Supplier
	if !decodeBody(w, r, &input) {
		return
	}

	s, err := h.svc.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// Update — PATCH /api/admin/suppliers/{id}.
// Изменение только признака verified доступно с правом suppliers.verify,
// любое другое — с suppliers.manage.
func (h *SuppliersHandler) Update(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}

	perm := rbac.PermSuppliersManage
	if verifyOnly(raw) {
		perm = rbac.PermSuppliersVerify
	}
	if err := rbac.Require(middleware.RoleFromContext(r.Context()), perm); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	s, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), patchFrom[model.Supplier](raw))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Delete — DELETE /api/admin/suppliers/{id}.
func (h *SuppliersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// verifyOnly — тело PATCH содержит только поле verified.
func verifyOnly(raw []byte) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	_, ok := fields["verified"]
	return ok && len(fields) == 1
}
