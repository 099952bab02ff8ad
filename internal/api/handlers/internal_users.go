// internal_users.go — обработчики /api/admin/internal-users.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/service"
)

// InternalUsersHandler — REST API сотрудников.
type InternalUsersHandler struct {
	svc    *service.InternalUserService
	logger *slog.Logger
}

// NewInternalUsersHandler создаёт обработчик сотрудников.
func NewInternalUsersHandler(svc *service.InternalUserService, logger *slog.Logger) *InternalUsersHandler {
	return &InternalUsersHandler{
		svc:    svc,
		logger: logger.With(slog.String("component", "internal_users_handler")),
	}
}

// List — GET /api/admin/internal-users. Ответ — массив записей.
func (h *InternalUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Create — POST /api/admin/internal-users.
func (h *InternalUsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.InternalUser
	if !decodeBody(w, r, &input) {
		return
	}

	u, err := h.svc.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Update — PATCH /api/admin/internal-users/{id}.
func (h *InternalUsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}

	u, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), patchFrom[model.InternalUser](raw))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Delete — DELETE /api/admin/internal-users/{id}.
func (h *InternalUsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
