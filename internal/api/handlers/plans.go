// plans.go — обработчики /api/admin/plans.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/service"
)

// PlansHandler — REST API тарифов.
type PlansHandler struct {
	svc    *service.PlanService
	logger *slog.Logger
}

// NewPlansHandler создаёт обработчик тарифов.
func NewPlansHandler(svc *service.PlanService, logger *slog.Logger) *PlansHandler {
	return &PlansHandler{
		svc:    svc,
		logger: logger.With(slog.String("component", "plans_handler")),
	}
}

// messageResponse — ответ с текстом для пользователя.
type messageResponse struct {
	Message string `json:"message"`
}

// List — GET /api/admin/plans.
func (h *PlansHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// Create — POST /api/admin/plans.
func (h *PlansHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.Plan
	if !decodeBody(w, r, &input) {
		return
	}

	p, err := h.svc.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Update — PATCH /api/admin/plans/{id}.
func (h *PlansHandler) Update(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), patchFrom[model.Plan](raw))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete — DELETE /api/admin/plans/{id}.
// Ответ {"message": ...} заменяет стандартное уведомление страницы.
func (h *PlansHandler) Delete(w http.ResponseWriter, r *http.Request) {
	msg, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}
