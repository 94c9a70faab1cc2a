package directoryhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shifthub/internal/domain/directory"
	"shifthub/internal/platform/jobs"
	"shifthub/internal/transport/http/api"
	"shifthub/internal/transport/http/middleware"
)

type Handler struct {
	Store *directory.Store
	Jobs  *jobs.Service
}

func NewHandler(store *directory.Store, jobsSvc *jobs.Service) *Handler {
	return &Handler{Store: store, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireManager).Get("/employees", h.handleListEmployees)
	r.With(middleware.RequireManager).Post("/standby/rotate", h.handleRotate)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

// handleRotate reruns the weekly standby rotation on demand, for when
// the roster changed mid-week.
func (h *Handler) handleRotate(w http.ResponseWriter, r *http.Request) {
	details, err := h.Jobs.RunNow(r.Context(), jobs.JobStandbyRotate, func(ctx context.Context) (any, error) {
		flagged, err := h.Store.Rotate(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"standbyFlagged": flagged}, nil
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rotation_failed", "failed to rotate standby assignments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, details, middleware.GetRequestID(r.Context()))
}
