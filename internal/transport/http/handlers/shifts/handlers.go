package shifthandler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/go-chi/chi/v5"

	"shifthub/internal/domain/auth"
	"shifthub/internal/domain/shift"
	"shifthub/internal/platform/clock"
	"shifthub/internal/transport/http/api"
	"shifthub/internal/transport/http/middleware"
	"shifthub/internal/transport/http/shared"
)

type Handler struct {
	Service *shift.Service
	Clock   clock.Clock
}

func NewHandler(service *shift.Service, clk clock.Clock) *Handler {
	return &Handler{Service: service, Clock: clk}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shifts", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Get("/calendar/export", h.handleCalendarExport)
		r.Post("/{shiftID}/cancel", h.handleCancel)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	emp, _ := middleware.GetEmployee(r.Context())

	employeeID := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	if emp.Role != auth.RoleManager {
		// staff only see their own shifts
		employeeID = emp.EmployeeID
	}

	var day *time.Time
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "day must be RFC3339 or YYYY-MM-DD", middleware.GetRequestID(r.Context()))
			return
		}
		day = &parsed
	}

	page := shared.ParsePagination(r, 50, 200)
	shifts, err := h.Service.Store.ListShifts(r.Context(), employeeID, day, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "shifts_list_failed", "failed to list shifts", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, shifts, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	emp, _ := middleware.GetEmployee(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	cancellationID, err := h.Service.Cancel(r.Context(), emp.EmployeeID, shiftID)
	if err != nil {
		switch {
		case errors.Is(err, shift.ErrShiftNotFound):
			api.Fail(w, http.StatusNotFound, "shift_not_found", err.Error(), middleware.GetRequestID(r.Context()))
		case errors.Is(err, shift.ErrShiftNotActive):
			api.Fail(w, http.StatusConflict, "shift_not_active", err.Error(), middleware.GetRequestID(r.Context()))
		case errors.Is(err, shift.ErrNotShiftOwner):
			api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "cancel_failed", "failed to record cancellation", middleware.GetRequestID(r.Context()))
		}
		return
	}

	api.Created(w, map[string]any{
		"cancellationId": cancellationID,
		"status":         "pending",
	}, middleware.GetRequestID(r.Context()))
}

// handleCalendarExport streams the employee's scheduled shifts as an
// iCalendar feed so they can subscribe from their phone.
func (h *Handler) handleCalendarExport(w http.ResponseWriter, r *http.Request) {
	emp, _ := middleware.GetEmployee(r.Context())

	employeeID := emp.EmployeeID
	if emp.Role == auth.RoleManager {
		if requested := strings.TrimSpace(r.URL.Query().Get("employeeId")); requested != "" {
			employeeID = requested
		}
	}

	shifts, err := h.Service.Store.ScheduledForEmployee(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "calendar_export_failed", "failed to export calendar", middleware.GetRequestID(r.Context()))
		return
	}

	now := h.Clock.Now()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//shifthub//shift calendar//EN")
	for _, sh := range shifts {
		event := cal.AddEvent(sh.ID + "@shifthub")
		event.SetDtStampTime(now)
		event.SetStartAt(sh.StartAt)
		event.SetEndAt(sh.EndAt)
		event.SetSummary(fmt.Sprintf("%s shift", sh.ShiftType))
		if sh.IsReplacement {
			event.SetDescription("Standby replacement shift")
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shifts.ics"`)
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		return
	}
}
