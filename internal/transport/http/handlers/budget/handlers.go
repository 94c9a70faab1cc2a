package budgethandler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"shifthub/internal/domain/budget"
	"shifthub/internal/platform/jobs"
	"shifthub/internal/transport/http/api"
	"shifthub/internal/transport/http/middleware"
	"shifthub/internal/transport/http/shared"
)

type Handler struct {
	Service *budget.Service
	Jobs    *jobs.Service
}

func NewHandler(service *budget.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{Service: service, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/budget", func(r chi.Router) {
		r.Use(middleware.RequireManager)
		r.Get("/history", h.handleHistory)
		r.Get("/history/export", h.handleHistoryExport)
		r.Post("/run", h.handleRun)
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	entries, err := h.Service.History(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "budget_history_failed", "failed to list budget history", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

// handleRun triggers an adjustment cycle outside the weekly schedule,
// through the job runner so the run is recorded like any other.
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	details, err := h.Jobs.RunNow(r.Context(), jobs.JobBudgetAdjust, func(ctx context.Context) (any, error) {
		entry, err := h.Service.Run(ctx, h.Jobs.Clock.Now())
		if err != nil {
			return nil, err
		}
		return entry, nil
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "budget_run_failed", "failed to run budget adjustment", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, details, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistoryExport(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.History(r.Context(), 500, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "budget_export_failed", "failed to export budget history", middleware.GetRequestID(r.Context()))
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("excel close failed", "err", err)
		}
	}()

	sheet := "Budget History"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Payment Date", "Initial Budget", "Actual Spend", "Adjusted Budget", "Reason"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			api.Fail(w, http.StatusInternalServerError, "budget_export_failed", "failed to build spreadsheet", middleware.GetRequestID(r.Context()))
			return
		}
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	_ = f.SetRowStyle(sheet, 1, 1, headerStyle)

	for i, entry := range entries {
		row := i + 2
		values := []any{
			entry.PaymentDate.Format("2006-01-02"),
			entry.InitialBudget,
			entry.ActualSpend,
			entry.AdjustedBudget,
			entry.AdjustmentReason,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				api.Fail(w, http.StatusInternalServerError, "budget_export_failed", "failed to build spreadsheet", middleware.GetRequestID(r.Context()))
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "budget-history.xlsx"))
	if err := f.Write(w); err != nil {
		slog.Warn("excel write failed", "err", err)
	}
}
