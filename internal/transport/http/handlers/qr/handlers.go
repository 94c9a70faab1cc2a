package qrhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	"shifthub/internal/domain/qrcode"
	"shifthub/internal/platform/clock"
	"shifthub/internal/platform/qrimg"
	"shifthub/internal/transport/http/api"
	"shifthub/internal/transport/http/middleware"
)

type Handler struct {
	Service *qrcode.Service
	Clock   clock.Clock
}

func NewHandler(service *qrcode.Service, clk clock.Clock) *Handler {
	return &Handler{Service: service, Clock: clk}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth).Post("/qr/scan", h.handleScan)
	r.Route("/normal-qr", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/current", h.handleCurrent)
		r.With(middleware.RequireAuth).Get("/current/poster", h.handlePoster)
		r.With(middleware.RequireAuth).Get("/proof/{qrID}", h.handleProof)
	})
}

type scanPayload struct {
	CodeValue  string `json:"codeValue"`
	EmployeeID string `json:"employeeId"`
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	emp, _ := middleware.GetEmployee(r.Context())

	var payload scanPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := strings.TrimSpace(payload.EmployeeID)
	if employeeID == "" {
		employeeID = emp.EmployeeID
	}
	if payload.CodeValue == "" || employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "codeValue and employeeId are required", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Service.Scan(r.Context(), payload.CodeValue, employeeID, h.Clock.Now())
	if err != nil {
		status, code := scanErrorStatus(err)
		api.Fail(w, status, code, err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	message := "Clock-out recorded"
	if result.ClockedIn {
		message = "Clock-in recorded"
	}
	api.Success(w, map[string]any{
		"message":   message,
		"shiftId":   result.ShiftID,
		"purpose":   result.Purpose,
		"clockedIn": result.ClockedIn,
		"at":        result.At,
	}, middleware.GetRequestID(r.Context()))
}

func scanErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, qrcode.ErrCodeNotFound):
		return http.StatusNotFound, "qr_not_found"
	case errors.Is(err, qrcode.ErrNoMatchingShift):
		return http.StatusNotFound, "no_matching_shift"
	case errors.Is(err, qrcode.ErrCodeExpired):
		return http.StatusBadRequest, "qr_expired"
	case errors.Is(err, qrcode.ErrCodeUsed):
		return http.StatusBadRequest, "qr_used"
	case errors.Is(err, qrcode.ErrDuplicateClockIn):
		return http.StatusBadRequest, "duplicate_clock_in"
	case errors.Is(err, qrcode.ErrNoOpenClockIn):
		return http.StatusBadRequest, "no_open_clock_in"
	case errors.Is(err, qrcode.ErrUnknownPurpose):
		return http.StatusBadRequest, "unknown_purpose"
	default:
		return http.StatusInternalServerError, "scan_failed"
	}
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	code, err := h.Service.CurrentAdmission(r.Context(), h.Clock.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "qr_lookup_failed", "failed to look up current QR code", middleware.GetRequestID(r.Context()))
		return
	}
	if code == nil {
		api.Success(w, nil, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, codeResponse(code), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProof(w http.ResponseWriter, r *http.Request) {
	qrID := chi.URLParam(r, "qrID")
	code, err := h.Service.ProofByID(r.Context(), qrID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "qr_lookup_failed", "failed to look up proof QR code", middleware.GetRequestID(r.Context()))
		return
	}
	if code == nil {
		api.Success(w, nil, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, codeResponse(code), middleware.GetRequestID(r.Context()))
}

// handlePoster renders the current admission code as a printable A4
// sheet for the venue entrance.
func (h *Handler) handlePoster(w http.ResponseWriter, r *http.Request) {
	code, err := h.Service.CurrentAdmission(r.Context(), h.Clock.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "qr_lookup_failed", "failed to look up current QR code", middleware.GetRequestID(r.Context()))
		return
	}
	if code == nil {
		api.Fail(w, http.StatusNotFound, "qr_not_found", "no active QR code for today", middleware.GetRequestID(r.Context()))
		return
	}

	png, err := qrimg.PNG(code.Value, 512)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "qr_render_failed", "failed to render QR image", middleware.GetRequestID(r.Context()))
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "Scan to clock in", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, "Valid until "+code.ExpiresAt.Format("15:04 02 Jan 2006"), "", 1, "C", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, pngReader(png))
	pdf.ImageOptions("qr", 55, 60, 100, 100, false, opts, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="qr-poster.pdf"`)
	if err := pdf.Output(w); err != nil {
		slog.Warn("poster pdf output failed", "err", err)
	}
}

func pngReader(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}

func codeResponse(code *qrcode.Code) map[string]any {
	image, err := qrimg.DataURI(code.Value, 256)
	if err != nil {
		slog.Warn("qr image encode failed", "err", err)
		image = ""
	}
	return map[string]any{
		"qrId":       code.ID,
		"purpose":    code.Purpose,
		"image":      image,
		"expiration": code.ExpiresAt,
		"status":     code.Status,
	}
}
