package overtimehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shifthub/internal/domain/overtime"
	"shifthub/internal/domain/qrcode"
	"shifthub/internal/platform/clock"
	"shifthub/internal/platform/qrimg"
	"shifthub/internal/transport/http/api"
	"shifthub/internal/transport/http/middleware"
)

type Handler struct {
	Service *overtime.Service
	QR      *qrcode.Service
	Clock   clock.Clock
}

func NewHandler(service *overtime.Service, qr *qrcode.Service, clk clock.Clock) *Handler {
	return &Handler{Service: service, QR: qr, Clock: clk}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/overtime", func(r chi.Router) {
		r.Use(middleware.RequireManager)
		r.Post("/generate", h.handleGenerate)
		r.Post("/extend", h.handleExtend)
		r.Post("/end", h.handleEnd)
		r.Get("/status/{overtimeID}", h.handleStatus)
		r.Get("/proof-status/{qrID}", h.handleProofStatus)
	})
}

type generatePayload struct {
	Roles    []string `json:"roles"`
	Duration int      `json:"duration"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Service.Open(r.Context(), payload.Roles, payload.Duration, h.Clock.Now())
	if err != nil {
		if errors.Is(err, overtime.ErrInvalidParameters) {
			api.Fail(w, http.StatusBadRequest, "invalid_parameters", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "overtime_open_failed", "failed to open overtime session", middleware.GetRequestID(r.Context()))
		return
	}

	api.Created(w, map[string]any{
		"overtimeId":    result.Session.ID,
		"qrId":          result.CodeID,
		"image":         codeImage(result.CodeValue),
		"expiration":    result.Expiration,
		"createdShifts": result.CreatedShifts,
	}, middleware.GetRequestID(r.Context()))
}

type extendPayload struct {
	OvertimeID        string `json:"overtimeId"`
	AdditionalMinutes int    `json:"additionalMinutes"`
}

func (h *Handler) handleExtend(w http.ResponseWriter, r *http.Request) {
	var payload extendPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.OvertimeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "overtimeId is required", middleware.GetRequestID(r.Context()))
		return
	}

	newEnd, err := h.Service.Extend(r.Context(), payload.OvertimeID, payload.AdditionalMinutes, h.Clock.Now())
	if err != nil {
		switch {
		case errors.Is(err, overtime.ErrSessionNotFound):
			api.Fail(w, http.StatusNotFound, "overtime_not_found", err.Error(), middleware.GetRequestID(r.Context()))
		case errors.Is(err, overtime.ErrInvalidParameters):
			api.Fail(w, http.StatusBadRequest, "invalid_parameters", err.Error(), middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "overtime_extend_failed", "failed to extend overtime session", middleware.GetRequestID(r.Context()))
		}
		return
	}

	api.Success(w, map[string]any{"success": true, "newExpiration": newEnd}, middleware.GetRequestID(r.Context()))
}

type endPayload struct {
	OvertimeID string `json:"overtimeId"`
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	var payload endPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.OvertimeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "overtimeId is required", middleware.GetRequestID(r.Context()))
		return
	}

	proofID, proofValue, proofExpires, err := h.Service.End(r.Context(), payload.OvertimeID, h.Clock.Now())
	if err != nil {
		if errors.Is(err, overtime.ErrSessionNotFound) {
			api.Fail(w, http.StatusNotFound, "overtime_not_found", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "overtime_end_failed", "failed to end overtime session", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"success":         true,
		"proofQrId":       proofID,
		"proofImage":      codeImage(proofValue),
		"proofExpiration": proofExpires,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	overtimeID := chi.URLParam(r, "overtimeID")
	sess, err := h.Service.Store.SessionByID(r.Context(), overtimeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "overtime_lookup_failed", "failed to look up overtime session", middleware.GetRequestID(r.Context()))
		return
	}
	if sess == nil {
		api.Fail(w, http.StatusNotFound, "overtime_not_found", "overtime session not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sess, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProofStatus(w http.ResponseWriter, r *http.Request) {
	qrID := chi.URLParam(r, "qrID")
	code, err := h.QR.ProofByID(r.Context(), qrID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "qr_lookup_failed", "failed to look up proof QR code", middleware.GetRequestID(r.Context()))
		return
	}
	if code == nil {
		api.Fail(w, http.StatusNotFound, "qr_not_found", "proof QR code not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"qrId":       code.ID,
		"purpose":    code.Purpose,
		"status":     code.Status,
		"expiration": code.ExpiresAt,
	}, middleware.GetRequestID(r.Context()))
}

func codeImage(value string) string {
	if value == "" {
		return ""
	}
	image, err := qrimg.DataURI(value, 256)
	if err != nil {
		slog.Warn("qr image encode failed", "err", err)
		return ""
	}
	return image
}
