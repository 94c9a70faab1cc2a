package overtimehandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"shifthub/internal/domain/auth"
	"shifthub/internal/domain/overtime"
	"shifthub/internal/platform/clock"
	"shifthub/internal/transport/http/middleware"
)

func newTestRouter(t *testing.T, secret string) http.Handler {
	t.Helper()
	svc := overtime.NewService(nil, nil, nil, nil, 15*time.Minute, 15*time.Minute)
	handler := NewHandler(svc, nil, clock.Fixed(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(secret))
	handler.RegisterRoutes(router)
	return router
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	secret := "test-secret"
	router := newTestRouter(t, secret)
	token, err := auth.SignToken(secret, "m1", auth.RoleManager, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	tests := []struct {
		name string
		body string
	}{
		{name: "duration too short", body: `{"roles":["r1"],"duration":30}`},
		{name: "duration too long", body: `{"roles":["r1"],"duration":240}`},
		{name: "no roles", body: `{"roles":[],"duration":90}`},
		{name: "malformed json", body: `{"roles":`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/overtime/generate", strings.NewReader(tc.body))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestExtendRequiresSessionID(t *testing.T) {
	secret := "test-secret"
	router := newTestRouter(t, secret)
	token, err := auth.SignToken(secret, "m1", auth.RoleManager, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/overtime/extend", strings.NewReader(`{"additionalMinutes":30}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOvertimeRequiresManagerRole(t *testing.T) {
	secret := "test-secret"
	router := newTestRouter(t, secret)

	req := httptest.NewRequest(http.MethodPost, "/overtime/generate", strings.NewReader(`{"roles":["r1"],"duration":90}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	staffToken, err := auth.SignToken(secret, "e1", auth.RoleStaff, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/overtime/generate", strings.NewReader(`{"roles":["r1"],"duration":90}`))
	req.Header.Set("Authorization", "Bearer "+staffToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff, got %d", rec.Code)
	}
}
