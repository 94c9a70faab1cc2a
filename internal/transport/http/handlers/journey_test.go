package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"shifthub/internal/app/server"
	"shifthub/internal/domain/auth"
	"shifthub/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func TestOvertimeAndBudgetJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		Environment:        "test",
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		AdmissionValidity:  2 * time.Hour,
		ProofValidity:      15 * time.Minute,
		OvertimeQRValidity: 15 * time.Minute,
	}

	ctx := context.Background()
	app, err := server.New(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	var roleID string
	if err := app.DB.QueryRow(ctx, "SELECT id FROM roles WHERE title = 'Bartender'").Scan(&roleID); err != nil {
		t.Fatalf("seed role missing: %v", err)
	}

	suffix := time.Now().UnixNano()
	var staffID string
	if err := app.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, role_id, employment_type, status)
    VALUES ('Journey', 'Staff', $1, $2, 'staff', 'Working')
    RETURNING id
  `, fmt.Sprintf("journey-staff-%d@example.com", suffix), roleID).Scan(&staffID); err != nil {
		t.Fatalf("insert staff failed: %v", err)
	}
	var managerID string
	if err := app.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, role_id, employment_type, status)
    VALUES ('Journey', 'Manager', $1, $2, 'manager', 'Working')
    RETURNING id
  `, fmt.Sprintf("journey-manager-%d@example.com", suffix), roleID).Scan(&managerID); err != nil {
		t.Fatalf("insert manager failed: %v", err)
	}

	managerToken, err := auth.SignToken(cfg.JWTSecret, managerID, auth.RoleManager, time.Hour)
	if err != nil {
		t.Fatalf("sign manager token: %v", err)
	}
	staffToken, err := auth.SignToken(cfg.JWTSecret, staffID, auth.RoleStaff, time.Hour)
	if err != nil {
		t.Fatalf("sign staff token: %v", err)
	}

	// Open an overtime session for the bartender role.
	generated := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/overtime/generate", managerToken, map[string]any{
		"roles":    []string{roleID},
		"duration": 90,
	}, http.StatusCreated)
	var opened struct {
		OvertimeID    string `json:"overtimeId"`
		QRID          string `json:"qrId"`
		CreatedShifts []any  `json:"createdShifts"`
	}
	if err := json.Unmarshal(generated.Data, &opened); err != nil {
		t.Fatalf("decode generate response: %v", err)
	}
	if opened.OvertimeID == "" || opened.QRID == "" {
		t.Fatalf("expected overtime session and qr id, got %+v", opened)
	}
	if len(opened.CreatedShifts) == 0 {
		t.Fatal("expected overtime shifts for working employees")
	}

	// Staff cannot manage overtime.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/overtime/extend", staffToken, map[string]any{
		"overtimeId":        opened.OvertimeID,
		"additionalMinutes": 30,
	}, http.StatusForbidden)

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/overtime/extend", managerToken, map[string]any{
		"overtimeId":        opened.OvertimeID,
		"additionalMinutes": 30,
	}, http.StatusOK)

	status := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/overtime/status/"+opened.OvertimeID, managerToken, nil, http.StatusOK)
	var session struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(status.Data, &session); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if session.Status != "on-going" {
		t.Fatalf("expected on-going session, got %s", session.Status)
	}

	ended := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/overtime/end", managerToken, map[string]any{
		"overtimeId": opened.OvertimeID,
	}, http.StatusOK)
	var endResult struct {
		ProofQRID string `json:"proofQrId"`
	}
	if err := json.Unmarshal(ended.Data, &endResult); err != nil {
		t.Fatalf("decode end response: %v", err)
	}
	if endResult.ProofQRID == "" {
		t.Fatal("expected proof QR after ending session")
	}

	// Ending twice is a 404; the session is no longer on-going.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/overtime/end", managerToken, map[string]any{
		"overtimeId": opened.OvertimeID,
	}, http.StatusNotFound)

	// Staff can see and cancel their own shifts.
	listed := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/shifts", staffToken, nil, http.StatusOK)
	var shifts []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(listed.Data, &shifts); err != nil {
		t.Fatalf("decode shifts response: %v", err)
	}
	var scheduledID string
	for _, sh := range shifts {
		if sh.Status == "scheduled" {
			scheduledID = sh.ID
			break
		}
	}
	if scheduledID != "" {
		doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/shifts/"+scheduledID+"/cancel", staffToken, nil, http.StatusCreated)
	}

	// Clock in through an admission QR code.
	now := time.Now().UTC()
	var scheduleID string
	if err := app.DB.QueryRow(ctx, "SELECT id FROM schedules ORDER BY start_date DESC LIMIT 1").Scan(&scheduleID); err != nil {
		t.Fatalf("seed schedule missing: %v", err)
	}
	if _, err := app.DB.Exec(ctx, `
    INSERT INTO shifts (employee_id, schedule_id, shift_type, start_at, end_at)
    VALUES ($1, $2, 'normal', $3, $4)
  `, staffID, scheduleID, now.Add(-time.Hour), now.Add(2*time.Hour)); err != nil {
		t.Fatalf("insert shift failed: %v", err)
	}
	codeValue := fmt.Sprintf("journey-code-%d", suffix)
	if _, err := app.DB.Exec(ctx, `
    INSERT INTO qr_codes (code_value, purpose, code_date, generated_at, expires_at, status)
    VALUES ($1, 'clock_in', ($2::timestamptz AT TIME ZONE 'UTC')::date, $3, $4, 'active')
  `, codeValue, now, now, now.Add(2*time.Hour)); err != nil {
		t.Fatalf("insert qr code failed: %v", err)
	}

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/qr/scan", staffToken, map[string]any{
		"codeValue": codeValue,
	}, http.StatusOK)
	// Same employee, same code: the second scan is a duplicate clock-in.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/qr/scan", staffToken, map[string]any{
		"codeValue": codeValue,
	}, http.StatusBadRequest)
	// An unknown code is a 404, not a validation error.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/qr/scan", staffToken, map[string]any{
		"codeValue": "journey-missing-code",
	}, http.StatusNotFound)

	// Clock out through the proof code. The shift has already ended when
	// the proof code exists, so the scan must still match it.
	var endedShiftID string
	if err := app.DB.QueryRow(ctx, `
    INSERT INTO shifts (employee_id, schedule_id, shift_type, start_at, end_at)
    VALUES ($1, $2, 'normal', $3, $4)
    RETURNING id
  `, staffID, scheduleID, now.Add(-4*time.Hour), now.Add(-time.Minute)).Scan(&endedShiftID); err != nil {
		t.Fatalf("insert ended shift failed: %v", err)
	}
	if _, err := app.DB.Exec(ctx, `
    INSERT INTO attendance (employee_id, shift_id, clock_in, status)
    VALUES ($1, $2, $3, 'absent')
  `, staffID, endedShiftID, now.Add(-4*time.Hour)); err != nil {
		t.Fatalf("insert attendance failed: %v", err)
	}
	proofValue := fmt.Sprintf("journey-proof-%d", suffix)
	if _, err := app.DB.Exec(ctx, `
    INSERT INTO qr_codes (code_value, purpose, code_date, generated_at, expires_at, status)
    VALUES ($1, 'attendance', ($2::timestamptz AT TIME ZONE 'UTC')::date, $3, $4, 'active')
  `, proofValue, now, now.Add(-time.Minute), now.Add(14*time.Minute)); err != nil {
		t.Fatalf("insert proof code failed: %v", err)
	}

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/qr/scan", staffToken, map[string]any{
		"codeValue": proofValue,
	}, http.StatusOK)
	// The attendance row is closed now; a second proof scan has no open
	// clock-in to match.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/qr/scan", staffToken, map[string]any{
		"codeValue": proofValue,
	}, http.StatusBadRequest)

	// Budget cycle on demand.
	ran := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/budget/run", managerToken, nil, http.StatusOK)
	var entry struct {
		InitialBudget  float64 `json:"initialBudget"`
		AdjustedBudget float64 `json:"adjustedBudget"`
	}
	if err := json.Unmarshal(ran.Data, &entry); err != nil {
		t.Fatalf("decode budget run response: %v", err)
	}
	if entry.AdjustedBudget < 10000 || entry.AdjustedBudget > 130000 {
		t.Fatalf("adjusted budget %v outside bounds", entry.AdjustedBudget)
	}

	// Re-running the same period overwrites the row with the same result;
	// the second run must not feed the first run's output back in.
	reran := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/budget/run", managerToken, nil, http.StatusOK)
	var second struct {
		InitialBudget  float64 `json:"initialBudget"`
		AdjustedBudget float64 `json:"adjustedBudget"`
	}
	if err := json.Unmarshal(reran.Data, &second); err != nil {
		t.Fatalf("decode budget re-run response: %v", err)
	}
	if second.InitialBudget != entry.InitialBudget || second.AdjustedBudget != entry.AdjustedBudget {
		t.Fatalf("budget re-run changed the result: first %+v, second %+v", entry, second)
	}

	history := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/budget/history", managerToken, nil, http.StatusOK)
	var entries []json.RawMessage
	if err := json.Unmarshal(history.Data, &entries); err != nil {
		t.Fatalf("decode history response: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected budget history after run")
	}

	// Standby rotation flags non-working staff.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/standby/rotate", managerToken, nil, http.StatusOK)
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, payload any, wantStatus int) envelope {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d", method, url, wantStatus, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}
