package qrcode

import (
	"errors"
	"testing"
	"time"

	"shifthub/internal/domain/shift"
)

func TestShiftTypeFor(t *testing.T) {
	tests := []struct {
		purpose string
		want    string
		wantErr bool
	}{
		{PurposeClockIn, shift.TypeNormal, false},
		{PurposeAttendance, shift.TypeNormal, false},
		{PurposeOvertime, shift.TypeOvertime, false},
		{PurposeOvertimeAttendance, shift.TypeOvertime, false},
		{"mystery", "", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.purpose, func(t *testing.T) {
			got, err := ShiftTypeFor(tc.purpose)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownPurpose) {
					t.Fatalf("expected ErrUnknownPurpose, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, 8, 1, 22, 0, 0, 0, time.UTC)

	active := Code{Status: StatusActive, ExpiresAt: now.Add(time.Minute)}
	if err := Validate(active, now); err != nil {
		t.Fatalf("expected live code to validate, got %v", err)
	}

	used := Code{Status: StatusUsed, ExpiresAt: now.Add(time.Minute)}
	if err := Validate(used, now); !errors.Is(err, ErrCodeUsed) {
		t.Fatalf("expected ErrCodeUsed, got %v", err)
	}

	expired := Code{Status: StatusActive, ExpiresAt: now.Add(-time.Minute)}
	if err := Validate(expired, now); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}

	alreadyExpired := Code{Status: StatusExpired, ExpiresAt: now.Add(time.Minute)}
	if err := Validate(alreadyExpired, now); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired for expired status, got %v", err)
	}

	boundary := Code{Status: StatusActive, ExpiresAt: now}
	if err := Validate(boundary, now); err != nil {
		t.Fatalf("code expiring exactly now should still validate, got %v", err)
	}
}

func TestPurposeClassification(t *testing.T) {
	if !IsProofPurpose(PurposeAttendance) || !IsProofPurpose(PurposeOvertimeAttendance) {
		t.Fatal("proof purposes misclassified")
	}
	if IsProofPurpose(PurposeClockIn) || IsProofPurpose(PurposeOvertime) {
		t.Fatal("admission purposes classified as proof")
	}
	if !IsAdmissionPurpose(PurposeClockIn) || !IsAdmissionPurpose(PurposeOvertime) {
		t.Fatal("admission purposes misclassified")
	}
}
