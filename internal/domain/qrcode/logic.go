package qrcode

import (
	"time"

	"shifthub/internal/domain/shift"
)

// ShiftTypeFor maps a code purpose to the shift type a scan should
// match against. Overtime admission and overtime proof deliberately
// route through the same scan path as normal shifts.
func ShiftTypeFor(purpose string) (string, error) {
	switch purpose {
	case PurposeClockIn, PurposeAttendance:
		return shift.TypeNormal, nil
	case PurposeOvertime, PurposeOvertimeAttendance:
		return shift.TypeOvertime, nil
	default:
		return "", ErrUnknownPurpose
	}
}

// Validate checks a code's state against the scan instant. An expired
// code returns ErrCodeExpired; the caller is expected to persist the
// expiry opportunistically.
func Validate(code Code, now time.Time) error {
	if code.Status == StatusExpired {
		return ErrCodeExpired
	}
	if code.Status != StatusActive {
		return ErrCodeUsed
	}
	if now.After(code.ExpiresAt) {
		return ErrCodeExpired
	}
	return nil
}
