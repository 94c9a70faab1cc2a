package qrcode

import "errors"

var (
	ErrCodeNotFound     = errors.New("QR code not found")
	ErrCodeUsed         = errors.New("QR code has already been used")
	ErrCodeExpired      = errors.New("QR code has expired")
	ErrUnknownPurpose   = errors.New("unknown QR code purpose")
	ErrNoMatchingShift  = errors.New("no matching scheduled shift")
	ErrDuplicateClockIn = errors.New("clock-in already recorded for this shift")
	ErrNoOpenClockIn    = errors.New("no open clock-in to close")
)
