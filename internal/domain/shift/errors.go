package shift

import "errors"

var (
	ErrShiftNotFound  = errors.New("shift not found")
	ErrShiftNotActive = errors.New("shift is not scheduled")
	ErrNotShiftOwner  = errors.New("shift belongs to another employee")
)
