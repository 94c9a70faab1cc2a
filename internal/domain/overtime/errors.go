package overtime

import "errors"

var (
	ErrInvalidParameters = errors.New("invalid overtime parameters")
	ErrSessionNotFound   = errors.New("overtime session not found or not on-going")
)
