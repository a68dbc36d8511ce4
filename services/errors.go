package services

import "errors"

// Error kinds surfaced by the invitation workflow. Callers match with
// errors.Is; the wrapped message carries the detail.
var (
	ErrValidation    = errors.New("validation failed")
	ErrAuth          = errors.New("not authenticated")
	ErrStore         = errors.New("store operation failed")
	ErrEmailDispatch = errors.New("failed to send invitation email")
	ErrNotFound      = errors.New("not found")
	ErrEmailMismatch = errors.New("invitation is for a different email address")
)
