package registry

import "errors"

// The registry error taxonomy. Callers match with errors.Is; the HTTP layer
// maps each to a status code. Authorization failures carry no detail beyond
// "not permitted".
var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNotPermitted      = errors.New("not permitted")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
)
