package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrMismatch   = errors.New("mismatch")
	ErrNoChanges  = errors.New("no changes requested")
	ErrUpstream   = errors.New("upstream unavailable")
	ErrStore      = errors.New("store unavailable")
	ErrBadRequest = errors.New("bad request")
)
