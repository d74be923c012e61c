package models

import "errors"

// Domain error taxonomy. Repositories and services wrap these with context;
// handlers inspect them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrUnavailable  = errors.New("storage unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)
