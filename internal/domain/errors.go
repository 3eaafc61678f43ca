package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// travel request does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, return date not after
// departure date). Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the authorization policy denies an action.
// It is always wrapped with the human-readable deny reason, and is distinct
// from ErrNotFound so a denied action is never reported as missing.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a status transition loses a race: the row was
// locked, re-checked, and its current status no longer permits the change
// (e.g. a concurrent caller already cancelled the request).
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
