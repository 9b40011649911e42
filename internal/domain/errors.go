package domain

import "errors"

// Error kinds surfaced to callers. Wrap with fmt.Errorf("%w: ...", kind) and
// match with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)
