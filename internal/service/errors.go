package service

import (
	"errors"
	"fmt"
)

// Sentinel errors the HTTP edge maps to status codes.
var (
	// ErrMissingFields is returned when required request fields are
	// absent (400).
	ErrMissingFields = errors.New("required fields missing")

	// ErrStallNotFound is returned for an unknown stall id (404).
	ErrStallNotFound = errors.New("stall not found")

	// ErrVisitorNotFound is returned for an unknown visitor id (404).
	ErrVisitorNotFound = errors.New("visitor not found")

	// ErrInvalidAccessCode is returned when the presented stall access
	// code does not match the stored secret (403).
	ErrInvalidAccessCode = errors.New("invalid stall access code")
)

// ConflictError reports a cross-stall re-scan: the visitor is already
// locked to a different stall. StallName is the display name of the
// stall holding the lock, falling back to its id if the stall record
// is missing.
type ConflictError struct {
	StallID   string
	StallName string
}

func (e *ConflictError) Error() string {
	name := e.StallName
	if name == "" {
		name = e.StallID
	}
	return fmt.Sprintf("Visitor already scanned at %s", name)
}
