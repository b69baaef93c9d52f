// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventvms/vms/internal/models"
)

// ErrNotFound is returned by lookups when no record matches.
var ErrNotFound = errors.New("record not found")

// StorageError wraps an I/O failure in the primary store. Callers treat
// it as fatal to the enclosing request; it never indicates partial
// state, because a snapshot is only replaced after it is fully written.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// EmailUpdate is the one mutation a Visitor record admits: the resolved
// outcome of the credential email attempt.
type EmailUpdate struct {
	Status    models.EmailStatus
	Error     string
	MessageID string
}

// Store defines the interface for the primary record store, the source
// of truth for visitors, stalls, and scans.
//
// All writes are durable before the call returns, and a subsequent read
// by the same process observes them. Implementations must serialize
// mutations so each one lands as a consistent snapshot.
type Store interface {
	// ListStalls returns all stalls in seed order.
	ListStalls(ctx context.Context) ([]models.Stall, error)

	// GetStall retrieves a stall by ID. Returns ErrNotFound if absent.
	GetStall(ctx context.Context, id string) (*models.Stall, error)

	// ListVisitors returns all visitors in insertion order.
	ListVisitors(ctx context.Context) ([]models.Visitor, error)

	// GetVisitor retrieves a visitor by ID. Returns ErrNotFound if absent.
	GetVisitor(ctx context.Context, id string) (*models.Visitor, error)

	// InsertVisitor persists a new visitor record.
	InsertVisitor(ctx context.Context, v models.Visitor) error

	// SetEmailStatus applies the email outcome to an existing visitor.
	// Returns ErrNotFound if the visitor does not exist.
	SetEmailStatus(ctx context.Context, visitorID string, upd EmailUpdate) error

	// ListScans returns all scans in insertion order.
	ListScans(ctx context.Context) ([]models.Scan, error)

	// FirstScanForVisitor returns the earliest scan recorded for the
	// visitor, at whatever stall. Returns ErrNotFound if the visitor
	// has never been scanned.
	FirstScanForVisitor(ctx context.Context, visitorID string) (*models.Scan, error)

	// ScansForStall returns all scans recorded at the given stall.
	ScansForStall(ctx context.Context, stallID string) ([]models.Scan, error)

	// InsertScan appends a new scan record.
	InsertScan(ctx context.Context, sc models.Scan) error

	// Close releases any resources held by the store.
	Close() error
}

// Mirror receives the same writes as the Store on a best-effort basis.
// Mirror errors are returned so the caller can log them, but they must
// never be allowed to fail the enclosing operation: the primary write
// has already committed by the time a mirror method runs.
type Mirror interface {
	InsertVisitor(ctx context.Context, v models.Visitor) error
	SetEmailStatus(ctx context.Context, visitorID string, upd EmailUpdate) error
	InsertScan(ctx context.Context, sc models.Scan) error
	Close() error
}
