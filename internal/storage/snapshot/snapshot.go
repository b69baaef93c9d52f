// Package snapshot provides the JSON-file-backed implementation of the
// storage.Store interface.
//
// The whole database is held in memory and serialized back in full on
// every write. That is deliberately simple: the service expects
// hundreds to low thousands of visitors per event, and a full rewrite
// at that scale is cheap. Durability comes from writing each snapshot
// to a temporary file and renaming it over the previous one, so a crash
// mid-write never corrupts previously-persisted state.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/eventvms/vms/internal/models"
	"github.com/eventvms/vms/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// database is the on-disk snapshot layout.
type database struct {
	Visitors []models.Visitor `json:"visitors"`
	Stalls   []models.Stall   `json:"stalls"`
	Scans    []models.Scan    `json:"scans"`
}

// seedStalls is written into a fresh snapshot the first time the
// service starts. Stalls are static reference data after that.
var seedStalls = []models.Stall{
	{ID: "A", Name: "STALL A", AccessCode: "stallA2025"},
	{ID: "B", Name: "STALL B", AccessCode: "stallB2025"},
}

// Store implements storage.Store using a single JSON snapshot file.
//
// A RWMutex serializes mutations: each write mutates the in-memory
// state and flushes the full snapshot before returning, so there is
// exactly one writer at a time and reads never observe a half-applied
// mutation.
type Store struct {
	mu   sync.RWMutex
	path string
	db   database
}

// New opens the snapshot at path, creating and seeding it if it does
// not exist yet. Parent directories are created as needed.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &storage.StorageError{Op: "create data directory", Err: err}
	}

	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.db = database{
			Visitors: []models.Visitor{},
			Stalls:   append([]models.Stall(nil), seedStalls...),
			Scans:    []models.Scan{},
		}
		if err := s.flush(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, &storage.StorageError{Op: "read snapshot", Err: err}
	default:
		if err := json.Unmarshal(raw, &s.db); err != nil {
			return nil, &storage.StorageError{Op: "decode snapshot", Err: err}
		}
	}

	return s, nil
}

// Close is a no-op: every mutation is already flushed.
func (s *Store) Close() error { return nil }

// flush serializes the full snapshot and atomically replaces the file.
// Callers must hold the write lock (or be the only reference, as in New).
func (s *Store) flush() error {
	data, err := json.MarshalIndent(&s.db, "", "  ")
	if err != nil {
		return &storage.StorageError{Op: "encode snapshot", Err: err}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &storage.StorageError{Op: "write snapshot", Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return &storage.StorageError{Op: "replace snapshot", Err: err}
	}
	return nil
}

// ListStalls returns all stalls in seed order.
func (s *Store) ListStalls(ctx context.Context) ([]models.Stall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Stall(nil), s.db.Stalls...), nil
}

// GetStall retrieves a stall by ID.
func (s *Store) GetStall(ctx context.Context, id string) (*models.Stall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.db.Stalls {
		if st.ID == id {
			out := st
			return &out, nil
		}
	}
	return nil, fmt.Errorf("stall %q: %w", id, storage.ErrNotFound)
}

// ListVisitors returns all visitors in insertion order.
func (s *Store) ListVisitors(ctx context.Context) ([]models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Visitor(nil), s.db.Visitors...), nil
}

// GetVisitor retrieves a visitor by ID.
func (s *Store) GetVisitor(ctx context.Context, id string) (*models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.db.Visitors {
		if v.ID == id {
			out := v
			return &out, nil
		}
	}
	return nil, fmt.Errorf("visitor %q: %w", id, storage.ErrNotFound)
}

// InsertVisitor persists a new visitor record.
func (s *Store) InsertVisitor(ctx context.Context, v models.Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.Visitors = append(s.db.Visitors, v)
	if err := s.flush(); err != nil {
		s.db.Visitors = s.db.Visitors[:len(s.db.Visitors)-1]
		return err
	}
	return nil
}

// SetEmailStatus applies the email outcome to an existing visitor.
func (s *Store) SetEmailStatus(ctx context.Context, visitorID string, upd storage.EmailUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.db.Visitors {
		if s.db.Visitors[i].ID != visitorID {
			continue
		}
		prev := s.db.Visitors[i]
		s.db.Visitors[i].EmailStatus = upd.Status
		s.db.Visitors[i].EmailError = upd.Error
		s.db.Visitors[i].EmailMessageID = upd.MessageID
		if err := s.flush(); err != nil {
			s.db.Visitors[i] = prev
			return err
		}
		return nil
	}
	return fmt.Errorf("visitor %q: %w", visitorID, storage.ErrNotFound)
}

// ListScans returns all scans in insertion order.
func (s *Store) ListScans(ctx context.Context) ([]models.Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Scan(nil), s.db.Scans...), nil
}

// FirstScanForVisitor returns the earliest scan recorded for the
// visitor, at whatever stall.
func (s *Store) FirstScanForVisitor(ctx context.Context, visitorID string) (*models.Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Scans are append-only, so the first match is the earliest.
	for _, sc := range s.db.Scans {
		if sc.VisitorID == visitorID {
			out := sc
			return &out, nil
		}
	}
	return nil, fmt.Errorf("scan for visitor %q: %w", visitorID, storage.ErrNotFound)
}

// ScansForStall returns all scans recorded at the given stall.
func (s *Store) ScansForStall(ctx context.Context, stallID string) ([]models.Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Scan
	for _, sc := range s.db.Scans {
		if sc.StallID == stallID {
			out = append(out, sc)
		}
	}
	return out, nil
}

// InsertScan appends a new scan record.
func (s *Store) InsertScan(ctx context.Context, sc models.Scan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.Scans = append(s.db.Scans, sc)
	if err := s.flush(); err != nil {
		s.db.Scans = s.db.Scans[:len(s.db.Scans)-1]
		return err
	}
	return nil
}
