// Package sqlite provides a SQLite-backed implementation of the
// storage.Mirror interface.
//
// The mirror is a replicated projection of the primary snapshot store,
// eventually consistent with it: a failed mirror write leaves the
// mirror stale, which is acceptable. The schema declares the mirror's
// own integrity constraints — visitors indexed by email for lookups,
// scans uniquely keyed by (visitor_id, stall_id) — so a duplicate scan
// insert surfaces as a constraint violation the caller logs and drops.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/eventvms/vms/internal/models"
	"github.com/eventvms/vms/internal/storage"
)

// Ensure Mirror implements storage.Mirror
var _ storage.Mirror = (*Mirror)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	email            TEXT NOT NULL,
	registered_at    TEXT NOT NULL,
	email_status     TEXT NOT NULL,
	email_error      TEXT,
	email_message_id TEXT
);
CREATE INDEX IF NOT EXISTS idx_visitors_email ON visitors(email);

CREATE TABLE IF NOT EXISTS scans (
	id         TEXT PRIMARY KEY,
	visitor_id TEXT NOT NULL,
	stall_id   TEXT NOT NULL,
	scanned_at TEXT NOT NULL,
	UNIQUE (visitor_id, stall_id)
);
`

// Mirror implements storage.Mirror using SQLite.
type Mirror struct {
	db *sql.DB
}

// New creates a new Mirror with the given database path. It creates the
// parent directories and applies the schema automatically.
func New(dbPath string) (*Mirror, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create mirror directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply mirror schema: %w", err)
	}

	return &Mirror{db: db}, nil
}

// Close closes the database connection.
func (m *Mirror) Close() error {
	return m.db.Close()
}

// InsertVisitor projects a newly-registered visitor into the mirror.
func (m *Mirror) InsertVisitor(ctx context.Context, v models.Visitor) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO visitors (id, name, email, registered_at, email_status, email_error, email_message_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Email, v.RegisteredAt.Format(time.RFC3339Nano),
		string(v.EmailStatus), nullable(v.EmailError), nullable(v.EmailMessageID),
	)
	if err != nil {
		return fmt.Errorf("failed to mirror visitor insert: %w", err)
	}
	return nil
}

// SetEmailStatus projects a visitor's resolved email outcome.
func (m *Mirror) SetEmailStatus(ctx context.Context, visitorID string, upd storage.EmailUpdate) error {
	_, err := m.db.ExecContext(ctx,
		`UPDATE visitors SET email_status = ?, email_error = ?, email_message_id = ? WHERE id = ?`,
		string(upd.Status), nullable(upd.Error), nullable(upd.MessageID), visitorID,
	)
	if err != nil {
		return fmt.Errorf("failed to mirror email status update: %w", err)
	}
	return nil
}

// InsertScan projects a scan. A UNIQUE violation on (visitor_id,
// stall_id) means the scan is already present; the caller logs the
// returned error and moves on.
func (m *Mirror) InsertScan(ctx context.Context, sc models.Scan) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO scans (id, visitor_id, stall_id, scanned_at) VALUES (?, ?, ?, ?)`,
		sc.ID, sc.VisitorID, sc.StallID, sc.ScannedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to mirror scan insert: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
