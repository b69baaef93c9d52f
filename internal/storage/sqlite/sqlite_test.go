package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/eventvms/vms/internal/models"
	"github.com/eventvms/vms/internal/storage"
)

func newTestMirror(t *testing.T) *Mirror {
	t.Helper()
	m, err := New(filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestMirror(t *testing.T) {
	ctx := context.Background()

	t.Run("visitor insert and email update", func(t *testing.T) {
		m := newTestMirror(t)

		v := models.Visitor{
			ID:           "v1",
			Name:         "Ann",
			Email:        "ann@x.com",
			RegisteredAt: time.Now().UTC(),
			EmailStatus:  models.EmailPending,
		}
		if err := m.InsertVisitor(ctx, v); err != nil {
			t.Fatalf("InsertVisitor failed: %v", err)
		}

		upd := storage.EmailUpdate{Status: models.EmailFailed, Error: "smtp verify: dial tcp: refused"}
		if err := m.SetEmailStatus(ctx, "v1", upd); err != nil {
			t.Fatalf("SetEmailStatus failed: %v", err)
		}

		var status, emailErr string
		err := m.db.QueryRowContext(ctx,
			"SELECT email_status, email_error FROM visitors WHERE id = ?", "v1",
		).Scan(&status, &emailErr)
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if status != "failed" || emailErr == "" {
			t.Errorf("unexpected mirrored state: status=%q error=%q", status, emailErr)
		}
	})

	t.Run("duplicate scan hits unique constraint", func(t *testing.T) {
		m := newTestMirror(t)

		sc := models.Scan{ID: "s1", VisitorID: "v1", StallID: "A", ScannedAt: time.Now().UTC()}
		if err := m.InsertScan(ctx, sc); err != nil {
			t.Fatalf("InsertScan failed: %v", err)
		}

		// Same (visitor, stall) pair under a new id must be rejected by
		// the mirror's own integrity constraint.
		dup := models.Scan{ID: "s2", VisitorID: "v1", StallID: "A", ScannedAt: time.Now().UTC()}
		if err := m.InsertScan(ctx, dup); err == nil {
			t.Fatal("expected unique constraint violation, got nil")
		}

		var count int
		if err := m.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scans").Scan(&count); err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 mirrored scan, got %d", count)
		}
	})

	t.Run("same visitor different stall is allowed by schema", func(t *testing.T) {
		// The single-stall lock is the check-in engine's rule; the
		// mirror only enforces pair uniqueness.
		m := newTestMirror(t)

		if err := m.InsertScan(ctx, models.Scan{ID: "s1", VisitorID: "v1", StallID: "A"}); err != nil {
			t.Fatalf("InsertScan failed: %v", err)
		}
		if err := m.InsertScan(ctx, models.Scan{ID: "s2", VisitorID: "v1", StallID: "B"}); err != nil {
			t.Fatalf("InsertScan at second stall failed: %v", err)
		}
	})
}
