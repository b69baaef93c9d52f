package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eventvms/vms/internal/models"
	"github.com/eventvms/vms/internal/storage"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	store, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return store, path
}

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds stalls on first run", func(t *testing.T) {
		store, path := newTestStore(t)

		stalls, err := store.ListStalls(ctx)
		if err != nil {
			t.Fatalf("ListStalls failed: %v", err)
		}
		if len(stalls) != 2 {
			t.Fatalf("expected 2 seeded stalls, got %d", len(stalls))
		}
		if stalls[0].ID != "A" || stalls[0].Name != "STALL A" {
			t.Errorf("unexpected first stall: %+v", stalls[0])
		}
		if stalls[1].AccessCode == "" {
			t.Error("expected seeded access code")
		}

		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected snapshot file on disk: %v", err)
		}
	})

	t.Run("insert and get visitor", func(t *testing.T) {
		store, _ := newTestStore(t)

		v := models.Visitor{
			ID:           "v1",
			Name:         "Ann",
			Email:        "ann@x.com",
			RegisteredAt: time.Now().UTC(),
			EmailStatus:  models.EmailPending,
		}
		if err := store.InsertVisitor(ctx, v); err != nil {
			t.Fatalf("InsertVisitor failed: %v", err)
		}

		got, err := store.GetVisitor(ctx, "v1")
		if err != nil {
			t.Fatalf("GetVisitor failed: %v", err)
		}
		if got.Name != "Ann" || got.EmailStatus != models.EmailPending {
			t.Errorf("unexpected visitor: %+v", got)
		}

		if _, err := store.GetVisitor(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set email status", func(t *testing.T) {
		store, _ := newTestStore(t)

		v := models.Visitor{ID: "v1", Name: "Ann", Email: "ann@x.com", EmailStatus: models.EmailPending}
		if err := store.InsertVisitor(ctx, v); err != nil {
			t.Fatalf("InsertVisitor failed: %v", err)
		}

		upd := storage.EmailUpdate{Status: models.EmailSent, MessageID: "<msg-1>"}
		if err := store.SetEmailStatus(ctx, "v1", upd); err != nil {
			t.Fatalf("SetEmailStatus failed: %v", err)
		}

		got, err := store.GetVisitor(ctx, "v1")
		if err != nil {
			t.Fatalf("GetVisitor failed: %v", err)
		}
		if got.EmailStatus != models.EmailSent || got.EmailMessageID != "<msg-1>" {
			t.Errorf("unexpected visitor after update: %+v", got)
		}

		if err := store.SetEmailStatus(ctx, "nope", upd); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("first scan wins lookup order", func(t *testing.T) {
		store, _ := newTestStore(t)

		scans := []models.Scan{
			{ID: "s1", VisitorID: "v1", StallID: "A", ScannedAt: time.Now().UTC()},
			{ID: "s2", VisitorID: "v2", StallID: "B", ScannedAt: time.Now().UTC()},
		}
		for _, sc := range scans {
			if err := store.InsertScan(ctx, sc); err != nil {
				t.Fatalf("InsertScan failed: %v", err)
			}
		}

		first, err := store.FirstScanForVisitor(ctx, "v1")
		if err != nil {
			t.Fatalf("FirstScanForVisitor failed: %v", err)
		}
		if first.ID != "s1" || first.StallID != "A" {
			t.Errorf("unexpected first scan: %+v", first)
		}

		if _, err := store.FirstScanForVisitor(ctx, "v3"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		forA, err := store.ScansForStall(ctx, "A")
		if err != nil {
			t.Fatalf("ScansForStall failed: %v", err)
		}
		if len(forA) != 1 || forA[0].ID != "s1" {
			t.Errorf("unexpected stall scans: %+v", forA)
		}
	})

	t.Run("state survives reopen", func(t *testing.T) {
		store, path := newTestStore(t)

		v := models.Visitor{ID: "v1", Name: "Ann", Email: "ann@x.com", EmailStatus: models.EmailPending}
		if err := store.InsertVisitor(ctx, v); err != nil {
			t.Fatalf("InsertVisitor failed: %v", err)
		}
		sc := models.Scan{ID: "s1", VisitorID: "v1", StallID: "A", ScannedAt: time.Now().UTC()}
		if err := store.InsertScan(ctx, sc); err != nil {
			t.Fatalf("InsertScan failed: %v", err)
		}

		reopened, err := New(path)
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}

		visitors, err := reopened.ListVisitors(ctx)
		if err != nil {
			t.Fatalf("ListVisitors failed: %v", err)
		}
		if len(visitors) != 1 || visitors[0].ID != "v1" {
			t.Errorf("unexpected visitors after reopen: %+v", visitors)
		}

		scans, err := reopened.ListScans(ctx)
		if err != nil {
			t.Fatalf("ListScans failed: %v", err)
		}
		if len(scans) != 1 || scans[0].ID != "s1" {
			t.Errorf("unexpected scans after reopen: %+v", scans)
		}
	})

	t.Run("no temp file left behind", func(t *testing.T) {
		store, path := newTestStore(t)

		if err := store.InsertScan(ctx, models.Scan{ID: "s1", VisitorID: "v1", StallID: "A"}); err != nil {
			t.Fatalf("InsertScan failed: %v", err)
		}
		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Errorf("expected temp file to be renamed away, stat err: %v", err)
		}
	})
}
