package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/eventvms/vms/internal/config"
	"github.com/eventvms/vms/internal/mailer"
	"github.com/eventvms/vms/internal/models"
	"github.com/eventvms/vms/internal/qr"
	"github.com/eventvms/vms/internal/storage"
)

// fakeMailer is a scripted notification channel.
type fakeMailer struct {
	verifyErr error
	sendErr   error
	messageID string
	sent      []mailer.Message
}

func (m *fakeMailer) Verify(ctx context.Context) error { return m.verifyErr }

func (m *fakeMailer) Send(ctx context.Context, msg mailer.Message) (string, error) {
	if m.sendErr != nil {
		return "", m.sendErr
	}
	m.sent = append(m.sent, msg)
	return m.messageID, nil
}

func newRegistrationService(t *testing.T, store storage.Store, mirror storage.Mirror, m mailer.Mailer) *RegistrationService {
	t.Helper()
	gen, err := qr.NewGenerator(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create QR generator: %v", err)
	}
	event := config.Event{Name: "Makers Expo", Date: "2026-09-12", Venue: "Hall 3", Time: "10:00"}
	return NewRegistrationService(store, mirror, m, gen, event, "http://localhost:3000", 2*time.Second)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable channel yields sent status", func(t *testing.T) {
		store := newTestStore(t)
		fm := &fakeMailer{messageID: "<msg-1@test>"}
		svc := newRegistrationService(t, store, nil, fm)

		result, err := svc.Register(ctx, "Ann", "ann@x.com")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if result.EmailStatus != models.EmailSent {
			t.Errorf("expected sent, got %s", result.EmailStatus)
		}
		if result.EmailError != "" {
			t.Errorf("unexpected email error: %q", result.EmailError)
		}

		v, err := store.GetVisitor(ctx, result.ID)
		if err != nil {
			t.Fatalf("GetVisitor failed: %v", err)
		}
		if v.EmailStatus != models.EmailSent || v.EmailMessageID != "<msg-1@test>" {
			t.Errorf("unexpected persisted visitor: %+v", v)
		}

		if len(fm.sent) != 1 {
			t.Fatalf("expected 1 send, got %d", len(fm.sent))
		}
		msg := fm.sent[0]
		if msg.To != "ann@x.com" {
			t.Errorf("unexpected recipient: %q", msg.To)
		}
		if msg.Subject != "Your QR Code for Makers Expo" {
			t.Errorf("unexpected subject: %q", msg.Subject)
		}
		if _, err := os.Stat(msg.EmbedPath); err != nil {
			t.Errorf("expected QR artifact at %s: %v", msg.EmbedPath, err)
		}
	})

	t.Run("unreachable channel yields failed status, registration succeeds", func(t *testing.T) {
		store := newTestStore(t)
		fm := &fakeMailer{verifyErr: errors.New("dial tcp: connection refused")}
		svc := newRegistrationService(t, store, nil, fm)

		result, err := svc.Register(ctx, "Ann", "ann@x.com")
		if err != nil {
			t.Fatalf("Register should succeed despite SMTP outage: %v", err)
		}
		if result.EmailStatus != models.EmailFailed {
			t.Errorf("expected failed, got %s", result.EmailStatus)
		}
		if result.EmailError == "" {
			t.Error("expected captured email error")
		}
		if len(fm.sent) != 0 {
			t.Errorf("send must be skipped after failed verify, got %d sends", len(fm.sent))
		}

		v, _ := store.GetVisitor(ctx, result.ID)
		if v.EmailStatus != models.EmailFailed || v.EmailError == "" {
			t.Errorf("unexpected persisted visitor: %+v", v)
		}
	})

	t.Run("send failure yields failed status, registration succeeds", func(t *testing.T) {
		store := newTestStore(t)
		fm := &fakeMailer{sendErr: errors.New("smtp send: 552 mailbox full")}
		svc := newRegistrationService(t, store, nil, fm)

		result, err := svc.Register(ctx, "Ann", "ann@x.com")
		if err != nil {
			t.Fatalf("Register should succeed despite send failure: %v", err)
		}
		if result.EmailStatus != models.EmailFailed {
			t.Errorf("expected failed, got %s", result.EmailStatus)
		}

		v, _ := store.GetVisitor(ctx, result.ID)
		if v.EmailError == "" {
			t.Error("expected captured email error on visitor")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		store := newTestStore(t)
		svc := newRegistrationService(t, store, nil, &fakeMailer{})

		if _, err := svc.Register(ctx, "", "ann@x.com"); !errors.Is(err, ErrMissingFields) {
			t.Errorf("expected ErrMissingFields, got %v", err)
		}
		if _, err := svc.Register(ctx, "Ann", ""); !errors.Is(err, ErrMissingFields) {
			t.Errorf("expected ErrMissingFields, got %v", err)
		}

		visitors, _ := store.ListVisitors(ctx)
		if len(visitors) != 0 {
			t.Errorf("rejected registration must not persist, got %d visitors", len(visitors))
		}
	})

	t.Run("mirror failure does not change outcome", func(t *testing.T) {
		store := newTestStore(t)
		mirror := &failingMirror{}
		fm := &fakeMailer{messageID: "<msg-2@test>"}
		svc := newRegistrationService(t, store, mirror, fm)

		result, err := svc.Register(ctx, "Ann", "ann@x.com")
		if err != nil {
			t.Fatalf("Register failed despite mirror outage: %v", err)
		}
		if result.EmailStatus != models.EmailSent {
			t.Errorf("expected sent, got %s", result.EmailStatus)
		}
		// Insert plus status update were both attempted and swallowed.
		if mirror.failures != 2 {
			t.Errorf("expected 2 attempted mirror writes, got %d", mirror.failures)
		}
	})
}
