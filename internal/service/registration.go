package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eventvms/vms/internal/config"
	"github.com/eventvms/vms/internal/mailer"
	"github.com/eventvms/vms/internal/metrics"
	"github.com/eventvms/vms/internal/models"
	"github.com/eventvms/vms/internal/qr"
	"github.com/eventvms/vms/internal/storage"
)

// RegistrationService issues visitor credentials.
//
// Registration succeeds once the credential is rendered and the visitor
// record is committed to the primary store. Email delivery resolves
// afterwards into the visitor's email status and never fails the call.
type RegistrationService struct {
	store         storage.Store
	mirror        storage.Mirror // nil when the mirror sink is disabled
	mailer        mailer.Mailer
	qr            *qr.Generator
	event         config.Event
	baseURL       string
	verifyTimeout time.Duration
}

// NewRegistrationService wires a RegistrationService.
func NewRegistrationService(
	store storage.Store,
	mirror storage.Mirror,
	m mailer.Mailer,
	gen *qr.Generator,
	event config.Event,
	baseURL string,
	verifyTimeout time.Duration,
) *RegistrationService {
	return &RegistrationService{
		store:         store,
		mirror:        mirror,
		mailer:        m,
		qr:            gen,
		event:         event,
		baseURL:       baseURL,
		verifyTimeout: verifyTimeout,
	}
}

// RegistrationResult reports the outcome of a registration. EmailStatus
// and EmailError reflect the delivery attempt; the registration itself
// succeeded regardless.
type RegistrationResult struct {
	ID          string
	EmailStatus models.EmailStatus
	EmailError  string
}

// Register creates a visitor, renders their QR credential, and attempts
// to email it.
//
// Only missing fields, credential rendering, and primary store failures
// abort the call. The notification path runs between store calls, so
// the SMTP round-trip never holds the store's write serialization.
func (s *RegistrationService) Register(ctx context.Context, name, email string) (*RegistrationResult, error) {
	if name == "" || email == "" {
		return nil, ErrMissingFields
	}

	id := uuid.New().String()
	if _, err := s.qr.Generate(id); err != nil {
		return nil, fmt.Errorf("generate credential: %w", err)
	}

	visitor := models.Visitor{
		ID:           id,
		Name:         name,
		Email:        email,
		RegisteredAt: time.Now().UTC(),
		EmailStatus:  models.EmailPending,
	}
	if err := s.store.InsertVisitor(ctx, visitor); err != nil {
		return nil, fmt.Errorf("persist visitor: %w", err)
	}
	if s.mirror != nil {
		logMirrorResult("insert visitor", s.mirror.InsertVisitor(ctx, visitor))
	}
	slog.Info("visitor registered", "visitor_id", id, "email", email)

	upd, err := s.deliverCredential(ctx, visitor)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(upd.Status)).Inc()
	return &RegistrationResult{
		ID:          id,
		EmailStatus: upd.Status,
		EmailError:  upd.Error,
	}, nil
}

// deliverCredential runs the notification attempt and persists the
// resulting email status. Mail errors are captured into the update;
// only store failures are returned.
func (s *RegistrationService) deliverCredential(ctx context.Context, visitor models.Visitor) (storage.EmailUpdate, error) {
	// Connectivity check first, bounded so a dead SMTP server cannot
	// hang the registration. On failure the send is skipped entirely.
	verifyCtx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	err := s.mailer.Verify(verifyCtx)
	cancel()
	if err != nil {
		slog.Error("smtp verify failed", "visitor_id", visitor.ID, "error", err)
		return s.setEmailOutcome(ctx, visitor.ID, storage.EmailUpdate{
			Status: models.EmailFailed,
			Error:  err.Error(),
		})
	}

	subject, text, html, err := mailer.CredentialEmail(s.event, visitor.Name, qr.ImageURL(s.baseURL, visitor.ID))
	if err != nil {
		slog.Error("credential email render failed", "visitor_id", visitor.ID, "error", err)
		return s.setEmailOutcome(ctx, visitor.ID, storage.EmailUpdate{
			Status: models.EmailFailed,
			Error:  err.Error(),
		})
	}

	messageID, err := s.mailer.Send(ctx, mailer.Message{
		To:        visitor.Email,
		Subject:   subject,
		Text:      text,
		HTML:      html,
		EmbedPath: s.qr.ImagePath(visitor.ID),
	})
	if err != nil {
		slog.Error("smtp send failed", "visitor_id", visitor.ID, "error", err)
		return s.setEmailOutcome(ctx, visitor.ID, storage.EmailUpdate{
			Status: models.EmailFailed,
			Error:  err.Error(),
		})
	}

	slog.Info("credential email sent", "visitor_id", visitor.ID, "message_id", messageID)
	return s.setEmailOutcome(ctx, visitor.ID, storage.EmailUpdate{
		Status:    models.EmailSent,
		MessageID: messageID,
	})
}

// setEmailOutcome persists the resolved email status to the primary
// store and mirrors it non-fatally.
func (s *RegistrationService) setEmailOutcome(ctx context.Context, visitorID string, upd storage.EmailUpdate) (storage.EmailUpdate, error) {
	if err := s.store.SetEmailStatus(ctx, visitorID, upd); err != nil {
		return upd, fmt.Errorf("persist email status: %w", err)
	}
	if s.mirror != nil {
		logMirrorResult("update email status", s.mirror.SetEmailStatus(ctx, visitorID, upd))
	}
	return upd, nil
}
