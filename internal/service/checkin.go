package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eventvms/vms/internal/metrics"
	"github.com/eventvms/vms/internal/models"
	"github.com/eventvms/vms/internal/storage"
)

// CheckinService enforces the check-in rules: each scan request is
// independently authenticated against the stall's access code, a
// visitor's first scan locks them to that stall, and repeat scans at
// the same stall are idempotent.
type CheckinService struct {
	store  storage.Store
	mirror storage.Mirror // nil when the mirror sink is disabled
}

// NewCheckinService creates a new CheckinService with the given storage
// backend and optional mirror sink.
func NewCheckinService(store storage.Store, mirror storage.Mirror) *CheckinService {
	return &CheckinService{store: store, mirror: mirror}
}

// ScanResult is the successful outcome of a scan submission.
type ScanResult struct {
	Visitor models.PublicVisitor
	Stall   models.PublicStall

	// Repeat is true when the visitor was already checked in at this
	// stall and no new record was written.
	Repeat bool
}

// AuthenticateStall validates a stall host's credentials. The check is
// repeated on every scan submission; nothing is cached.
func (s *CheckinService) AuthenticateStall(ctx context.Context, stallID, accessCode string) (*models.Stall, error) {
	if stallID == "" || accessCode == "" {
		return nil, ErrMissingFields
	}

	stall, err := s.store.GetStall(ctx, stallID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrStallNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("look up stall: %w", err)
	}

	if stall.AccessCode != accessCode {
		return nil, ErrInvalidAccessCode
	}
	return stall, nil
}

// Scan processes one credential scan.
//
// The cross-stall check runs before the same-stall check: a prior scan
// at any stall is looked up first, and only if it belongs to this stall
// is the request treated as a harmless repeat. Swapping that order
// would let a second stall capture a locked visitor.
func (s *CheckinService) Scan(ctx context.Context, visitorID, stallID, accessCode string) (*ScanResult, error) {
	if visitorID == "" {
		metrics.ScansTotal.WithLabelValues("rejected").Inc()
		return nil, ErrMissingFields
	}

	stall, err := s.AuthenticateStall(ctx, stallID, accessCode)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	visitor, err := s.store.GetVisitor(ctx, visitorID)
	if errors.Is(err, storage.ErrNotFound) {
		metrics.ScansTotal.WithLabelValues("rejected").Inc()
		return nil, ErrVisitorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("look up visitor: %w", err)
	}

	result := &ScanResult{Visitor: visitor.Public(), Stall: stall.Public()}

	prior, err := s.store.FirstScanForVisitor(ctx, visitorID)
	switch {
	case err == nil && prior.StallID != stallID:
		metrics.ScansTotal.WithLabelValues("conflict").Inc()
		return nil, s.conflictFor(ctx, prior.StallID)
	case err == nil:
		// Already scanned at this stall; succeed without a new record.
		slog.Info("repeat scan", "visitor_id", visitorID, "stall_id", stallID)
		metrics.ScansTotal.WithLabelValues("repeat").Inc()
		result.Repeat = true
		return result, nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("look up prior scan: %w", err)
	}

	sc := models.Scan{
		ID:        uuid.New().String(),
		VisitorID: visitorID,
		StallID:   stallID,
		ScannedAt: time.Now().UTC(),
	}
	if err := s.store.InsertScan(ctx, sc); err != nil {
		return nil, fmt.Errorf("persist scan: %w", err)
	}
	if s.mirror != nil {
		logMirrorResult("insert scan", s.mirror.InsertScan(ctx, sc))
	}

	slog.Info("scan accepted", "scan_id", sc.ID, "visitor_id", visitorID, "stall_id", stallID)
	metrics.ScansTotal.WithLabelValues("accepted").Inc()
	return result, nil
}

// conflictFor builds the cross-stall ConflictError, resolving the
// holding stall's display name for the message.
func (s *CheckinService) conflictFor(ctx context.Context, priorStallID string) error {
	conflict := &ConflictError{StallID: priorStallID}
	if prior, err := s.store.GetStall(ctx, priorStallID); err == nil {
		conflict.StallName = prior.Name
	}
	slog.Warn("cross-stall scan denied", "locked_stall_id", priorStallID)
	return conflict
}
