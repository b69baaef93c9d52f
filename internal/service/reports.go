package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/eventvms/vms/internal/models"
	"github.com/eventvms/vms/internal/report"
	"github.com/eventvms/vms/internal/storage"
)

// exportHeader is the first row of every stall CSV export.
var exportHeader = []string{"name", "email", "registered_at", "scanned_at"}

// ReportService serves the read-only aggregate views.
type ReportService struct {
	store storage.Store
}

// NewReportService creates a new ReportService over the given store.
func NewReportService(store storage.Store) *ReportService {
	return &ReportService{store: store}
}

// Stalls returns the public view of every stall.
func (s *ReportService) Stalls(ctx context.Context) ([]models.PublicStall, error) {
	stalls, err := s.store.ListStalls(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stalls: %w", err)
	}
	out := make([]models.PublicStall, 0, len(stalls))
	for _, st := range stalls {
		out = append(out, st.Public())
	}
	return out, nil
}

// Visitors returns the visitor list with scan counts, newest first.
func (s *ReportService) Visitors(ctx context.Context) ([]report.VisitorSummary, error) {
	visitors, err := s.store.ListVisitors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	scans, err := s.store.ListScans(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	return report.VisitorSummaries(visitors, scans), nil
}

// Stats returns the dashboard aggregates.
func (s *ReportService) Stats(ctx context.Context) (*report.Stats, error) {
	visitors, err := s.store.ListVisitors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	stalls, err := s.store.ListStalls(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stalls: %w", err)
	}
	scans, err := s.store.ListScans(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	st := report.BuildStats(visitors, stalls, scans)
	return &st, nil
}

// ExportStallCSV writes the scan export for one stall as CSV. Returns
// ErrStallNotFound for an unknown stall id.
func (s *ReportService) ExportStallCSV(ctx context.Context, stallID string, w io.Writer) error {
	if _, err := s.store.GetStall(ctx, stallID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrStallNotFound
		}
		return fmt.Errorf("look up stall: %w", err)
	}

	scans, err := s.store.ScansForStall(ctx, stallID)
	if err != nil {
		return fmt.Errorf("list stall scans: %w", err)
	}
	visitors, err := s.store.ListVisitors(ctx)
	if err != nil {
		return fmt.Errorf("list visitors: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range report.ExportRows(visitors, scans) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
