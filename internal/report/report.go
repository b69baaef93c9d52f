// Package report computes the aggregate views served by the admin
// endpoints: the visitor list, dashboard stats, and CSV export rows.
// All functions are pure; callers supply the collections.
package report

import (
	"sort"
	"time"

	"github.com/eventvms/vms/internal/models"
)

// recentLimit caps the dashboard's recent-visitors list.
const recentLimit = 10

// VisitorSummary is one row of the visitor list: the visitor plus how
// often and where they have been scanned.
type VisitorSummary struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	RegisteredAt time.Time          `json:"registered_at"`
	EmailStatus  models.EmailStatus `json:"email_status"`
	ScansCount   int                `json:"scans_count"`
	Stalls       []string           `json:"stalls"`
}

// VisitorSummaries joins visitors with their scans, newest registration
// first. Stalls lists the distinct stall ids touched, in scan order.
func VisitorSummaries(visitors []models.Visitor, scans []models.Scan) []VisitorSummary {
	out := make([]VisitorSummary, 0, len(visitors))
	for _, v := range visitors {
		sum := VisitorSummary{
			ID:           v.ID,
			Name:         v.Name,
			Email:        v.Email,
			RegisteredAt: v.RegisteredAt,
			EmailStatus:  v.EmailStatus,
			Stalls:       []string{},
		}
		seen := map[string]bool{}
		for _, sc := range scans {
			if sc.VisitorID != v.ID {
				continue
			}
			sum.ScansCount++
			if !seen[sc.StallID] {
				seen[sc.StallID] = true
				sum.Stalls = append(sum.Stalls, sc.StallID)
			}
		}
		out = append(out, sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegisteredAt.After(out[j].RegisteredAt)
	})
	return out
}

// StallStats is the per-stall slice of the dashboard.
type StallStats struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Scans          int    `json:"scans"`
	UniqueVisitors int    `json:"unique_visitors"`
}

// RecentVisitor is one entry of the dashboard's latest-registrations list.
type RecentVisitor struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	RegisteredAt time.Time          `json:"registered_at"`
	EmailStatus  models.EmailStatus `json:"email_status"`
}

// Stats is the dashboard payload.
type Stats struct {
	TotalVisitors  int             `json:"totalVisitors"`
	EmailsSent     int             `json:"emailsSent"`
	TotalScans     int             `json:"totalScans"`
	Stalls         []StallStats    `json:"stalls"`
	RecentVisitors []RecentVisitor `json:"recentVisitors"`
}

// BuildStats computes the dashboard aggregates.
func BuildStats(visitors []models.Visitor, stalls []models.Stall, scans []models.Scan) Stats {
	st := Stats{
		TotalVisitors:  len(visitors),
		TotalScans:     len(scans),
		Stalls:         make([]StallStats, 0, len(stalls)),
		RecentVisitors: []RecentVisitor{},
	}
	for _, v := range visitors {
		if v.EmailStatus == models.EmailSent {
			st.EmailsSent++
		}
	}

	for _, stall := range stalls {
		row := StallStats{ID: stall.ID, Name: stall.Name}
		unique := map[string]bool{}
		for _, sc := range scans {
			if sc.StallID != stall.ID {
				continue
			}
			row.Scans++
			unique[sc.VisitorID] = true
		}
		row.UniqueVisitors = len(unique)
		st.Stalls = append(st.Stalls, row)
	}

	recent := append([]models.Visitor(nil), visitors...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].RegisteredAt.After(recent[j].RegisteredAt)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	for _, v := range recent {
		st.RecentVisitors = append(st.RecentVisitors, RecentVisitor{
			ID:           v.ID,
			Name:         v.Name,
			Email:        v.Email,
			RegisteredAt: v.RegisteredAt,
			EmailStatus:  v.EmailStatus,
		})
	}
	return st
}

// ExportRows builds the CSV rows for one stall's scans, joining each
// scan with its visitor. Unknown visitors produce empty fields rather
// than dropped rows, so the export always matches the scan count.
func ExportRows(visitors []models.Visitor, stallScans []models.Scan) [][]string {
	byID := make(map[string]models.Visitor, len(visitors))
	for _, v := range visitors {
		byID[v.ID] = v
	}

	rows := make([][]string, 0, len(stallScans))
	for _, sc := range stallScans {
		var name, email, registered string
		if v, ok := byID[sc.VisitorID]; ok {
			name = v.Name
			email = v.Email
			registered = v.RegisteredAt.Format(time.RFC3339Nano)
		}
		rows = append(rows, []string{name, email, registered, sc.ScannedAt.Format(time.RFC3339Nano)})
	}
	return rows
}
