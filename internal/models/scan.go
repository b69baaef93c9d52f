package models

import "time"

// Scan records that a visitor presented their credential at a stall.
//
// Scans are append-only and immutable. At most one scan exists per
// (visitor, stall) pair, and all scans for a given visitor share the
// same stall: the stall of a visitor's first scan locks them to it.
type Scan struct {
	// ID is the unique identifier for the scan (UUID format).
	ID string `json:"id"`

	// VisitorID references the scanned Visitor.
	VisitorID string `json:"visitor_id"`

	// StallID references the Stall that performed the scan.
	StallID string `json:"stall_id"`

	// ScannedAt is when the scan was accepted.
	ScannedAt time.Time `json:"scanned_at"`
}
