// Package models defines the core domain models for the visitor
// management service.
//
// # Models
//
//   - Visitor: a registered event attendee; owns the lifecycle of their
//     credential email (pending → sent/failed)
//   - Stall: a scanning station with a shared access code; static
//     reference data seeded at first run
//   - Scan: an append-only record that a visitor presented their QR
//     credential at a stall
//
// # Design principles
//
//  1. Relationships use ID strings, not pointers, so records serialize
//     cleanly into the snapshot file and the mirror database.
//  2. Scans are immutable once created; a Visitor's email fields are
//     the only mutable attributes in the system.
//  3. JSON tags match the on-disk snapshot layout and the HTTP API, so
//     the same structs serve both.
package models
