package models

// Stall is a scanning station inside the event venue.
//
// Stalls are static reference data: they are seeded into the store the
// first time the service starts and are never created or mutated by
// normal operation.
type Stall struct {
	// ID is the short stable identifier (e.g. "A").
	ID string `json:"id"`

	// Name is the display name shown to hosts and in conflict messages.
	Name string `json:"name"`

	// AccessCode is the shared secret a stall host must present before
	// the scanner is enabled. Never serialized into API responses.
	AccessCode string `json:"access_code"`
}

// Public returns the fields of the stall that are safe to expose over
// the API, i.e. everything except the access code.
func (s Stall) Public() PublicStall {
	return PublicStall{ID: s.ID, Name: s.Name}
}

// PublicStall is the API-facing projection of a Stall.
type PublicStall struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
