package models

import "time"

// EmailStatus tracks the outcome of the credential email for a visitor.
type EmailStatus string

const (
	// EmailPending is set when the visitor record is first persisted,
	// before any delivery attempt.
	EmailPending EmailStatus = "pending"

	// EmailSent means the SMTP send succeeded; EmailMessageID is set.
	EmailSent EmailStatus = "sent"

	// EmailFailed means the connectivity check or the send failed;
	// EmailError holds the captured error text.
	EmailFailed EmailStatus = "failed"
)

// Visitor represents a registered event attendee.
//
// A visitor is created exactly once at registration. The email status
// fields are updated exactly once afterwards, when the notification
// attempt resolves; everything else is immutable.
type Visitor struct {
	// ID is the unique identifier for the visitor (UUID format).
	// It is also the payload of the visitor's QR credential.
	ID string `json:"id"`

	// Name is the visitor's display name.
	Name string `json:"name"`

	// Email is the address the QR credential is delivered to.
	Email string `json:"email"`

	// RegisteredAt is when the registration was accepted.
	RegisteredAt time.Time `json:"registered_at"`

	// EmailStatus is pending, sent, or failed.
	EmailStatus EmailStatus `json:"email_status"`

	// EmailError holds the delivery error, if any.
	EmailError string `json:"email_error,omitempty"`

	// EmailMessageID is the Message-ID of the delivered email.
	EmailMessageID string `json:"email_message_id,omitempty"`
}

// Public returns the fields of the visitor included in scan responses.
func (v Visitor) Public() PublicVisitor {
	return PublicVisitor{ID: v.ID, Name: v.Name, Email: v.Email}
}

// PublicVisitor is the API-facing projection of a Visitor.
type PublicVisitor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
