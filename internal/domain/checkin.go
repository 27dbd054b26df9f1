package domain

import (
	"time"

	"github.com/google/uuid"
)

// CheckIn is one scored (or unscored) free-text wellbeing response.
// Check-ins are append-only: they are never updated or deleted, so the
// table doubles as the audit trail for every inbound signal.
type CheckIn struct {
	ID             uuid.UUID
	EmployeeID     uuid.UUID
	OrganizationID uuid.UUID

	// MoodScore is 1–5, or nil when the message carried no parseable score.
	// An unscored check-in is a valid outcome, not a parse failure.
	MoodScore *int

	Body           string
	SentimentScore float64 // −1..1
	SentimentLabel SentimentLabel
	Channel        Channel

	// ProviderMessageID is the carrier's message id, used as the
	// idempotency key: unique per organization, so an at-least-once
	// webhook delivery never creates a second row.
	ProviderMessageID string

	CreatedAt time.Time
}

// Employee is the read model fed by the out-of-scope CRUD layer.
type Employee struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Department     string
	Phone          string
	Active         bool
	CreatedAt      time.Time
}

// Organization is the read model fed by the out-of-scope CRUD layer.
type Organization struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
