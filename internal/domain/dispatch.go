package domain

import (
	"time"

	"github.com/google/uuid"
)

// DispatchResult is the per-recipient outcome of one bulk send. Its
// lifetime is the dispatch call; the durable record is the DeliveryRecord.
type DispatchResult struct {
	EmployeeID uuid.UUID
	Success    bool

	// ProviderMessageID is set on success.
	ProviderMessageID string

	// ErrorReason is set on failure.
	ErrorReason string
}

// DispatchSummary aggregates a bulk send. Results preserve input order
// regardless of completion order.
type DispatchSummary struct {
	Total   int
	Sent    int
	Failed  int
	Results []DispatchResult
}

// DeliveryRecord is one row of the delivery log: every outbound attempt
// and every inbound message we could not attribute lands here.
// EmployeeID and OrganizationID are nil for unattributable senders.
type DeliveryRecord struct {
	ID                uuid.UUID
	EmployeeID        *uuid.UUID
	OrganizationID    *uuid.UUID
	Recipient         string
	ProviderMessageID *string
	Status            DeliveryStatus
	ErrorReason       *string
	CreatedAt         time.Time
}
