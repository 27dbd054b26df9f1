package domain

import (
	"time"

	"github.com/google/uuid"
)

// Insight is a materialized, severity-tagged finding with supporting
// evidence and suggested actions. Rule-based and model-based insights
// share this schema; Origin tags the generator.
//
// Invariant: Severity must be derivable from DataPoints — a critical
// insight always carries the numbers that crossed the critical threshold.
// After creation only the Read and Dismissed flags may change.
type Insight struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Type           InsightType
	Title          string
	Description    string
	Severity       Severity
	Origin         InsightOrigin

	// Department and EmployeeID scope the finding; either may be nil
	// for organization-wide insights.
	Department *string
	EmployeeID *uuid.UUID

	// DataPoints holds the numeric evidence that produced the finding.
	DataPoints map[string]any

	// ActionItems is an ordered list of suggested follow-ups.
	ActionItems []string

	Read      bool
	Dismissed bool
	CreatedAt time.Time
}

// InsightFilter narrows an insight listing. OrganizationID is required;
// the rest is optional.
type InsightFilter struct {
	OrganizationID uuid.UUID
	Department     *string
	Limit          int
}

// Alert is the narrower, employee-scoped urgent sibling of Insight,
// currently emitted only by the burnout heuristic. Read-only after
// creation.
type Alert struct {
	ID             uuid.UUID
	EmployeeID     uuid.UUID
	OrganizationID uuid.UUID
	Type           AlertType
	Severity       AlertSeverity
	Description    string

	// Evidence snapshots the mood scores that triggered the alert.
	Evidence []int

	CreatedAt time.Time
}
