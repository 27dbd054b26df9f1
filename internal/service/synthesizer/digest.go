// Package synthesizer turns a bounded organization digest into Insights
// via an external language-model call. The model's output cannot be
// trusted to be well-formed, so everything coming back passes through a
// defensive extraction pipeline; synthesis failure is always downgraded
// to an empty result plus a warning, never an error to the caller.
package synthesizer

import (
	"github.com/google/uuid"

	"github.com/staffpulse/backend/internal/domain"
)

// maxDigestCheckIns bounds how much history is sent to the model.
const maxDigestCheckIns = 50

// Digest is the size-bounded summary of organizational data prepared for
// the model call: the roster abbreviated to name+department, and at most
// the 50 most recent check-ins reduced to score/department/date.
type Digest struct {
	OrganizationID uuid.UUID       `json:"-"`
	Employees      []RosterEntry   `json:"employees"`
	CheckIns       []CheckInDigest `json:"recent_check_ins"`
}

// RosterEntry is one employee, abbreviated.
type RosterEntry struct {
	Name       string `json:"name"`
	Department string `json:"department"`
}

// CheckInDigest is one check-in, reduced.
type CheckInDigest struct {
	Score      *int   `json:"score"`
	Department string `json:"department"`
	Date       string `json:"date"` // YYYY-MM-DD
}

// BuildDigest assembles a Digest, truncating check-ins (assumed newest
// first) to the digest bound.
func BuildDigest(orgID uuid.UUID, employees []domain.Employee, checkIns []CheckInDigest) Digest {
	roster := make([]RosterEntry, len(employees))
	for i, e := range employees {
		roster[i] = RosterEntry{Name: e.Name, Department: e.Department}
	}

	if len(checkIns) > maxDigestCheckIns {
		checkIns = checkIns[:maxDigestCheckIns]
	}

	return Digest{
		OrganizationID: orgID,
		Employees:      roster,
		CheckIns:       checkIns,
	}
}
