// Package alert implements the burnout alert repository using PostgreSQL.
// Alerts are append-only.
package alert

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	postgres "github.com/staffpulse/backend/internal/adapter/postgres"
	"github.com/staffpulse/backend/internal/domain"
)

const insertQuery = `
INSERT INTO alerts (id, employee_id, organization_id, alert_type, severity,
	description, evidence, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const listByOrgQuery = `
SELECT id, employee_id, organization_id, alert_type, severity, description,
	evidence, created_at
FROM alerts
WHERE organization_id = $1
ORDER BY created_at DESC
LIMIT $2`

// Repo provides alert persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new alert repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a new alert.
func (r *Repo) Create(ctx context.Context, alert domain.Alert) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	_, err := q.Exec(ctx, insertQuery,
		alert.ID, alert.EmployeeID, alert.OrganizationID, alert.Type,
		alert.Severity, alert.Description, alert.Evidence, alert.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "alert", alert.ID.String())
	}
	return nil
}

// ListByOrg returns the organization's alerts, newest first.
func (r *Repo) ListByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]domain.Alert, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByOrgQuery, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.OrganizationID, &a.Type, &a.Severity,
			&a.Description, &a.Evidence, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return alerts, nil
}
