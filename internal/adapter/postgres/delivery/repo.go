// Package delivery implements the outbound delivery log repository using
// PostgreSQL. The log is append-only and also records inbound messages
// from unregistered senders, which carry no employee or organization.
package delivery

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	postgres "github.com/staffpulse/backend/internal/adapter/postgres"
	"github.com/staffpulse/backend/internal/domain"
)

const insertQuery = `
INSERT INTO delivery_logs (id, employee_id, organization_id, recipient,
	provider_message_id, status, error_reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const listByOrgQuery = `
SELECT id, employee_id, organization_id, recipient, provider_message_id,
	status, error_reason, created_at
FROM delivery_logs
WHERE organization_id = $1
ORDER BY created_at DESC
LIMIT $2`

// Repo provides delivery log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new delivery log repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create appends one delivery record.
func (r *Repo) Create(ctx context.Context, record domain.DeliveryRecord) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	_, err := q.Exec(ctx, insertQuery,
		record.ID, record.EmployeeID, record.OrganizationID, record.Recipient,
		record.ProviderMessageID, record.Status, record.ErrorReason, record.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "delivery_log", record.ID.String())
	}
	return nil
}

// ListByOrg returns the organization's delivery records, newest first.
func (r *Repo) ListByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]domain.DeliveryRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByOrgQuery, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("list delivery logs: %w", err)
	}
	defer rows.Close()

	var records []domain.DeliveryRecord
	for rows.Next() {
		var rec domain.DeliveryRecord
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.OrganizationID, &rec.Recipient,
			&rec.ProviderMessageID, &rec.Status, &rec.ErrorReason, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan delivery log: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate delivery logs: %w", err)
	}
	return records, nil
}
