// Package insight implements the insight repository using PostgreSQL.
package insight

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/staffpulse/backend/internal/adapter/postgres"
	"github.com/staffpulse/backend/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

const insertQuery = `
INSERT INTO insights (id, organization_id, insight_type, title, description,
	severity, origin, department, employee_id, data_points, action_items,
	is_read, is_dismissed, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const setReadQuery = `
UPDATE insights SET is_read = $2 WHERE id = $1`

const setDismissedQuery = `
UPDATE insights SET is_dismissed = TRUE WHERE id = $1`

// Repo provides insight persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new insight repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a new insight.
func (r *Repo) Create(ctx context.Context, ins domain.Insight) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	dataPoints, err := json.Marshal(ins.DataPoints)
	if err != nil {
		return fmt.Errorf("insight marshal data points: %w", err)
	}
	actionItems, err := json.Marshal(ins.ActionItems)
	if err != nil {
		return fmt.Errorf("insight marshal action items: %w", err)
	}

	_, err = q.Exec(ctx, insertQuery,
		ins.ID, ins.OrganizationID, ins.Type, ins.Title, ins.Description,
		ins.Severity, ins.Origin, ins.Department, ins.EmployeeID,
		dataPoints, actionItems, ins.Read, ins.Dismissed, ins.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "insight", ins.ID.String())
	}
	return nil
}

// List returns non-dismissed insights for an organization, newest first.
// The limit defaults to 20 and is capped at 100.
func (r *Repo) List(ctx context.Context, filter domain.InsightFilter) ([]domain.Insight, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	builder := sq.Select(
		"id", "organization_id", "insight_type", "title", "description",
		"severity", "origin", "department", "employee_id", "data_points",
		"action_items", "is_read", "is_dismissed", "created_at",
	).
		From("insights").
		Where(sq.Eq{"organization_id": filter.OrganizationID}).
		Where(sq.Eq{"is_dismissed": false}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	if filter.Department != nil {
		builder = builder.Where(sq.Eq{"department": *filter.Department})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insight list query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	var insights []domain.Insight
	for rows.Next() {
		var (
			ins             domain.Insight
			dataPointsJSON  []byte
			actionItemsJSON []byte
		)
		if err := rows.Scan(
			&ins.ID, &ins.OrganizationID, &ins.Type, &ins.Title, &ins.Description,
			&ins.Severity, &ins.Origin, &ins.Department, &ins.EmployeeID,
			&dataPointsJSON, &actionItemsJSON, &ins.Read, &ins.Dismissed, &ins.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}

		if len(dataPointsJSON) > 0 {
			if err := json.Unmarshal(dataPointsJSON, &ins.DataPoints); err != nil {
				return nil, fmt.Errorf("insight %s unmarshal data points: %w", ins.ID, err)
			}
		}
		if len(actionItemsJSON) > 0 {
			if err := json.Unmarshal(actionItemsJSON, &ins.ActionItems); err != nil {
				return nil, fmt.Errorf("insight %s unmarshal action items: %w", ins.ID, err)
			}
		}

		insights = append(insights, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate insights: %w", err)
	}
	return insights, nil
}

// SetRead updates the read flag. Returns domain.ErrNotFound for an unknown id.
func (r *Repo) SetRead(ctx context.Context, id uuid.UUID, read bool) error {
	return r.update(ctx, setReadQuery, id, read)
}

// SetDismissed marks the insight dismissed. Returns domain.ErrNotFound for
// an unknown id.
func (r *Repo) SetDismissed(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, setDismissedQuery, id)
}

func (r *Repo) update(ctx context.Context, query string, id uuid.UUID, args ...any) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return postgres.MapError(err, "insight", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insight %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
