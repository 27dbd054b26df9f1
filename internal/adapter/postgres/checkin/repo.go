// Package checkin implements the check-in repository using PostgreSQL.
// Check-ins are append-only; the unique (organization_id,
// provider_message_id) index makes ingestion idempotent under carrier
// retries.
package checkin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	postgres "github.com/staffpulse/backend/internal/adapter/postgres"
	"github.com/staffpulse/backend/internal/domain"
	"github.com/staffpulse/backend/internal/service/aggregate"
	"github.com/staffpulse/backend/internal/service/detector"
	"github.com/staffpulse/backend/internal/service/synthesizer"
)

const insertQuery = `
INSERT INTO check_ins (id, employee_id, organization_id, mood_score, body,
	sentiment_score, sentiment_label, channel, provider_message_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (organization_id, provider_message_id) WHERE provider_message_id <> ''
DO NOTHING`

const windowSamplesQuery = `
SELECT mood_score, created_at
FROM check_ins
WHERE organization_id = $1 AND created_at >= $2 AND mood_score IS NOT NULL
ORDER BY created_at DESC`

const departmentStatsQuery = `
SELECT e.department, COUNT(*), AVG(c.mood_score)::float8
FROM check_ins c
JOIN employees e ON e.id = c.employee_id
WHERE c.organization_id = $1 AND c.created_at >= $2 AND c.mood_score IS NOT NULL
GROUP BY e.department`

const recentScoresByOrgQuery = `
SELECT mood_score
FROM check_ins
WHERE organization_id = $1 AND mood_score IS NOT NULL
ORDER BY created_at DESC
LIMIT $2`

const recentScoresByEmployeeQuery = `
SELECT mood_score
FROM check_ins
WHERE employee_id = $1 AND mood_score IS NOT NULL
ORDER BY created_at DESC
LIMIT $2`

const scoresByEmployeeSinceQuery = `
SELECT mood_score
FROM check_ins
WHERE employee_id = $1 AND created_at >= $2 AND mood_score IS NOT NULL
ORDER BY created_at DESC`

const digestRowsQuery = `
SELECT c.mood_score, e.department, c.created_at
FROM check_ins c
JOIN employees e ON e.id = c.employee_id
WHERE c.organization_id = $1 AND c.created_at >= $2
ORDER BY c.created_at DESC`

// Repo provides check-in persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new check-in repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a check-in. It reports duplicate=true when a check-in
// with the same organization and provider message id already exists; the
// new row is then discarded.
func (r *Repo) Create(ctx context.Context, c domain.CheckIn) (duplicate bool, err error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, insertQuery,
		c.ID, c.EmployeeID, c.OrganizationID, c.MoodScore, c.Body,
		c.SentimentScore, c.SentimentLabel, c.Channel, c.ProviderMessageID, c.CreatedAt,
	)
	if err != nil {
		return false, postgres.MapError(err, "check_in", c.ID.String())
	}

	return tag.RowsAffected() == 0, nil
}

// WindowSamples returns the scored check-ins since the given time, newest
// first, as aggregation samples.
func (r *Repo) WindowSamples(ctx context.Context, orgID uuid.UUID, since time.Time) ([]aggregate.Sample, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, windowSamplesQuery, orgID, since)
	if err != nil {
		return nil, fmt.Errorf("query window samples: %w", err)
	}
	defer rows.Close()

	var samples []aggregate.Sample
	for rows.Next() {
		var s aggregate.Sample
		if err := rows.Scan(&s.Score, &s.At); err != nil {
			return nil, fmt.Errorf("scan window sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate window samples: %w", err)
	}
	return samples, nil
}

// DepartmentStats returns per-department counts and averages over scored
// check-ins since the given time.
func (r *Repo) DepartmentStats(ctx context.Context, orgID uuid.UUID, since time.Time) ([]detector.DepartmentStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, departmentStatsQuery, orgID, since)
	if err != nil {
		return nil, fmt.Errorf("query department stats: %w", err)
	}
	defer rows.Close()

	var stats []detector.DepartmentStats
	for rows.Next() {
		var s detector.DepartmentStats
		if err := rows.Scan(&s.Department, &s.Count, &s.Average); err != nil {
			return nil, fmt.Errorf("scan department stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department stats: %w", err)
	}
	return stats, nil
}

// RecentScoresByOrg returns the organization's most recent scores, newest
// first.
func (r *Repo) RecentScoresByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]int, error) {
	return r.scores(ctx, recentScoresByOrgQuery, orgID, limit)
}

// RecentScoresByEmployee returns the employee's most recent scores, newest
// first.
func (r *Repo) RecentScoresByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]int, error) {
	return r.scores(ctx, recentScoresByEmployeeQuery, employeeID, limit)
}

// ScoresByEmployeeSince returns the employee's scores since the given
// time, newest first.
func (r *Repo) ScoresByEmployeeSince(ctx context.Context, employeeID uuid.UUID, since time.Time) ([]int, error) {
	return r.scores(ctx, scoresByEmployeeSinceQuery, employeeID, since)
}

func (r *Repo) scores(ctx context.Context, query string, args ...any) ([]int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var scores []int
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return scores, nil
}

// DigestRows returns the check-ins since the given time shaped for the
// model digest, newest first. Unscored check-ins are included; the digest
// carries them with a null score.
func (r *Repo) DigestRows(ctx context.Context, orgID uuid.UUID, since time.Time) ([]synthesizer.CheckInDigest, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, digestRowsQuery, orgID, since)
	if err != nil {
		return nil, fmt.Errorf("query digest rows: %w", err)
	}
	defer rows.Close()

	var digests []synthesizer.CheckInDigest
	for rows.Next() {
		var (
			d  synthesizer.CheckInDigest
			at time.Time
		)
		if err := rows.Scan(&d.Score, &d.Department, &at); err != nil {
			return nil, fmt.Errorf("scan digest row: %w", err)
		}
		d.Date = at.UTC().Format("2006-01-02")
		digests = append(digests, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate digest rows: %w", err)
	}
	return digests, nil
}
