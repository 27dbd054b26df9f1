// Package employee implements the employee roster repository using
// PostgreSQL. The roster is managed out of band; this repository only
// reads it.
package employee

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/staffpulse/backend/internal/adapter/postgres"
	"github.com/staffpulse/backend/internal/domain"
)

const employeeColumns = `id, organization_id, name, department, phone, is_active, created_at`

const getByPhoneQuery = `
SELECT ` + employeeColumns + `
FROM employees
WHERE phone = $1`

const getByIDQuery = `
SELECT ` + employeeColumns + `
FROM employees
WHERE id = $1`

const listByIDsQuery = `
SELECT ` + employeeColumns + `
FROM employees
WHERE id = ANY($1)`

const listActiveByOrgQuery = `
SELECT ` + employeeColumns + `
FROM employees
WHERE organization_id = $1
  AND is_active
  AND ($2::text IS NULL OR department = $2)
ORDER BY name`

// Repo provides roster reads backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new employee repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetByPhone resolves an inbound sender to an employee.
func (r *Repo) GetByPhone(ctx context.Context, phone string) (domain.Employee, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var e domain.Employee
	err := q.QueryRow(ctx, getByPhoneQuery, phone).Scan(
		&e.ID, &e.OrganizationID, &e.Name, &e.Department, &e.Phone, &e.Active, &e.CreatedAt,
	)
	if err != nil {
		return domain.Employee{}, postgres.MapError(err, "employee", phone)
	}
	return e, nil
}

// GetByID returns one employee.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Employee, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var e domain.Employee
	err := q.QueryRow(ctx, getByIDQuery, id).Scan(
		&e.ID, &e.OrganizationID, &e.Name, &e.Department, &e.Phone, &e.Active, &e.CreatedAt,
	)
	if err != nil {
		return domain.Employee{}, postgres.MapError(err, "employee", id.String())
	}
	return e, nil
}

// ListByIDs returns the employees matching ids, in database order. Missing
// ids are silently absent from the result.
func (r *Repo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Employee, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByIDsQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("list employees by ids: %w", err)
	}
	defer rows.Close()

	return scanEmployees(rows)
}

// ListActiveByOrg returns the active employees of one organization,
// optionally narrowed to a department.
func (r *Repo) ListActiveByOrg(ctx context.Context, orgID uuid.UUID, department *string) ([]domain.Employee, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listActiveByOrgQuery, orgID, department)
	if err != nil {
		return nil, fmt.Errorf("list active employees: %w", err)
	}
	defer rows.Close()

	return scanEmployees(rows)
}

func scanEmployees(rows pgx.Rows) ([]domain.Employee, error) {
	var employees []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.Name, &e.Department, &e.Phone, &e.Active, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return employees, nil
}
