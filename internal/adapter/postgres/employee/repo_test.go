package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/staffpulse/backend/internal/adapter/postgres/testutil"
	"github.com/staffpulse/backend/internal/domain"
)

var employeeColumnNames = []string{
	"id", "organization_id", "name", "department", "phone", "is_active", "created_at",
}

func TestRepo_GetByPhone(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)

	id := uuid.New()
	orgID := uuid.New()
	rows := pgxmock.NewRows(employeeColumnNames).
		AddRow(id, orgID, "Ada", "Engineering", "+15551234567", true, time.Now().UTC())

	mock.ExpectQuery(`SELECT .* FROM employees\s+WHERE phone = \$1`).
		WithArgs("+15551234567").
		WillReturnRows(rows)

	got, err := repo.GetByPhone(context.Background(), "+15551234567")
	if err != nil {
		t.Fatalf("GetByPhone: unexpected error: %v", err)
	}
	if got.ID != id || got.OrganizationID != orgID || !got.Active {
		t.Errorf("employee = %+v", got)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_GetByPhone_NotFound(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)

	mock.ExpectQuery(`SELECT .* FROM employees\s+WHERE phone = \$1`).
		WithArgs("+15550000000").
		WillReturnRows(pgxmock.NewRows(employeeColumnNames))

	_, err := repo.GetByPhone(context.Background(), "+15550000000")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByPhone error = %v, want ErrNotFound", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_ListActiveByOrg_DepartmentFilter(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)
	orgID := uuid.New()
	dept := "Sales"

	rows := pgxmock.NewRows(employeeColumnNames).
		AddRow(uuid.New(), orgID, "Grace", "Sales", "+15550001111", true, time.Now().UTC())

	mock.ExpectQuery(`SELECT .* FROM employees\s+WHERE organization_id = \$1`).
		WithArgs(orgID, &dept).
		WillReturnRows(rows)

	got, err := repo.ListActiveByOrg(context.Background(), orgID, &dept)
	if err != nil {
		t.Fatalf("ListActiveByOrg: unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Department != "Sales" {
		t.Errorf("employees = %+v", got)
	}

	testutil.ExpectationsWereMet(t, mock)
}
