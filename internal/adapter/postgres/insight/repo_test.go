package insight

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

func TestRepo_Create(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)

	dept := "Engineering"
	ins := domain.Insight{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Type:           domain.InsightTypeRiskDetection,
		Title:          "Low Department Mood: Engineering",
		Description:    "averaging 2.2/5",
		Severity:       domain.SeverityWarning,
		Origin:         domain.OriginRule,
		Department:     &dept,
		DataPoints:     map[string]any{"average": 2.2},
		ActionItems:    []string{"Schedule a retrospective"},
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec(`INSERT INTO insights`).
		WithArgs(ins.ID, ins.OrganizationID, ins.Type, ins.Title, ins.Description,
			ins.Severity, ins.Origin, ins.Department, ins.EmployeeID,
			pgxmock.AnyArg(), pgxmock.AnyArg(), ins.Read, ins.Dismissed, ins.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), ins); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_List_DefaultLimitAndDismissedFilter(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)
	orgID := uuid.New()

	rows := pgxmock.NewRows([]string{
		"id", "organization_id", "insight_type", "title", "description",
		"severity", "origin", "department", "employee_id", "data_points",
		"action_items", "is_read", "is_dismissed", "created_at",
	}).AddRow(
		uuid.New(), orgID, domain.InsightTypeTrendAnalysis, "Decline", "desc",
		domain.SeverityWarning, domain.OriginRule, (*string)(nil), (*uuid.UUID)(nil),
		[]byte(`{"decline_amount":0.8}`), []byte(`["Check departments"]`),
		false, false, time.Now().UTC(),
	)

	// squirrel resolves driver.Valuer args when building the query, so the
	// org id reaches the pool as its string form.
	mock.ExpectQuery(`SELECT .* FROM insights WHERE organization_id = \$1 AND is_dismissed = \$2 ORDER BY created_at DESC LIMIT 20`).
		WithArgs(orgID.String(), false).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), domain.InsightFilter{OrganizationID: orgID})
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("insights = %d, want 1", len(got))
	}
	if got[0].DataPoints["decline_amount"] != 0.8 {
		t.Errorf("DataPoints = %v", got[0].DataPoints)
	}
	if len(got[0].ActionItems) != 1 {
		t.Errorf("ActionItems = %v", got[0].ActionItems)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_List_DepartmentFilterAndCap(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)
	orgID := uuid.New()
	dept := "Sales"

	rows := pgxmock.NewRows([]string{
		"id", "organization_id", "insight_type", "title", "description",
		"severity", "origin", "department", "employee_id", "data_points",
		"action_items", "is_read", "is_dismissed", "created_at",
	})

	mock.ExpectQuery(`SELECT .* FROM insights WHERE organization_id = \$1 AND is_dismissed = \$2 AND department = \$3 ORDER BY created_at DESC LIMIT 100`).
		WithArgs(orgID.String(), false, dept).
		WillReturnRows(rows)

	if _, err := repo.List(context.Background(), domain.InsightFilter{
		OrganizationID: orgID,
		Department:     &dept,
		Limit:          5000,
	}); err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_SetRead_NotFound(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE insights SET is_read`).
		WithArgs(id, true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetRead(context.Background(), id, true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SetRead error = %v, want ErrNotFound", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_SetDismissed(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE insights SET is_dismissed`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.SetDismissed(context.Background(), id); err != nil {
		t.Fatalf("SetDismissed: unexpected error: %v", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}
