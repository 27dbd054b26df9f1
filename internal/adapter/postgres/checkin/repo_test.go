package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/staffpulse/backend/internal/adapter/postgres/testutil"
	"github.com/staffpulse/backend/internal/domain"
)

func buildCheckIn() domain.CheckIn {
	score := 3
	return domain.CheckIn{
		ID:                uuid.New(),
		EmployeeID:        uuid.New(),
		OrganizationID:    uuid.New(),
		MoodScore:         &score,
		Body:              "3 doing okay",
		SentimentScore:    0,
		SentimentLabel:    domain.SentimentNeutral,
		Channel:           domain.ChannelWhatsApp,
		ProviderMessageID: "SM123",
		CreatedAt:         time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRepo_Create_NewRow(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)
	input := buildCheckIn()

	mock.ExpectExec(`INSERT INTO check_ins`).
		WithArgs(input.ID, input.EmployeeID, input.OrganizationID, input.MoodScore,
			input.Body, input.SentimentScore, input.SentimentLabel, input.Channel,
			input.ProviderMessageID, input.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	duplicate, err := repo.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if duplicate {
		t.Error("duplicate = true for a fresh row, want false")
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_Create_DuplicateProviderMessage(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)
	input := buildCheckIn()

	// ON CONFLICT DO NOTHING: zero rows affected signals the duplicate.
	mock.ExpectExec(`INSERT INTO check_ins`).
		WithArgs(input.ID, input.EmployeeID, input.OrganizationID, input.MoodScore,
			input.Body, input.SentimentScore, input.SentimentLabel, input.Channel,
			input.ProviderMessageID, input.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	duplicate, err := repo.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if !duplicate {
		t.Error("duplicate = false for a replayed provider message, want true")
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_RecentScoresByEmployee(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)
	employeeID := uuid.New()

	rows := pgxmock.NewRows([]string{"mood_score"}).AddRow(2).AddRow(4).AddRow(5)
	mock.ExpectQuery(`SELECT mood_score\s+FROM check_ins\s+WHERE employee_id`).
		WithArgs(employeeID, 10).
		WillReturnRows(rows)

	scores, err := repo.RecentScoresByEmployee(context.Background(), employeeID, 10)
	if err != nil {
		t.Fatalf("RecentScoresByEmployee: unexpected error: %v", err)
	}
	if len(scores) != 3 || scores[0] != 2 || scores[2] != 5 {
		t.Errorf("scores = %v, want [2 4 5] newest first", scores)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_WindowSamples(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)
	orgID := uuid.New()
	since := time.Now().UTC().AddDate(0, 0, -7)
	at := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"mood_score", "created_at"}).
		AddRow(4, at).
		AddRow(2, at.Add(-time.Hour))
	mock.ExpectQuery(`SELECT mood_score, created_at\s+FROM check_ins`).
		WithArgs(orgID, since).
		WillReturnRows(rows)

	samples, err := repo.WindowSamples(context.Background(), orgID, since)
	if err != nil {
		t.Fatalf("WindowSamples: unexpected error: %v", err)
	}
	if len(samples) != 2 || samples[0].Score != 4 || !samples[0].At.Equal(at) {
		t.Errorf("samples = %+v", samples)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_DigestRows_FormatsDate(t *testing.T) {
	t.Parallel()
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)
	orgID := uuid.New()
	since := time.Now().UTC().AddDate(0, 0, -7)
	at := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	score := 4
	rows := pgxmock.NewRows([]string{"mood_score", "department", "created_at"}).
		AddRow(&score, "Engineering", at).
		AddRow((*int)(nil), "Sales", at)
	mock.ExpectQuery(`SELECT c.mood_score, e.department, c.created_at`).
		WithArgs(orgID, since).
		WillReturnRows(rows)

	digests, err := repo.DigestRows(context.Background(), orgID, since)
	if err != nil {
		t.Fatalf("DigestRows: unexpected error: %v", err)
	}
	if len(digests) != 2 {
		t.Fatalf("digests = %d, want 2", len(digests))
	}
	if digests[0].Date != "2026-03-15" {
		t.Errorf("Date = %q, want 2026-03-15", digests[0].Date)
	}
	if digests[1].Score != nil {
		t.Errorf("unscored digest row Score = %v, want nil", digests[1].Score)
	}

	testutil.ExpectationsWereMet(t, mock)
}
