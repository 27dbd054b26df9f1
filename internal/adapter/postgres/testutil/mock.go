// Package testutil provides a pgxmock-backed Querier for repository tests,
// so SQL behavior is verified without a live database.
package testutil

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	postgres "github.com/staffpulse/backend/internal/adapter/postgres"
)

// NewMockQuerier returns a mock pool usable wherever a postgres.Querier is
// expected, plus the expectation handle.
func NewMockQuerier(t *testing.T) (postgres.Querier, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("create pgxmock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock, mock
}

// ExpectationsWereMet fails the test when declared expectations were not
// exercised.
func ExpectationsWereMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet mock expectations: %v", err)
	}
}
