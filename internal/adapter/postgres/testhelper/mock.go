// Package testhelper provides shared helpers for repository unit tests.
package testhelper

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/momsflavor/backend/internal/adapter/postgres"
)

// NewMockQuerier returns a pgxmock pool usable wherever a postgres.Querier is
// expected, plus the mock handle for setting expectations.
func NewMockQuerier(t *testing.T) (postgres.Querier, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("create pgxmock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock, mock
}

// ExpectationsWereMet fails the test if any configured expectation was not hit.
func ExpectationsWereMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet mock expectations: %v", err)
	}
}
