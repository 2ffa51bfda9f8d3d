// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"church_roster/internal/platform/config"
	"church_roster/internal/platform/database"

	"github.com/stretchr/testify/require"
)

// NewSQLiteDB returns a migrated in-memory SQLite database that is closed
// when the test ends.
func NewSQLiteDB(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db, config.DriverSQLite))
	return db
}

// WaitForCondition polls condition until it holds or timeout expires.
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()
	require.Eventually(t, condition, timeout, 10*time.Millisecond, msg)
}
