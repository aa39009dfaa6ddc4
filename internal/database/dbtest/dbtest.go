// Package dbtest opens throwaway SQLite stores for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paillette/internal/database"
)

// Open returns a migrated SQLite store living in a temporary directory.  It
// is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	dsn := database.SQLiteDSN(filepath.Join(t.TempDir(), "paillette.db"))
	db, err := database.Open(database.SQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.SQLite))
	return db
}

// Count returns SELECT COUNT(*) of table, optionally restricted by where.
func Count(t testing.TB, db *sql.DB, table, where string, args ...any) int {
	t.Helper()
	q := "SELECT COUNT(*) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	var n int
	require.NoError(t, db.QueryRow(q, args...).Scan(&n))
	return n
}
