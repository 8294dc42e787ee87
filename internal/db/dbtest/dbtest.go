// Package dbtest provides migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/palmithor/scorebrawl/internal/db"
	"github.com/stretchr/testify/require"
)

func New(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")

	return database
}

// NewFile opens a migrated database file in a temporary directory. Unlike the
// in-memory database it allows several connections, so transactions from
// concurrent goroutines really contend for the write lock.
func NewFile(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Connect(filepath.Join(t.TempDir(), "scorebrawl.db"))
	require.NoError(t, err, "Failed to connect to file DB")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")

	return database
}
