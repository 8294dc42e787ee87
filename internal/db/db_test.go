package db

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_UpAndDown(t *testing.T) {
	database, err := Connect(":memory:")
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database.DB))
	// second run is a no-op
	require.NoError(t, RunMigrations(database.DB))

	var count int
	require.NoError(t, database.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'matches'"))
	assert.Equal(t, 1, count)

	require.NoError(t, RollbackMigrations(database.DB, 0))

	require.NoError(t, database.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'matches'"))
	assert.Equal(t, 0, count)
}

func TestForeignKeysEnabled(t *testing.T) {
	database, err := Connect(":memory:")
	require.NoError(t, err)
	defer database.Close()

	var enabled int
	require.NoError(t, database.Get(&enabled, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, enabled)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?"+dsnOptions, DSN(":memory:"))
	assert.Contains(t, DSN("scorebrawl.db"), "file:scorebrawl.db?")
	assert.Contains(t, DSN("scorebrawl.db"), "_txlock=immediate")
}

func TestConnect_LogsThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	database, err := Connect(":memory:")
	require.NoError(t, err)
	defer database.Close()

	assert.Contains(t, buf.String(), `"msg":"database connected"`)
	assert.Contains(t, buf.String(), `"path":":memory:"`)
}
