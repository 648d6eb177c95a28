package database_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visearch/visearch/internal/config"
	"github.com/visearch/visearch/internal/database"
	"github.com/visearch/visearch/internal/log"
	"github.com/visearch/visearch/internal/testdb"
)

func testLogger() *log.Logger {
	return log.NewLoggerWithWriter(io.Discard, config.LogFormatJSON, "ERROR")
}

func TestNewDatabaseSQLiteFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := database.NewDatabase(ctx, "sqlite:///"+path, testLogger())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.FileExists(t, path)
}

func TestNewDatabaseUnsupportedDriver(t *testing.T) {
	_, err := database.NewDatabase(context.Background(), "mysql://root@localhost/db", testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}

func TestSessionExecutesSQL(t *testing.T) {
	ctx := context.Background()
	db := testdb.WithSchema(t,
		"CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)",
	)

	require.NoError(t, db.Session(ctx).Exec("INSERT INTO items (name) VALUES (?)", "widget").Error)

	var count int64
	require.NoError(t, db.Session(ctx).Raw("SELECT COUNT(*) FROM items").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

