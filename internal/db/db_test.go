package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/snnyvrz/book-catalog/internal/config"
	"github.com/snnyvrz/book-catalog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig(driver, path string) *config.Config {
	return &config.Config{
		GinMode: "test",
		TZ:      "UTC",
		DB: config.DBConfig{
			Driver:          driver,
			Path:            path,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Minute,
			ConnectAttempts: 2,
			ConnectDelay:    time.Millisecond,
			BoltTimeout:     time.Second,
		},
	}
}

func exerciseStore(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	book := model.Book{Title: "Dune", Author: "Frank Herbert"}
	require.NoError(t, store.Create(ctx, &book))
	assert.NotZero(t, book.ID)

	got, err := store.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := testConfig(config.DriverSQLite, filepath.Join(t.TempDir(), "books.sqlite"))

	store, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)
}

func TestOpen_Bolt(t *testing.T) {
	cfg := testConfig(config.DriverBolt, filepath.Join(t.TempDir(), "books.db"))

	store, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)
}

func TestMigrate_ClosesPoolOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readonly.sqlite")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	cfg := testConfig(config.DriverSQLite, "file:"+path+"?mode=ro")
	ctx := context.Background()

	gdb, err := ConnectWithRetry(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = migrate(ctx, gdb)
	require.ErrorContains(t, err, "migrate books")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	assert.ErrorContains(t, sqlDB.Ping(), "database is closed")

	_, err = Open(ctx, cfg, zap.NewNop())
	assert.ErrorContains(t, err, "migrate books")
}

func TestConnectWithRetry_GivesUp(t *testing.T) {
	cfg := testConfig(config.DriverSQLite, filepath.Join(t.TempDir(), "missing", "dir", "books.sqlite"))

	core, logs := observer.New(zap.WarnLevel)

	_, err := ConnectWithRetry(context.Background(), cfg, zap.New(core))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, logs.FilterMessage("db not ready").Len())
}

func TestConnectWithRetry_StopsOnCancel(t *testing.T) {
	cfg := testConfig(config.DriverSQLite, filepath.Join(t.TempDir(), "missing", "books.sqlite"))
	cfg.DB.ConnectAttempts = 5
	cfg.DB.ConnectDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ConnectWithRetry(ctx, cfg, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConnectWithRetry_UnsupportedDriver(t *testing.T) {
	cfg := testConfig("oracle", "")

	_, err := ConnectWithRetry(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported sql driver")
}
