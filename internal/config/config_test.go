package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GIN_MODE", "test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, 10, cfg.DB.ConnectAttempts)
	assert.Equal(t, 2*time.Second, cfg.DB.ConnectDelay)
	assert.True(t, cfg.DuplicateCheckEnabled())
	assert.True(t, cfg.RateLimitEnabled())
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
}

func TestLoad_ReleaseModeIsProduction(t *testing.T) {
	t.Setenv("GIN_MODE", "release")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.AppEnv)
	assert.True(t, cfg.AppEnv.IsProduction())
	assert.Equal(t, "require", cfg.DB.SSLMode)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("APP_ENV", "testing")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_USER", "books")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DUPLICATE_CHECK", "false")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvTesting, cfg.AppEnv)
	assert.False(t, cfg.AppEnv.IsProduction())
	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.False(t, cfg.DuplicateCheckEnabled())
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "books:secret@tcp(localhost:3306)/books?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
app_env: testing
db:
  driver: bolt
  path: /tmp/catalog.db
rate_limit:
  enabled: false
  burst: 7
server:
  addr: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("GIN_MODE", "test")
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDR", ":7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvTesting, cfg.AppEnv)
	assert.Equal(t, DriverBolt, cfg.DB.Driver)
	assert.Equal(t, "/tmp/catalog.db", cfg.DB.Path)
	assert.Equal(t, "/tmp/catalog.db", cfg.DSN())
	assert.False(t, cfg.RateLimitEnabled())
	assert.Equal(t, 7, cfg.RateLimit.Burst)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown environment", key: "APP_ENV", val: "staging"},
		{name: "unknown driver", key: "DB_DRIVER", val: "oracle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GIN_MODE", "test")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDSN_Postgres(t *testing.T) {
	cfg := &Config{TZ: "UTC", DB: DBConfig{
		Driver:  DriverPostgres,
		Host:    "db",
		Port:    "5432",
		User:    "postgres",
		Pass:    "pw",
		Name:    "books",
		SSLMode: "disable",
	}}

	assert.Equal(t,
		"host=db user=postgres password=pw dbname=books port=5432 sslmode=disable TimeZone=UTC",
		cfg.DSN(),
	)
}
