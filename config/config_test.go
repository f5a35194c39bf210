package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
env:
  env: test
  serviceName: passport
  debug: true
  log:
    pretty: true
    level: debug

http:
  port: 9090
  timeouts:
    readTimeout: 10s
    writeTimeout: 10s

postgres:
  host: db.internal
  port: 5432
  userName: svc
  password: secret
  dbName: passport
  sslMode: require
  timeZone: UTC
  connMaxLifetime: 30m

jwt:
  secret: unit-test-secret
  issuer: passport
  audience: passport-clients
  accessTtlMinutes: 15

auth:
  bcryptCost: 10
`

func writeConfigFile(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	t.Chdir(dir)
}

func TestNew_LoadsYAML(t *testing.T) {
	writeConfigFile(t, sampleConfig)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env.Env)
	assert.True(t, cfg.Env.Debug)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeouts.ReadTimeout)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 30*time.Minute, cfg.Postgres.ConnMaxLifetime)
	assert.Equal(t, "unit-test-secret", cfg.JWT.Secret)
	assert.Equal(t, 15, cfg.JWT.AccessTTLMinutes)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestNew_AppliesDefaults(t *testing.T) {
	writeConfigFile(t, sampleConfig)

	cfg, err := New()
	require.NoError(t, err)

	// Not present in the YAML; must come from defaults.
	assert.Equal(t, defaultRefreshTTLDays, cfg.JWT.RefreshTTLDays)
	assert.Equal(t, defaultSessionRetention, cfg.Auth.SessionRetention)
	assert.Equal(t, defaultCleanupInterval, cfg.Auth.CleanupInterval)
}

func TestNew_EnvOverridesYAML(t *testing.T) {
	writeConfigFile(t, sampleConfig)
	t.Setenv("JWT_SECRET", "from-environment")
	t.Setenv("POSTGRES_SSLMODE", "disable")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "from-environment", cfg.JWT.Secret)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
}

func TestNew_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := New()
	assert.Error(t, err)
}

func TestPostgresConfig_DSN(t *testing.T) {
	t.Parallel()

	cfg := &PostgresConfig{
		Host:     "db.internal",
		Port:     5432,
		UserName: "svc",
		Password: "secret",
		DBName:   "passport",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=passport")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "TimeZone=UTC")
}
