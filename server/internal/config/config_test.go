package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the config reads; envconfig treats an empty
// but set variable as a value.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ENVIRONMENT", "HTTP_PORT", "DB_DRIVER", "SQLITE_PATH", "POSTGRES_DSN",
		"API_TOKENS", "DEV_MODE", "BOOTSTRAP_TIMEOUT", "SHUTDOWN_TIMEOUT",
	} {
		name := "IDENTITY_SERVICE_" + k
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}
}

func TestConfigLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("IDENTITY_SERVICE_DEV_MODE", "true")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.NotEmpty(t, cfg.SQLitePath)
	assert.Equal(t, 30*time.Second, cfg.BootstrapTimeout)
	assert.Equal(t, ":8000", cfg.GetHTTPAddr())
}

func TestConfigLoad_TokensTrimmed(t *testing.T) {
	clearEnv(t)
	t.Setenv("IDENTITY_SERVICE_API_TOKENS", "alpha, beta ,,")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.APITokens)
}

func TestConfigLoad_RequiresTokensOutsideDevMode(t *testing.T) {
	clearEnv(t)
	_, err := New()
	require.Error(t, err)
}

func TestConfigLoad_PostgresNeedsDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("IDENTITY_SERVICE_DEV_MODE", "true")
	t.Setenv("IDENTITY_SERVICE_DB_DRIVER", "postgres")
	_, err := New()
	require.Error(t, err)

	t.Setenv("IDENTITY_SERVICE_POSTGRES_DSN", "postgres://localhost/identities")
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
}

func TestConfigLoad_RejectsUnknownDriverAndProdDevMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("IDENTITY_SERVICE_DEV_MODE", "true")
	t.Setenv("IDENTITY_SERVICE_DB_DRIVER", "spanner")
	_, err := New()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("IDENTITY_SERVICE_DEV_MODE", "true")
	t.Setenv("IDENTITY_SERVICE_ENVIRONMENT", "production")
	_, err = New()
	require.Error(t, err)
}
