package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYaml = `
database:
  host: ${CP_TEST_DB_HOST:-db.local}
  port: 5433
server:
  port: "8080"
  write_timeout: 15s
features:
  - redis
  - nats
`

type testConfig struct {
	Database struct {
		Host string `env:"DATABASE_HOST" default:"localhost"`
		Port int    `env:"DATABASE_PORT" default:"5432"`
		User string `env:"DATABASE_USER" default:"tracker"`
	}
	Server struct {
		Port         string        `env:"SERVER_PORT"`
		WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"10s"`
		Debug        bool          `env:"SERVER_DEBUG" default:"false"`
	}
	Features string `env:"FEATURES"`
}

func writeYaml(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		require.NoError(t, os.Unsetenv(k))
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func TestLoadAndParseYaml(t *testing.T) {
	clearEnv(t, "DATABASE_HOST", "DATABASE_PORT", "DATABASE_USER", "SERVER_PORT",
		"SERVER_WRITE_TIMEOUT", "SERVER_DEBUG", "FEATURES", "CP_TEST_DB_HOST")

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(writeYaml(t, sampleYaml), &cfg))

	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "tracker", cfg.Database.User)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.False(t, cfg.Server.Debug)
	assert.Equal(t, "redis,nats", cfg.Features)
}

func TestEnvironmentWins(t *testing.T) {
	clearEnv(t, "DATABASE_HOST", "DATABASE_PORT", "SERVER_PORT", "SERVER_WRITE_TIMEOUT",
		"FEATURES", "CP_TEST_DB_HOST")
	t.Setenv("DATABASE_PORT", "6000")
	t.Setenv("CP_TEST_DB_HOST", "from-env")

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(writeYaml(t, sampleYaml), &cfg))

	assert.Equal(t, 6000, cfg.Database.Port)
	assert.Equal(t, "from-env", cfg.Database.Host)
}

func TestMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t, "DATABASE_HOST", "DATABASE_PORT", "DATABASE_USER", "SERVER_PORT",
		"SERVER_WRITE_TIMEOUT", "SERVER_DEBUG", "FEATURES")

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(filepath.Join(t.TempDir(), "absent.yaml"), &cfg))

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
}

func TestParseEnvErrors(t *testing.T) {
	assert.ErrorIs(t, ParseEnv(testConfig{}), ErrNotStructPointer)

	clearEnv(t, "DATABASE_PORT")
	t.Setenv("DATABASE_PORT", "not-a-number")
	var cfg testConfig
	assert.Error(t, ParseEnv(&cfg))
}

func TestLoadYamlFileNoPath(t *testing.T) {
	assert.ErrorIs(t, LoadYamlFile(""), ErrNoFilePath)
}
