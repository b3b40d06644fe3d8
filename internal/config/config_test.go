package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID", "DIGEST_TIME", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.DigestEnabled())
	assert.Equal(t, 10*time.Second, cfg.ShutdownGrace())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
database_url: /var/lib/taskmaster/tasks.db
http_addr: ":9000"
log_level: DEBUG
telegram_token: abc
telegram_chat_id: 12345
digest_time: "07:45"
shutdown_timeout: 3
`)
	t.Setenv("HTTP_ADDR", ":9100")

	cfg, err := load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/taskmaster/tasks.db", cfg.DatabaseURL)
	assert.Equal(t, ":9100", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "07:45", cfg.DigestTime)
	assert.Equal(t, 3*time.Second, cfg.ShutdownGrace())
	assert.True(t, cfg.DigestEnabled())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, ".env", "LOG_FORMAT=json\nDATABASE_URL=dotenv.db\n")

	cfg, err := load("", path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "dotenv.db", cfg.DatabaseURL)

	cfg, err = load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("DIGEST_TIME", "9am")

	_, err := load("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "DIGEST_TIME")

	_, err = load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}
