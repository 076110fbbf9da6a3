package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fintrack-go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := FromViper(newViper())

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "local", cfg.Understanding.Provider)
	assert.Equal(t, 20*time.Second, cfg.Understanding.Timeout)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, "IDR", cfg.Defaults.Currency)
	assert.Equal(t, "id", cfg.Defaults.Language)
	assert.Equal(t, "Asia/Jakarta", cfg.Defaults.Timezone)
	assert.True(t, cfg.Defaults.AutoCategorize)
}

func TestEnvOverridesNestedKeys(t *testing.T) {
	t.Setenv("FINTRACK_DB_HOST", "db.internal")
	t.Setenv("FINTRACK_UNDERSTANDING_PROVIDER", "Gemini")
	t.Setenv("FINTRACK_UNDERSTANDING_TIMEOUT", "5s")
	t.Setenv("FINTRACK_DEFAULTS_CURRENCY", "usd")
	t.Setenv("FINTRACK_DEFAULTS_AUTO_CATEGORIZE", "false")

	cfg := FromViper(newViper())
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "gemini", cfg.Understanding.Provider)
	assert.Equal(t, 5*time.Second, cfg.Understanding.Timeout)
	assert.Equal(t, "USD", cfg.Defaults.Currency)
	assert.False(t, cfg.Defaults.AutoCategorize)
}

func TestDotEnvDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("FINTRACK_STORE=memory\nFINTRACK_HTTP_PORT=9000\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("FINTRACK_HTTP_PORT", "7000")
	t.Setenv("FINTRACK_STORE", "")
	require.NoError(t, os.Unsetenv("FINTRACK_STORE"))

	cfg, err := Load(logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Unsetenv("FINTRACK_STORE") })

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "7000", cfg.HTTPPort)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "postgres://x", DBConfig{DSN: "postgres://x"}.GetDSN())
	assert.Contains(t, DBConfig{Host: "h", Port: "1", Name: "n"}.GetDSN(), "host=h")
}

func TestLoadFileEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"store: memory\nhttp:\n  port: \"9100\"\ndefaults:\n  language: en\n"), 0o600))
	t.Setenv("FINTRACK_HTTP_PORT", "9200")

	cfg, err := LoadFile(logger.Nop(), path)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "9200", cfg.HTTPPort)
	assert.Equal(t, "en", cfg.Defaults.Language)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(logger.Nop(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
