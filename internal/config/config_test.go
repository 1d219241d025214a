package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfig(t, "server:\n  env: test\n"))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, 1, cfg.Router.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Router.InferTimeout)
	assert.False(t, cfg.Router.StrictProviders)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfig(t, `
server:
  port: "9090"
store:
  driver: sqlite
  dsn: /tmp/test.db
router:
  strict_providers: true
  max_attempts: 3
  infer_timeout: 5s
`))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.Store.DSN)
	assert.True(t, cfg.Router.StrictProviders)
	assert.Equal(t, 3, cfg.Router.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Router.InferTimeout)
}

func TestLoadConfig_BackendAPIKeyIndirection(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfig(t, `
backends:
  - id: primary
    type: openai
    model: gpt-test
    api_key: "ENV:TEST_ARBITER_KEY"
    enabled: true
  - id: literal
    type: openai
    model: gpt-other
    api_key: "sk-literal"
    enabled: true
`))
	t.Setenv("TEST_ARBITER_KEY", "sk-from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Len(t, cfg.Backends, 2)
	assert.Equal(t, "sk-from-env", cfg.Backends[0].APIKey)
	assert.Equal(t, "sk-literal", cfg.Backends[1].APIKey)
}

func TestLoadConfig_MissingEnvKeyResolvesEmpty(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfig(t, `
backends:
  - id: primary
    type: openai
    model: gpt-test
    api_key: "ENV:DOES_NOT_EXIST_ARBITER"
`))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Backends, 1)
	assert.Empty(t, cfg.Backends[0].APIKey)
}
