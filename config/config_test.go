package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("LM_TEST_KEY", "sk-secret")

	cfg, err := Parse([]byte(`
nlp:
  provider: openai
  api_key: ${LM_TEST_KEY}
sessions:
  backend: redis
  ttl: 1h
  redis:
    addr: ${LM_TEST_REDIS:-localhost:6379}
agents:
  - type: support
    name: Support
`))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.NLP.Provider)
	assert.Equal(t, "sk-secret", cfg.NLP.APIKey)
	assert.Equal(t, "redis", cfg.Sessions.Backend)
	assert.Equal(t, time.Hour, cfg.Sessions.TTL.Std())
	assert.Equal(t, "localhost:6379", cfg.Sessions.Redis.Addr, "unset var falls back to default")

	// Unset sections pick up defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	require.Len(t, cfg.Agents, 1)
	assert.Equal(t, "support", cfg.Agents[0].Type)
}

func TestParse_RejectsUnknownProvider(t *testing.T) {
	_, err := Parse([]byte("nlp:\n  provider: magic\n"))
	assert.ErrorContains(t, err, "unknown provider")
}

func TestParse_RejectsAgentWithoutType(t *testing.T) {
	_, err := Parse([]byte("agents:\n  - name: Anonymous\n"))
	assert.ErrorContains(t, err, "type is required")
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "keyword", cfg.NLP.Provider)
	assert.Equal(t, "memory", cfg.Sessions.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL.Std())
}

func TestExpandEnvVars_Forms(t *testing.T) {
	t.Setenv("LM_TEST_VALUE", "42")

	assert.Equal(t, "42", expandEnvVars("$LM_TEST_VALUE"))
	assert.Equal(t, "42", expandEnvVars("${LM_TEST_VALUE}"))
	assert.Equal(t, "42", expandEnvVars("${LM_TEST_VALUE:-7}"))
	assert.Equal(t, "7", expandEnvVars("${LM_TEST_UNSET:-7}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}
