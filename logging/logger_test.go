package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(buf *bytes.Buffer, level LogLevel) *LeadMeshLogger {
	return NewLogger(&LoggerConfig{
		Level:  level,
		Format: "json",
		Output: buf,
	})
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLeadMeshLogger_KeyValueArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedLogger(&buf, LogLevelDebug)

	logger.Info("orchestrator.session_created", "session_id", "s-123", "user_id", "u-1")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "orchestrator.session_created", entry["msg"])
	assert.Equal(t, "s-123", entry["session_id"])
	assert.Equal(t, "u-1", entry["user_id"])
}

func TestLeadMeshLogger_ContextualAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedLogger(&buf, LogLevelDebug).
		WithComponent("orchestrator").
		WithSession("s-1", "a-1").
		WithContext("deployment", "test")

	logger.Warn("orchestrator.route_dropped", "message_id", "m-1")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "orchestrator", entry["component"])
	assert.Equal(t, "s-1", entry["session_id"])
	assert.Equal(t, "a-1", entry["agent_id"])
	assert.Equal(t, "test", entry["deployment"])
	assert.Equal(t, "m-1", entry["message_id"])
}

func TestLeadMeshLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedLogger(&buf, LogLevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Error("shown", "code", 7)
	entry := decodeEntry(t, &buf)
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, float64(7), entry["code"])
}

func TestLeadMeshLogger_DanglingArg(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedLogger(&buf, LogLevelDebug)

	logger.Info("odd", "key")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "key", entry["!BADKEY"])
}

func TestSlogAdapter_Interface(t *testing.T) {
	var _ Logger = NewDefaultSlogLogger()
	var _ Logger = NoOpLogger{}
	var _ Logger = NewLogger(nil)
}
