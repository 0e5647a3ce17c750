package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thethird/src/infra/config"
)

func TestPlainHandlerWritesAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "info", Format: "plain"}, &buf)

	WithComponent(log, "results").Info("session ranked", "session_id", "s-1", "votes", 3)

	line := buf.String()
	assert.Contains(t, line, "INFO session ranked")
	assert.Contains(t, line, "component=results")
	assert.Contains(t, line, "session_id=s-1")
	assert.Contains(t, line, "votes=3")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestPlainHandlerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "warn", Format: "plain"}, &buf)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN shown")
}

func TestPlainHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Format: "plain"}, &buf)

	log.WithGroup("http").Info("request", "status", 200)
	assert.Contains(t, buf.String(), "http.status=200")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	WithRequestID(log, "req-1").Debug("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "req-1", record["request_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
