package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visearch/visearch/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestJSONLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")

	l.Info("query saved", "query_id", 7)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "query saved", record["msg"])
	assert.EqualValues(t, 7, record["query_id"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatJSON, "WARN")

	l.Info("should be dropped")
	assert.Empty(t, buf.String())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestTerminalHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatPretty, "DEBUG")

	l.Debug("index loaded", "vectors", 3)

	out := buf.String()
	assert.Contains(t, out, "DBG")
	assert.Contains(t, out, "index loaded")
	assert.Contains(t, out, "vectors=")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestTerminalHandlerQuotesSpacedValues(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatPretty, "INFO")

	l.Info("search", "query", "a brown dog")
	assert.Contains(t, buf.String(), `"a brown dog"`)
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO").With("component", "retriever")

	l.Info("ready")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "retriever", record["component"])
}
