package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newSlog(&buf, SlogConfig{Level: "info", Format: "json"})

	l.Debug("hidden")
	l.Info("shown", "duration_ms", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.EqualValues(t, 3, rec["duration_ms"])
	assert.NotEmpty(t, rec["time"])
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newSlog(&buf, SlogConfig{Level: "debug", Format: "text"})

	l.Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
