package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(buf *bytes.Buffer) []map[string]interface{} {
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func TestContextHandler_AddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	l.InfoContext(WithTraceID(context.Background(), "t-1"), "with trace")
	l.InfoContext(context.Background(), "without trace")

	got := lines(&buf)
	require.Len(t, got, 2)
	assert.Equal(t, "t-1", got[0][TraceIDKey])
	assert.NotContains(t, got[1], TraceIDKey)
}

func TestTeeAndRemoteFilter(t *testing.T) {
	var local, remote bytes.Buffer
	tee := NewTeeHandler(
		log.NewJSONHandler(&local, &log.HandlerOptions{Level: log.LevelDebug}),
		NewRemoteFilterHandler(log.NewJSONHandler(&remote, nil)),
	)
	l := log.New(&ContextHandler{tee})

	l.Info("background info")
	l.InfoContext(WithTraceID(context.Background(), "t-2"), "request info")
	l.Warn("background warn")
	l.Debug("debug only")

	assert.Len(t, lines(&local), 4)
	got := lines(&remote)
	require.Len(t, got, 2)
	assert.Equal(t, "request info", got[0]["msg"])
	assert.Equal(t, "background warn", got[1]["msg"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, log.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, log.LevelError, ParseLevel("error"))
	assert.Equal(t, log.LevelInfo, ParseLevel("verbose"))
}
