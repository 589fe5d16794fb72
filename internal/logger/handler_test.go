package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlain(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(NewPrettyHandler(buf, &Options{HandlerOptions: slog.HandlerOptions{Level: level}, NoColor: true}))
}

func TestPrettyHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	log := newPlain(&buf, slog.LevelInfo)

	log.Info("request completed", "request_id", "abc-123", "method", "GET", "path", "/api/v1/societies", "duration", 1500*time.Millisecond)

	line := strings.TrimSpace(buf.String())
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}\.\d{3} INFO  request completed \[abc-123\] method=GET path=/api/v1/societies duration=1.5s$`, line)
	assert.NotContains(t, line, "\033[")
}

func TestPrettyHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := newPlain(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN  shown")
}

func TestPrettyHandlerGroupsAndQuoting(t *testing.T) {
	var buf bytes.Buffer
	log := newPlain(&buf, slog.LevelDebug).With("component", "billing").WithGroup("bill")

	log.Debug("bill paid", "id", "b1", slog.Group("payment", "method", "bank transfer"), "note", "")

	line := buf.String()
	assert.Contains(t, line, " component=billing")
	assert.Contains(t, line, " bill.id=b1")
	assert.Contains(t, line, ` bill.payment.method="bank transfer"`)
	assert.Contains(t, line, ` bill.note=""`)
	assert.NotContains(t, line, "bill.component")
}

func TestPrettyHandlerAttrsInsideGroup(t *testing.T) {
	var buf bytes.Buffer
	log := newPlain(&buf, slog.LevelInfo).WithGroup("db").With("pool", "main")

	log.Info("connected", "conns", 4)

	line := buf.String()
	assert.Contains(t, line, " db.pool=main")
	assert.Contains(t, line, " db.conns=4")
	assert.NotContains(t, line, "db.db.")
}

func TestPrettyHandlerColor(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))

	log.Error("boom")

	assert.Contains(t, buf.String(), red+"ERROR"+reset)
}

func TestNewSelectsFormat(t *testing.T) {
	var buf bytes.Buffer
	h := New(&buf, "json", slog.LevelInfo, false)
	_, isJSON := h.(*slog.JSONHandler)
	require.True(t, isJSON)

	require.NoError(t, h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)))
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	_, isPretty := New(&buf, "pretty", slog.LevelInfo, true).(*PrettyHandler)
	assert.True(t, isPretty)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
