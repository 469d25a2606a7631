package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogrusLogger(t *testing.T) (*LogrusLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewLogrusLogger(NewLogrus(&buf, "text", "debug")), &buf
}

func TestLogrusLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogrusLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=debug", "msg=dbg", "a=1",
		"level=info", "msg=inf", "b=2",
		"level=warning", "msg=wrn", "c=3",
		"level=error", "msg=err", "d=4",
	} {
		assert.Contains(t, out, want)
	}
}

func TestLogrusLogger_With_AddsFields(t *testing.T) {
	log, buf := newTestLogrusLogger(t)

	log.With("module", "accounts").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "module=accounts")
	assert.Contains(t, out, "k=v")
}

func TestToFields_DanglingValue(t *testing.T) {
	f := toFields([]any{"a", 1, 42, "x", "tail"})
	assert.Equal(t, 1, f["a"])
	assert.Equal(t, "x", f["42"])
	assert.Equal(t, "tail", f["!BADKEY"])
}

func TestNew_SelectsBackend(t *testing.T) {
	var buf bytes.Buffer

	l := New(&buf, BackendSlog, "text", "info")
	_, ok := l.(*SlogLogger)
	require.True(t, ok)
	l.Debug(context.Background(), "hidden")
	l.Info(context.Background(), "shown")
	assert.False(t, strings.Contains(buf.String(), "hidden"))
	assert.Contains(t, buf.String(), "msg=shown")

	buf.Reset()
	l = New(&buf, BackendLogrus, "json", "warn")
	_, ok = l.(*LogrusLogger)
	require.True(t, ok)
	l.Info(context.Background(), "hidden")
	l.Warn(context.Background(), "shown")
	assert.False(t, strings.Contains(buf.String(), "hidden"))
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
