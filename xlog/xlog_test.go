package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/lib/infra"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	entries := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
}

func TestParseLogLevelAndEncoder(t *testing.T) {
	require.Equal(t, LogLevelInfo, ParseLogLevel(" info "))
	require.Equal(t, LogLevelWarn, ParseLogLevel("WARN"))
	require.Equal(t, LogLevelError, ParseLogLevel("error"))
	require.Equal(t, LogLevelDebug, ParseLogLevel(""))
	require.Equal(t, LogLevelDebug, ParseLogLevel("verbose"))
	require.Equal(t, zapcore.DebugLevel, getLogLevelOrDefault(""))

	require.Equal(t, PlainText, ParseLogEncoder("text"))
	require.Equal(t, PlainText, ParseLogEncoder("Console"))
	require.Equal(t, JSON, ParseLogEncoder("json"))
	require.Equal(t, JSON, ParseLogEncoder(""))
}

func TestXLoggerOptionsValidation(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(nil))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
}

func TestXLoggerAllAPIs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriter(buf),
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerLevelEncoder(nil),
		WithXLoggerTimeEncoder(nil),
		WithXLoggerContextFieldExtract("traceId"),
		WithXLoggerContextFieldExtract("service", "svc"),
		WithXLoggerContextFieldExtract("secret", ContextKeyMapToOmitempty),
		WithXLoggerContextFieldExtract(""),
		nil,
	)
	defer func() {
		require.NoError(t, logger.Close())
	}()
	require.Equal(t, "debug", logger.Level())

	logger.Debug("debug msg", zap.Int("n", 1))
	logger.Info("info msg")
	logger.Warn("warn msg")
	logger.Error(errors.New("plain error"), "error msg")
	logger.Error(nil, "nil error msg")
	logger.ErrorStack(infra.NewErrorStack("stack error"), "error stack msg")
	logger.ErrorStack(errors.New("no stack"), "error no stack msg")
	logger.Logf(zapcore.InfoLevel, "formatted %d", 42)

	ctx := context.WithValue(context.Background(), ContextKey("traceId"), "abc")
	ctx = context.WithValue(ctx, ContextKey("secret"), "hidden")
	logger.InfoContext(ctx, "info ctx msg")
	logger.DebugContext(ctx, "debug ctx msg")
	logger.WarnContext(ctx, "warn ctx msg")
	logger.ErrorContext(ctx, errors.New("ctx error"), "error ctx msg")
	require.NoError(t, logger.Sync())

	entries := decodeLines(t, buf)
	require.Len(t, entries, 12)
	require.Equal(t, "DEBUG", entries[0]["lvl"])
	require.Equal(t, "debug msg", entries[0]["msg"])
	require.Equal(t, float64(1), entries[0]["n"])
	require.Contains(t, entries[0]["callAt"], "xlog_test.go")
	require.Equal(t, "plain error", entries[3]["error"])
	require.NotContains(t, entries[4], "error")
	require.Equal(t, "stack error", entries[5]["error"])
	require.NotEmpty(t, entries[5]["errorStack"])
	require.Equal(t, "no stack", entries[6]["error"])
	require.Equal(t, "formatted 42", entries[7]["msg"])
	require.Equal(t, "abc", entries[8]["traceId"])
	require.Equal(t, "nil", entries[8]["svc"])
	require.NotContains(t, entries[8], "secret")
	require.Equal(t, "ctx error", entries[11]["error"])

	buf.Reset()
	logger.IncreaseLogLevel(zapcore.ErrorLevel)
	require.Equal(t, "error", logger.Level())
	logger.Info("dropped")
	logger.Error(errors.New("kept"), "kept msg")
	entries = decodeLines(t, buf)
	require.Len(t, entries, 1)
	require.Equal(t, "kept msg", entries[0]["msg"])
}

func TestXLoggerPlainText(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriter(buf),
		WithXLoggerEncoder(PlainText),
		WithXLoggerLevel(LogLevelInfo),
	)
	logger.Debug("hidden")
	logger.Info("plain text msg", zap.String("tree", "[1, 2, 3]"))
	require.NoError(t, logger.Sync())
	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "INFO")
	require.Contains(t, out, "plain text msg")
	require.Contains(t, out, `{"tree": "[1, 2, 3]"}`)
}

func TestExtractFieldsFromNilContext(t *testing.T) {
	//nolint:staticcheck
	require.Empty(t, extractFieldsFromContext(nil, map[string]string{"a": "a"}))
	require.Empty(t, extractFieldsFromContext(context.Background(), nil))
}
