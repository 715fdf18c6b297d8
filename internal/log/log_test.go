package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewFromSettingsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFromSettings(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("visible", FieldCNPJ, "17197385000121")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, ComponentApp, entry[FieldComponent])
	assert.Equal(t, "17197385000121", entry[FieldCNPJ])
}

func TestFromContext(t *testing.T) {
	fallback := FromContext(context.Background())
	assert.Equal(t, "unknown", fallback.Component())

	logger := NewFromSettings(&bytes.Buffer{}, "info", "text").WithComponent(ComponentHTTP)
	ctx := context.WithValue(context.Background(), LoggerContextKey, logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(NewFromSettings(&buf, "debug", "text"))
	ctx := context.Background()

	sl.LogAnomaly(ctx, "orphan_expense", "expense 41 references unknown operator 99")
	sl.LogOperatorNotFound(ctx, "00000000000000")
	sl.LogError(ctx, "Query failed", errors.New("boom"), ComponentStorage, OpRead, nil)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "anomaly=orphan_expense")
	assert.Contains(t, out, "cnpj=00000000000000")
	assert.Contains(t, out, "error=boom")
}

func TestLogFields(t *testing.T) {
	f := NewFields().WithListing(2, 5, "").WithError(nil)
	assert.Equal(t, 2, f[FieldPage])
	assert.Equal(t, 5, f[FieldLimit])
	assert.NotContains(t, f, FieldSearch)
	assert.NotContains(t, f, FieldError)
	assert.Len(t, f.ToSlice(), 4)
}
