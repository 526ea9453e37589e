package infra

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

func TestLoggerClient_ErrorWithContextf(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerClient(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.ErrorWithContextf(context.Background(), errors.New("boom"), "[Files] delete %s failed", "abc")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "[Files] delete abc failed", record["msg"])
	assert.Equal(t, "boom", record["error"])
}

func TestLoggerClient_DebugFilteredByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerClient(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	logger.DebugWithContextf(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	logger.WarningWithContextf(context.Background(), "shown %d", 1)
	assert.Contains(t, buf.String(), "shown 1")
}
