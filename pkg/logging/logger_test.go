package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSensitiveData(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "***"},
		{"short", "***"},
		{"4fJk29sLq0PzX1", "4fJ***zX1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, hashSensitiveData(tt.input))
		})
	}
}

func TestCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background())
	id := GetCorrelationID(ctx)
	assert.NotEmpty(t, id)

	// existing id is kept
	assert.Equal(t, id, GetCorrelationID(WithCorrelationID(ctx)))

	given := WithGivenCorrelationID(context.Background(), "req-1")
	assert.Equal(t, "req-1", GetCorrelationID(given))
}

func TestLogShareOperationRedactsToken(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LevelDebug)
	ctx := WithGivenCorrelationID(context.Background(), "req-42")

	logger.LogShareOperation(ctx, "issue", "abcdefghijklmnopqrstuv", true)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "share operation", entry["msg"])
	assert.Equal(t, "abc***tuv", entry["token"])
	assert.Equal(t, "req-42", entry["correlation_id"])
	assert.NotContains(t, buf.String(), "abcdefghijklmnopqrstuv")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LevelWarn)

	logger.Info(context.Background(), "dropped")
	assert.Empty(t, buf.String())

	logger.Warn(context.Background(), "kept")
	assert.Contains(t, buf.String(), "kept")
}
