package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		out = append(out, entry)
	}
	return out
}

func TestLevelFiltering(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	var buf bytes.Buffer
	log := New(WarnLevel, &buf)

	log.Info("dropped", nil)
	log.Warn("kept", map[string]interface{}{"user_id": 7})

	entries := lines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["message"])
	assert.Equal(t, "warn", entries[0]["level"])
	assert.EqualValues(t, 7, entries[0]["user_id"])
}

func TestWithFieldsDoesNotLeak(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	var buf bytes.Buffer
	base := New(InfoLevel, &buf)

	scoped := base.WithFields(map[string]interface{}{"component": "store"})
	scoped.Info("scoped", nil)
	base.Info("plain", nil)

	entries := lines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "store", entries[0]["component"])
	assert.NotContains(t, entries[1], "component")
}

func TestContextWithoutSpan(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	var buf bytes.Buffer
	New(InfoLevel, &buf).InfoContext(context.Background(), "no trace", nil)

	entries := lines(t, &buf)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "trace_id")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	var buf bytes.Buffer
	log := New(LogLevel("verbose"), &buf)

	log.Debug("dropped", nil)
	log.Info("kept", nil)

	assert.Len(t, lines(t, &buf), 1)
}
