package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WARN)

	l.Info("APP", "starting")
	l.Warn("APP", "disk almost full")
	l.Error("DATABASE", "connection lost")

	out := buf.String()
	assert.NotContains(t, out, "starting")
	assert.Contains(t, out, "WARN  [APP       ] disk almost full")
	assert.Contains(t, out, "ERROR [DATABASE  ] connection lost")
	assert.Contains(t, out, "logger_test.go")
}

func TestLogAPIEscalatesServerErrors(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO)

	l.LogAPI("GET", "/event", 200, 3*time.Millisecond)
	l.LogAPI("POST", "/event", 500, time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "INFO  [API       ] GET /event - 200 (3ms)")
	assert.Contains(t, out, "ERROR [API       ] POST /event - 500 (1ms)")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, ERROR, ParseLevel(" ERROR "))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}

func TestNewLoggerWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, "event-service", "INFO")
	require.NoError(t, err)
	l.terminal = &bytes.Buffer{}

	l.LogEvent("CREATE", 1, "Jazz Night")
	l.Close()

	matches, err := filepath.Glob(filepath.Join(dir, "event-service-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()

	var last LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &last))
	}
	assert.Equal(t, "INFO", last.Level)
	assert.Equal(t, "EVENT", last.Category)
	assert.Equal(t, "event-service", last.Service)
	assert.Equal(t, "[CREATE] 1 - Jazz Night", last.Message)
}
