package sinks

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pawelhaladyj/opti-agents/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryLoggerAppendsLines(t *testing.T) {
	dir := t.TempDir()
	logger := NewHistoryLogger(dir)

	require.NoError(t, logger.Append(core.NewMessage("user", "cześć")))
	require.NoError(t, logger.Append(core.NewMessage("weather", "słonecznie")))

	raw, err := os.ReadFile(logger.FilePath())
	require.NoError(t, err)

	lines := 0
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		lines++
	}
	assert.Equal(t, 2, lines)
	assert.Contains(t, string(raw), "[user]")
	assert.Contains(t, string(raw), "[weather]")
}

func TestWriteTraceJSONLOneObjectPerLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.jsonl")

	events := []core.TraceEvent{
		core.NewTraceEvent("orchestrator", "route", "weather", map[string]any{"task": "t"}, "ok", nil, "CID-1"),
		core.NewTraceEvent("weather", "tool_call", "weather_tool", map[string]any{"city": "Kraków"}, "success", nil, "CID-1"),
	}

	require.NoError(t, WriteTraceJSONL(events, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	count := 0
	for scanner.Scan() {
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &decoded))
		count++
	}
	assert.Equal(t, 2, count)
}
