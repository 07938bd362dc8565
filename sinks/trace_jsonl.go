package sinks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pawelhaladyj/opti-agents/core"
)

// WriteTraceJSONL writes one JSON object per line, one per TraceEvent, to
// path, creating parent directories as needed. Deliberately simple — no
// rotation or compression, matching the original's scope.
func WriteTraceJSONL(events []core.TraceEvent, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("sinks: create trace dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sinks: create trace file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, ev := range events {
		if err := enc.Encode(traceEventJSON(ev)); err != nil {
			return fmt.Errorf("sinks: write trace line: %w", err)
		}
	}
	return nil
}

func traceEventJSON(ev core.TraceEvent) map[string]any {
	out := map[string]any{
		"actor":          ev.Actor,
		"action":         ev.Action,
		"target":         ev.Target,
		"params":         ev.Params,
		"outcome":        ev.Outcome,
		"timestamp":      ev.Timestamp,
		"correlation_id": ev.CorrelationID,
	}
	if ev.Error != nil {
		out["error"] = ev.Error.ToDict()
	} else {
		out["error"] = nil
	}
	return out
}
