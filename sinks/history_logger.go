// Package sinks implements the optional, external-facing writers spec.md §6
// carries over: a human-readable conversation history file and a JSONL
// trace dump. Grounded on original_source/src/organizer/core/history_logger.py
// and trace_logger.py.
package sinks

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pawelhaladyj/opti-agents/core"
)

// HistoryLogger appends one line per Message to a session-scoped text file
// under dir, creating it on first use.
type HistoryLogger struct {
	dir              string
	sessionTimestamp string
}

// NewHistoryLogger builds a HistoryLogger rooted at dir, stamping the
// current time as the session timestamp.
func NewHistoryLogger(dir string) *HistoryLogger {
	return &HistoryLogger{dir: dir, sessionTimestamp: time.Now().Format("20060102_150405")}
}

// FilePath returns the path this logger appends to.
func (h *HistoryLogger) FilePath() string {
	return filepath.Join(h.dir, fmt.Sprintf("history_%s.txt", h.sessionTimestamp))
}

// Append writes one line for msg, creating dir if needed.
func (h *HistoryLogger) Append(msg core.Message) error {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return fmt.Errorf("sinks: create history dir: %w", err)
	}

	f, err := os.OpenFile(h.FilePath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("sinks: open history file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), msg.Sender(), msg.Content())
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("sinks: write history line: %w", err)
	}
	return nil
}
