// Package logging provides core.Logger implementations: a dependency-free
// SimpleLogger (grounded on itsneelabh-gomind's pkg/logger/simple.go) and a
// ZerologLogger backed by github.com/rs/zerolog (grounded on
// intelligencedev-manifold's structured-logging usage).
package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level orders log severity, matching the teacher's LogLevel.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// SimpleLogger writes leveled, field-annotated lines via the standard
// library logger; no external dependency required.
type SimpleLogger struct {
	level  Level
	fields map[string]any
	out    *log.Logger
}

// NewSimpleLogger builds a SimpleLogger at LevelInfo, writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{
		level:  LevelInfo,
		fields: map[string]any{},
		out:    log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetLevel parses a level name (case-insensitive); unknown names are
// ignored, leaving the current level unchanged.
func (l *SimpleLogger) SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		l.level = LevelDebug
	case "INFO":
		l.level = LevelInfo
	case "WARN", "WARNING":
		l.level = LevelWarn
	case "ERROR":
		l.level = LevelError
	}
}

// With returns a child logger carrying l's fields plus extra.
func (l *SimpleLogger) With(extra map[string]any) *SimpleLogger {
	merged := make(map[string]any, len(l.fields)+len(extra))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return &SimpleLogger{level: l.level, fields: merged, out: l.out}
}

func (l *SimpleLogger) Debug(msg string, fields map[string]any) { l.log(LevelDebug, "DEBUG", msg, fields) }
func (l *SimpleLogger) Info(msg string, fields map[string]any)  { l.log(LevelInfo, "INFO", msg, fields) }
func (l *SimpleLogger) Warn(msg string, fields map[string]any)  { l.log(LevelWarn, "WARN", msg, fields) }
func (l *SimpleLogger) Error(msg string, fields map[string]any) { l.log(LevelError, "ERROR", msg, fields) }

func (l *SimpleLogger) log(level Level, tag, msg string, fields map[string]any) {
	if level < l.level {
		return
	}
	l.out.Println(formatLine(tag, msg, l.fields, fields))
}

func formatLine(tag, msg string, base, extra map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", tag, msg)
	for k, v := range base {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	for k, v := range extra {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	return b.String()
}
