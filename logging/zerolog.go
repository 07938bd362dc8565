package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts github.com/rs/zerolog to core.Logger, grounded on
// intelligencedev-manifold's zerolog-based cmd/agentd logging.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger builds a ZerologLogger writing JSON to stderr.
func NewZerologLogger() *ZerologLogger {
	return &ZerologLogger{logger: zerolog.New(os.Stderr).With().Timestamp().Logger()}
}

func (l *ZerologLogger) withFields(ev *zerolog.Event, fields map[string]any) *zerolog.Event {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	return ev
}

func (l *ZerologLogger) Debug(msg string, fields map[string]any) {
	l.withFields(l.logger.Debug(), fields).Msg(msg)
}

func (l *ZerologLogger) Info(msg string, fields map[string]any) {
	l.withFields(l.logger.Info(), fields).Msg(msg)
}

func (l *ZerologLogger) Warn(msg string, fields map[string]any) {
	l.withFields(l.logger.Warn(), fields).Msg(msg)
}

func (l *ZerologLogger) Error(msg string, fields map[string]any) {
	l.withFields(l.logger.Error(), fields).Msg(msg)
}
