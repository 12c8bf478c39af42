// Package tracelog provides the debug-trace side channel behind a
// parser's "debug" configuration option: internal state transitions
// logged for diagnostics, with zero effect on parsing semantics. It
// follows packetd-packetd/logger's shape — a thin
// wrapper around a zap SugaredLogger — trimmed to what a per-connection
// parser actually needs (Debugf only; no file rotation, since nothing
// here writes log files).
package tracelog

import "go.uber.org/zap"

// Logger is the debug-trace sink a Parser writes state transitions to.
type Logger struct {
	sugared *zap.SugaredLogger
}

// Debugf logs a formatted trace line. It is a no-op on a Nop logger.
func (l Logger) Debugf(template string, args ...any) {
	if l.sugared == nil {
		return
	}
	l.sugared.Debugf(template, args...)
}

// New builds a development-mode console logger, suitable for the
// debug=true case: human-readable, synchronous, not for production
// volume.
func New() Logger {
	zl, err := zap.NewDevelopment()
	if err != nil {
		return Nop()
	}
	return Logger{sugared: zl.Sugar()}
}

// Nop returns a logger that discards everything, used when debug
// tracing is disabled.
func Nop() Logger {
	return Logger{sugared: zap.NewNop().Sugar()}
}
