// Package snapshotlog wires the engine's progress and structural-warning
// output to zerolog, following the pack convention of a small constructor
// returning a configured logger rather than a package-global.
package snapshotlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the structured logger the engine reports milestones and
// structural warnings through. The zero value is not usable; use New or
// Nop.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger writing human-readable console output to w, at the
// given minimum level.
func New(w io.Writer, level zerolog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	return Logger{zl: zl}
}

// Nop returns a Logger that discards everything, for callers that don't
// want engine diagnostics.
func Nop() Logger {
	return Logger{zl: zerolog.Nop()}
}

// Progress logs an Initialize milestone.
func (l Logger) Progress(stage string, value, total int) {
	l.zl.Info().Str("stage", stage).Int("value", value).Int("total", total).Msg("progress")
}

// Warn logs a structural warning encountered while building a Snapshot.
func (l Logger) Warn(stage string, err error) {
	l.zl.Warn().Str("stage", stage).Err(err).Msg("structural warning")
}

// Error logs a fatal data-invariant failure before it is returned to the
// caller.
func (l Logger) Error(stage string, err error) {
	l.zl.Error().Str("stage", stage).Err(err).Msg("fatal error")
}
