// Package logctx maps the machetli environment configuration's loglevel
// strings onto zerolog.Level. Every component that logs takes a
// zerolog.Logger value built from this mapping; none read a package-level
// global.
package logctx

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Level maps the four loglevel strings the environment configuration
// recognizes onto zerolog.Level. zerolog has no built-in "critical"
// severity; "critical" maps to zerolog.ErrorLevel, and callers that log at
// that severity should additionally set a "critical" field so the line is
// distinguishable from an ordinary error.
func Level(name string) (zerolog.Level, error) {
	switch name {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	case "critical":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("logctx: unrecognized loglevel %q", name)
	}
}

// New builds a zerolog.Logger writing to w at the level named by
// levelName, with a console writer so output stays readable for a
// short-lived CLI run rather than needing a log aggregator.
func New(w zerolog.ConsoleWriter, levelName string) (zerolog.Logger, error) {
	level, err := Level(levelName)
	if err != nil {
		return zerolog.Logger{}, err
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Critical logs msg at error level with the "critical" field set, the
// convention this codebase uses to mark a log line as the terminal,
// user-visible cause of a failed run, since zerolog has no distinct
// critical severity of its own.
func Critical(logger zerolog.Logger, msg string) {
	logger.Error().Bool("critical", true).Msg(msg)
}
