// Package log provides the structured logging interface used across the
// model-selection pipeline.
//
// The interface is slog-compatible and backed by zerolog by default. Splitters,
// cross-validators, optimizers and learning-curve calculators accept a Logger
// through their options and fall back to the package-level provider.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("optimization").With(
//	    log.OptimizerKey, "random_search",
//	    log.RunIDKey, runID,
//	)
//	logger.Info("candidate evaluated",
//	    log.CandidateKey, 3,
//	    log.ErrorValueKey, 0.42,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key-value pairs. If the number of fields is odd and
// the first one is an error, it is logged under the "error" key together with
// its stack trace.
//
// The method set also satisfies goptuna's Logger interface, so the same
// logger can be handed to a goptuna study.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	//
	//   logger.Error("cross-validation failed",
	//       err,
	//       log.FoldKey, 3,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	// Use it to skip building expensive fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates and configures loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
