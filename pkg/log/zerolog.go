package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	mserrors "github.com/YuminosukeSato/modelselect/pkg/errors"
)

// ZerologProvider is the default LoggerProvider. All loggers it hands out
// share one level, so SetLevel affects loggers created earlier too.
type ZerologProvider struct {
	base  zerolog.Logger
	level *atomic.Int64
}

// NewZerologProvider writes JSON records to w.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	lv := &atomic.Int64{}
	lv.Store(int64(level))
	return &ZerologProvider{
		base:  zerolog.New(w).With().Timestamp().Logger(),
		level: lv,
	}
}

// NewConsoleProvider writes human-readable records to w.
func NewConsoleProvider(w io.Writer, level Level) *ZerologProvider {
	p := NewZerologProvider(w, level)
	p.base = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	return p
}

// GetLogger implements LoggerProvider.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{zl: p.base, level: p.level}
}

// GetLoggerWithName implements LoggerProvider.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{zl: p.base.With().Str(ComponentKey, name).Logger(), level: p.level}
}

// SetLevel implements LoggerProvider.
func (p *ZerologProvider) SetLevel(level Level) {
	p.level.Store(int64(level))
}

type zerologLogger struct {
	zl    zerolog.Logger
	level *atomic.Int64
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.emit(LevelDebug, msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { l.emit(LevelInfo, msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { l.emit(LevelWarn, msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { l.emit(LevelError, msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	pairs, err := splitFields(fields)
	if err != nil {
		ctx = ctx.AnErr(ErrAttrKey, err)
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		ctx = ctx.Interface(fmt.Sprint(pairs[i]), pairs[i+1])
	}
	return &zerologLogger{zl: ctx.Logger(), level: l.level}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return level >= Level(l.level.Load())
}

func (l *zerologLogger) emit(level Level, msg string, fields []any) {
	if !l.Enabled(context.Background(), level) {
		return
	}
	var e *zerolog.Event
	switch level {
	case LevelDebug:
		e = l.zl.Debug()
	case LevelInfo:
		e = l.zl.Info()
	case LevelWarn:
		e = l.zl.Warn()
	default:
		e = l.zl.Error()
	}

	pairs, err := splitFields(fields)
	if err != nil {
		addError(e, ErrAttrKey, err)
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		key := fmt.Sprint(pairs[i])
		switch v := pairs[i+1].(type) {
		case error:
			addError(e, key, v)
		case zerolog.LogObjectMarshaler:
			e.Object(key, v)
		default:
			e.Interface(key, v)
		}
	}
	e.Msg(msg)
}

// splitFields separates a leading error from key-value pairs.
func splitFields(fields []any) ([]any, error) {
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			return fields[1:], err
		}
	}
	return fields, nil
}

func addError(e *zerolog.Event, key string, err error) {
	e.AnErr(key, err)
	if obj, ok := asMarshaler(err); ok {
		e.Object(key+"_details", obj)
	}
	if st := extractStacktrace(err); st != "" {
		e.Str(StacktraceKey, st)
	}
}

// asMarshaler finds the first error in the chain that can describe itself
// to zerolog.
func asMarshaler(err error) (zerolog.LogObjectMarshaler, bool) {
	for cur := err; cur != nil; cur = errors.UnwrapOnce(cur) {
		if m, ok := cur.(zerolog.LogObjectMarshaler); ok {
			return m, true
		}
	}
	return nil, false
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

// ===========================================================================
// package-level provider
// ===========================================================================

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = NewZerologProvider(os.Stderr, LevelWarn)
)

// SetProvider replaces the package-level provider.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

// GetLogger returns the default logger of the package-level provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a component logger of the package-level provider.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLoggerWithName(name)
}

// SetLevel sets the level of the package-level provider.
func SetLevel(level Level) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	defaultProvider.SetLevel(level)
}

// ParseLevel converts "debug", "info", "warn" or "error".
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, mserrors.NewValidationError("log.level", "must be one of debug, info, warn, error", level)
	}
}

// Setup installs a zerolog provider writing to w in "json" or "console"
// format and routes library warnings through it.
func Setup(w io.Writer, level, format string) error {
	lv, err := ParseLevel(level)
	if err != nil {
		return err
	}
	var p *ZerologProvider
	switch strings.ToLower(format) {
	case "json", "":
		p = NewZerologProvider(w, lv)
	case "console", "text":
		p = NewConsoleProvider(w, lv)
	default:
		return mserrors.NewValidationError("log.format", "must be json or console", format)
	}
	SetProvider(p)

	warnLogger := p.GetLoggerWithName("warnings")
	mserrors.SetZerologWarnFunc(func(w error) {
		warnLogger.Warn(w.Error(), "warning", w)
	})
	return nil
}
