package log

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Output formats understood by NewZerologLogger.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

const (
	// ErrAttrKey is the key under which Error attaches its error value.
	ErrAttrKey = "error"
	// StacktraceAttrKey carries the cockroachdb/errors stack trace of an error.
	StacktraceAttrKey = "stacktrace"
	// DetailAttrKey carries the structured fields of typed errors and warnings.
	DetailAttrKey = "detail"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a Logger writing to w. format is FormatConsole for
// human readable lines or FormatJSON for one JSON object per line; any other
// value falls back to console output.
func NewZerologLogger(w io.Writer, format string, level Level) *ZerologLogger {
	out := w
	if format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}
	}
	zl := zerolog.New(out).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// Debug implements Logger.Debug.
func (l *ZerologLogger) Debug(msg string, fields ...any) {
	appendFields(l.zl.Debug(), fields).Msg(msg)
}

// Info implements Logger.Info.
func (l *ZerologLogger) Info(msg string, fields ...any) {
	appendFields(l.zl.Info(), fields).Msg(msg)
}

// Warn implements Logger.Warn.
func (l *ZerologLogger) Warn(msg string, fields ...any) {
	appendFields(l.zl.Warn(), fields).Msg(msg)
}

// Error implements Logger.Error.
func (l *ZerologLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			var detail zerolog.LogObjectMarshaler
			if errors.As(err, &detail) {
				ev = ev.Object(DetailAttrKey, detail)
			}
			if l.zl.GetLevel() <= zerolog.DebugLevel {
				if st := extractStacktrace(err); st != "" {
					ev = ev.Str(StacktraceAttrKey, st)
				}
			}
			fields = fields[1:]
		}
	}
	appendFields(ev, fields).Msg(msg)
}

// With implements Logger.With.
func (l *ZerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i < len(fields); i += 2 {
		key, value := pair(fields, i)
		switch v := value.(type) {
		case zerolog.LogObjectMarshaler:
			ctx = ctx.Object(key, v)
		case error:
			ctx = ctx.AnErr(key, v)
		default:
			ctx = ctx.Interface(key, v)
		}
	}
	return &ZerologLogger{zl: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (l *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel()
}

// WarnFunc adapts a Logger into the function expected by
// errors.SetZerologWarnFunc, so library warnings land in the same stream.
func WarnFunc(logger Logger) func(error) {
	return func(w error) {
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			logger.Warn(w.Error(), DetailAttrKey, m)
			return
		}
		logger.Warn(w.Error())
	}
}

func appendFields(ev *zerolog.Event, fields []any) *zerolog.Event {
	for i := 0; i < len(fields); i += 2 {
		key, value := pair(fields, i)
		switch v := value.(type) {
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	return ev
}

// pair returns the key/value at position i; a dangling key is reported the
// way slog does.
func pair(fields []any, i int) (string, any) {
	if i+1 >= len(fields) {
		return "!BADKEY", fields[i]
	}
	if key, ok := fields[i].(string); ok {
		return key, fields[i+1]
	}
	return fmt.Sprint(fields[i]), fields[i+1]
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
