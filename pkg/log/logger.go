// Package log provides structured logging for the regression-test value
// store. It installs a JSON slog handler whose records carry the recording
// context (key, mode, rank) and whose error attributes are expanded with
// the stack trace captured by cockroachdb/errors.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger function setup logger.
func SetupLogger(loglevel string) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, ToLogLevel(loglevel))))
}

// NewHandler builds the JSON handler stack used by SetupLogger, writing to
// the given destination. Tests pass a buffer here.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}
	handler := slog.NewJSONHandler(w, &ops)
	return WrapByErrFmtHandler(handler)
}

func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
