// Package logging configures colored structured logging with tint, with an
// optional rotating file copy.
//
// Usage:
//
//	logging.Setup()                          // INFO level, from LOG_LEVEL env
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//	closer := logging.SetupWithOptions(opts) // level plus rotating file sink
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the log level and the optional file sink.
type Options struct {
	Level      string
	File       string // Empty disables the file sink
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: INFO).
func Setup() {
	SetupWithLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(newHandler(os.Stderr, level, false)))
}

// SetupWithOptions configures logging to stderr and, when opts.File is set,
// to a size-rotated file as well. The returned closer flushes the file.
func SetupWithOptions(opts Options) io.Closer {
	level := ParseLevel(opts.Level)
	if opts.File == "" {
		SetupWithLevel(level)
		return nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	slog.SetDefault(slog.New(slogmulti.Fanout(
		newHandler(os.Stderr, level, false),
		newHandler(file, level, true),
	)))
	return file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds a tint logger writing to w. Color is disabled.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(newHandler(w, level, true))
}

func newHandler(w io.Writer, level slog.Level, noColor bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    noColor,
	})
}

// ParseLevel maps debug, info, warn and error to slog levels (default: info).
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
