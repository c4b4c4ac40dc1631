// Package logging builds the host's slog logger from configuration.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/skekre98/startuphost/config"
)

// DefaultMaxSizeMB is the rotation size used when logging.file.maxSizeMB is unset.
const DefaultMaxSizeMB = 100

// New builds the host logger. It writes to stdout unless logging.file.path is
// set, in which case the file is rotated by size. The returned closer releases
// the file and is a no-op for stdout.
func New(cfg config.LoggingConfig) (*slog.Logger, io.Closer) {
	w := Output(cfg.File)
	return NewWriter(w, cfg), closerOf(w)
}

// Output returns the log destination for cfg.
func Output(cfg config.LogFileConfig) io.Writer {
	if cfg.Path == "" {
		return os.Stdout
	}
	size := cfg.MaxSizeMB
	if size <= 0 {
		size = DefaultMaxSizeMB
	}
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    size,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

// NewWriter builds a logger on w. Text is the default format.
func NewWriter(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// ParseLevel maps debug/info/warn/error to slog levels; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func closerOf(w io.Writer) io.Closer {
	if c, ok := w.(*lumberjack.Logger); ok {
		return c
	}
	return nopCloser{}
}
