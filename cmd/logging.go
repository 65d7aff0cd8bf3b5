package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"dashsearch/internal/config"
)

const (
	logMaxSizeMB  = 5
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// newFileLogger logs to the rotating log file from cfg. The TUI owns the
// terminal, so nothing may be written to stdout or stderr while it runs.
func newFileLogger(cfg *config.Config, debug bool) (*slog.Logger, io.Closer) {
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nopCloser{}
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nopCloser{}
	}

	w := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}
	return newLogger(w, cfg.LogLevel, debug), w
}

// installFileLogger builds the file logger and makes it the process default.
// slog.SetDefault also routes the log package into it, so library output
// such as x/oauth2's deprecation notices cannot land on the TUI.
func installFileLogger(cfg *config.Config, debug bool) (*slog.Logger, io.Closer) {
	logger, closer := newFileLogger(cfg, debug)
	slog.SetDefault(logger)
	return logger, closer
}

func newLogger(w io.Writer, level string, debug bool) *slog.Logger {
	lvl := parseLogLevel(level)
	if debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
