// Package logging sets up the server's structured logger.
//
// The MCP stdio transport owns stdout, so logs go to a rotating file
// (lumberjack) as JSON lines. Startup problems that predate the logger
// still go to stderr via the stdlib log package.
package logging

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mfigueroa/taskdeck/internal/config"
)

// New builds a slog.Logger writing JSON lines to the configured
// rotating file. The returned close function flushes and closes the
// file and is safe to call more than once.
func New(cfg config.LogConfig) (*slog.Logger, func() error) {
	writer := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler), writer.Close
}

// Discard returns a logger that drops everything. Used by tests and by
// code paths that run before configuration is loaded.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
