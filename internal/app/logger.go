package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger from configuration. Production pods
// emit JSON for the log collector at info level; the default LOG_FORMAT of
// "pretty" keeps a text handler at debug level with source locations for
// local work.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg == nil || !cfg.IsProduction() {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
