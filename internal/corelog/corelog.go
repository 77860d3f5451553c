// Package corelog sets up structured logging for the Intelligence Core:
// a console handler (text or JSON) and an optional rotating file handler
// (lumberjack), fanned out behind a single *slog.Logger, with an additional
// ALWAYS level above Error for narrative milestones that should never be
// filtered out by level configuration (room generated, fallback invoked,
// save/load).
package corelog

import (
	"context"
	"log/slog"
	"os"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelAlways is higher than slog.LevelError, guaranteeing it is never
// filtered regardless of configured level.
const LevelAlways = slog.Level(12)

var logger *slog.Logger

// Initialize configures the package-level logger from config. Call once at
// process start; safe to call again in tests with a fresh config.
func Initialize(cfg models.LoggingConfig) error {
	var handlers []slog.Handler
	level := parseLevel(cfg.Level)

	if cfg.ConsoleEnabled {
		opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAlways}
		if cfg.ConsoleFormat == "json" {
			handlers = append(handlers, slog.NewJSONHandler(os.Stdout, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(os.Stdout, opts))
		}
	}

	if cfg.FileEnabled {
		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.FileMaxSizeMB,
			MaxBackups: cfg.FileMaxBackups,
			MaxAge:     cfg.FileMaxAgeDays,
		}
		opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAlways}
		handlers = append(handlers, slog.NewJSONHandler(rotator, opts))
	}

	if len(handlers) == 0 {
		handlers = append(handlers, slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}

	logger = slog.New(fanout(handlers))
	return nil
}

func replaceAlways(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelAlways {
			a.Value = slog.StringValue("ALWAYS")
		}
	}
	return a
}

func parseLevel(s string) slog.Level {
	switch s {
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

// Logger returns the process-wide logger, initializing a sane default if
// Initialize was never called (e.g. in unit tests).
func Logger() *slog.Logger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return logger
}

func Always(msg string, args ...any) {
	Logger().Log(context.Background(), LevelAlways, msg, args...)
}

// fanoutHandler dispatches every log record to each wrapped handler.
type fanoutHandler struct {
	handlers []slog.Handler
}

func fanout(handlers []slog.Handler) slog.Handler {
	return &fanoutHandler{handlers: handlers}
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range f.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}
