package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"friendfinder/backend/internal/config"
)

var (
	mu  sync.RWMutex
	log *slog.Logger
)

// InitFromConfig initializes the global logger from app config.
func InitFromConfig(c *config.Config) {
	level, format := "info", "text"
	if c != nil {
		level, format = c.LogLevel, c.LogFormat
	}
	Init(level, format)
}

// Init sets up the global logger. Safe to call multiple times.
func Init(level, format string) {
	mu.Lock()
	defer mu.Unlock()

	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log = slog.New(handler)
}

// L returns the global logger. Always returns a non-nil instance.
func L() *slog.Logger {
	mu.RLock()
	if log != nil {
		defer mu.RUnlock()
		return log
	}
	mu.RUnlock()

	Init("info", "text")

	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With creates a child logger with additional attributes.
func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
