// Package logger provides structured logging functionality for the RoborNET
// site backend. It uses Go's slog package with configurable levels and formats.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewLogger creates a new slog Logger with the specified level and format.
// If jsonOutput is true, logs will be formatted as JSON, otherwise as text.
func NewLogger(levelStr string, jsonOutput bool) *slog.Logger {
	logger := newLogger(os.Stdout, levelStr, jsonOutput)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, levelStr string, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(levelStr),
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a config level name to a slog.Level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
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

// Middleware creates a request-logging middleware for the fiber app.
// WebSocket upgrades are logged when the connection finishes.
func Middleware(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()

		logEntry := log.With(
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
		)
		if q := string(c.Request().URI().QueryString()); q != "" {
			logEntry = logEntry.With("query", truncateString(q, 80))
		}

		logEntry.DebugContext(c.UserContext(), "Processing request")

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		attrs := []any{"status", status, "duration", time.Since(startTime)}
		switch {
		case status >= fiber.StatusInternalServerError:
			logEntry.ErrorContext(c.UserContext(), "Finished request", append(attrs, "error", err)...)
		case status >= fiber.StatusBadRequest:
			logEntry.WarnContext(c.UserContext(), "Finished request", attrs...)
		default:
			logEntry.InfoContext(c.UserContext(), "Finished request", attrs...)
		}
		return err
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
