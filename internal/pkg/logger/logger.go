package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/httplog/v3"
)

const (
	appName    = "hris-payroll"
	appVersion = "v1.0.0"
)

// New builds the application JSON logger in the ECS schema used for request
// logs, so application and access logs share one format.
func New(level, env string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, env)
}

func NewWithWriter(w io.Writer, level, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", env),
	)
}

// ParseLevel maps LOG_LEVEL values to slog levels; unknown values fall back
// to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// Audit returns the child logger for the audit side channel.
func Audit(l *slog.Logger) *slog.Logger {
	return l.With(slog.String("channel", "audit"))
}
