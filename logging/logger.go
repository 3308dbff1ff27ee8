package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string (debug, info, warn, error) to a LogLevel.
// Unknown values fall back to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger defines the minimal logging interface for stride.
// This allows users to provide their own logger implementation or use the
// built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// LoggerConfig configures construction of a slog backed Logger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// NewLogger builds a Logger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) Logger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

// NewSlogLogger creates a Logger with the specified level and format.
func NewSlogLogger(level LogLevel, format string) Logger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RunLogger wraps a Logger with per-run identifiers attached to every entry
// plus domain helpers for model and action calls. Cheap to copy via WithRun.
type RunLogger struct {
	logger    Logger
	sessionID string
	runID     string
}

// NewRunLogger constructs a RunLogger guaranteeing a non-nil backing logger.
func NewRunLogger(l Logger) *RunLogger {
	if l == nil {
		l = NoOpLogger{}
	}
	return &RunLogger{logger: l}
}

// WithRun returns a copy carrying session and run identifiers.
func (l *RunLogger) WithRun(sessionID, runID string) *RunLogger {
	nl := *l
	nl.sessionID = sessionID
	nl.runID = runID
	return &nl
}

func (l *RunLogger) attrs(args []any) []any {
	if l.sessionID != "" {
		args = append(args, "session_id", l.sessionID)
	}
	if l.runID != "" {
		args = append(args, "run_id", l.runID)
	}
	return args
}

// Debug logs at debug level with run context attached.
func (l *RunLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, l.attrs(args)...) }

// Info logs at info level with run context attached.
func (l *RunLogger) Info(msg string, args ...any) { l.logger.Info(msg, l.attrs(args)...) }

// Warn logs at warn level with run context attached.
func (l *RunLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, l.attrs(args)...) }

// Error logs at error level with run context attached.
func (l *RunLogger) Error(msg string, args ...any) { l.logger.Error(msg, l.attrs(args)...) }

// LogModelCall records model call latency and success.
func (l *RunLogger) LogModelCall(phase string, dur time.Duration, success bool, err error) {
	args := []any{"phase", phase, "duration_ms", dur.Milliseconds(), "success", success}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	if success {
		l.Info("model.call.completed", args...)
		return
	}
	l.Error("model.call.failed", args...)
}

// LogActionCall records execution details for an action invocation.
func (l *RunLogger) LogActionCall(name string, dur time.Duration, success bool, err error) {
	args := []any{"action", name, "duration_ms", dur.Milliseconds(), "success", success}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	if success {
		l.Info("action.call.completed", args...)
		return
	}
	l.Error("action.call.failed", args...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
