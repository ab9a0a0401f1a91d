package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
	CRITICAL
)

func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case CRITICAL:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case TRACE:
		return zerolog.TraceLevel
	case DEBUG:
		return zerolog.DebugLevel
	case INFO:
		return zerolog.InfoLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	case CRITICAL:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel maps a flag value to a LogLevel. Unknown values fall back to INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TRACE
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "critical":
		return CRITICAL
	default:
		return INFO
	}
}

// LogFileConfig controls rotation of the log file.
type LogFileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger is a leveled printf-style logger backed by zerolog.
type Logger struct {
	zl     zerolog.Logger
	closer io.Closer
}

// NewFileLogger writes to a rotated log file and optionally mirrors to stdout.
func NewFileLogger(cfg LogFileConfig, minLevel LogLevel, alsoStdout bool) (*Logger, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	// lumberjack opens lazily; surface permission problems at startup instead.
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	_ = f.Close()

	rot := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}

	var w io.Writer = rot
	if alsoStdout {
		w = zerolog.MultiLevelWriter(rot, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano})
	}

	l := NewLogger(w, minLevel)
	l.closer = rot
	return l, nil
}

// NewLogger writes JSON lines to w.
func NewLogger(w io.Writer, minLevel LogLevel) *Logger {
	allowTrace(minLevel)
	zl := zerolog.New(w).Level(minLevel.zerolog()).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// zerolog's global level starts at debug and filters trace events.
func allowTrace(level LogLevel) {
	if level == TRACE {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
}

func NewNopLogger() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Component returns a child logger tagged with the given component name.
// The child shares the parent's sink; only the parent should be closed.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func (l *Logger) SetMinLevel(level LogLevel) {
	allowTrace(level)
	l.zl = l.zl.Level(level.zerolog())
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	// WithLevel does not exit on FatalLevel, which is what CRITICAL needs.
	l.zl.WithLevel(level.zerolog()).Msgf(msg, args...)
}

func (l *Logger) Trace(msg string, args ...any)    { l.log(TRACE, msg, args...) }
func (l *Logger) Debug(msg string, args ...any)    { l.log(DEBUG, msg, args...) }
func (l *Logger) Info(msg string, args ...any)     { l.log(INFO, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)     { l.log(WARN, msg, args...) }
func (l *Logger) Error(msg string, args ...any)    { l.log(ERROR, msg, args...) }
func (l *Logger) Critical(msg string, args ...any) { l.log(CRITICAL, msg, args...) }
