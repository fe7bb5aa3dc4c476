package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006-01-02 15:04:05"

// Logger writes leveled, component-tagged lines to a terminal writer
// and optionally to a rotated file. The zero configuration logs Info
// and above to stdout.
type Logger struct {
	name  string
	level LogLevel
	json  bool

	terminal io.Writer
	file     io.Writer
}

type Option func(*Logger)

func WithLevel(level LogLevel) Option {
	return func(l *Logger) {
		l.level = level
	}
}

// WithJSON switches output to one JSON object per line.
func WithJSON() Option {
	return func(l *Logger) {
		l.json = true
	}
}

// WithFile mirrors every line into a size-rotated file.
func WithFile(path string) Option {
	return func(l *Logger) {
		l.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    128,
			MaxBackups: 5,
			MaxAge:     16,
		}
	}
}

// WithOutput redirects the terminal stream, or silences it when nil.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.terminal = w
	}
}

func New(name string, opts ...Option) *Logger {
	l := &Logger{
		name:     name,
		level:    Info,
		terminal: os.Stdout,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Component string `json:"component,omitempty"`
	Message   string `json:"message"`
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if level < l.level {
		return
	}

	timestamp := time.Now().Format(timeFormat)
	formatted := fmt.Sprintf(msg, args...)

	var line string
	if l.json {
		encoded, _ := json.Marshal(logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Component: l.name,
			Message:   formatted,
		})
		line = string(encoded)
	} else {
		prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
		if l.name != "" {
			prefix = fmt.Sprintf("%s [%s]", prefix, l.name)
		}
		line = fmt.Sprintf("%s %s", prefix, formatted)
	}

	if l.terminal != nil {
		// Color codes only make sense on an actual terminal
		if !l.json && l.terminal == io.Writer(os.Stdout) {
			fmt.Fprintf(l.terminal, "%s%s\033[0m\n", Color(level), line)
		} else {
			fmt.Fprintln(l.terminal, line)
		}
	}
	if l.file != nil {
		fmt.Fprintln(l.file, line)
	}

	if level == Fatal {
		os.Exit(1)
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.log(Fatal, msg, args...)
}
