package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/slig-dev/slig/internal/common"
)

// Logger provides structured logging capability and implements the
// common.Logger interface. Structured records go to the debug log file via
// zerolog; user-facing lines go to standard error, keeping standard output
// free for protocol results.
type Logger struct {
	mu      sync.Mutex
	zl      zerolog.Logger
	enabled bool
	logFile string
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File // Store file handle for closing
}

// New creates a new Logger instance
func New(enabled bool, logFile string, verbose bool) *Logger {
	return NewWithOutput(enabled, logFile, verbose, os.Stdout, os.Stderr)
}

// NewWithOutput creates a Logger with custom output writers
func NewWithOutput(enabled bool, logFile string, verbose bool, stdout, stderr io.Writer) *Logger {
	var zl zerolog.Logger
	var file *os.File

	if enabled {
		logDir := filepath.Dir(logFile)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0755); err != nil {
				_, _ = fmt.Fprintf(stderr, "failed to create log directory: %v\n", err)
			}
		}

		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			file = f
			zl = zerolog.New(f).With().Timestamp().Logger()
			zl.Info().Msg("slig debug logging started")
		} else {
			// Fallback to stderr for structured records
			zl = zerolog.New(stderr).With().Timestamp().Logger()
			_, _ = fmt.Fprintf(stderr, "failed to open log file: %v, using stderr instead\n", err)
		}
	} else {
		zl = zerolog.Nop()
	}

	return &Logger{
		zl:      zl,
		enabled: enabled,
		logFile: logFile,
		verbose: verbose,
		stdout:  stdout,
		stderr:  stderr,
		file:    file,
	}
}

// Info logs an informational message (file only)
func (l *Logger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return
	}

	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

// Warning logs a warning message (file only, stderr when verbose)
func (l *Logger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.zl.Warn().Msg(msg)
	}

	if l.verbose {
		_, _ = fmt.Fprintf(l.stderr, "warning: %s\n", msg)
	}
}

// Error logs an error message to the file and always to stderr
func (l *Logger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.zl.Error().Msg(msg)
	}

	_, _ = fmt.Fprintf(l.stderr, "error: %s\n", msg)
}

// InfoToUser logs an informational message to both file and stderr
func (l *Logger) InfoToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.zl.Info().Msg(msg)
	}

	_, _ = fmt.Fprintf(l.stderr, "%s\n", msg)
}

// WarningToUser logs a warning message to both file and stderr
func (l *Logger) WarningToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.zl.Warn().Msg(msg)
	}

	_, _ = fmt.Fprintf(l.stderr, "warning: %s\n", msg)
}

// Success logs a success message to both file and stderr
func (l *Logger) Success(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.zl.Info().Msg(msg)
	}

	_, _ = fmt.Fprintf(l.stderr, "%s\n", msg)
}

// StatusMessage prints a status message to stderr only (no structured logging)
func (l *Logger) StatusMessage(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, _ = fmt.Fprintf(l.stderr, format+"\n", args...)
}

// Close ensures any buffered data is written and closes open log file handles
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if err := l.file.Sync(); err != nil {
			return err
		}
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// SetStderr sets a custom writer for user-facing messages.
// This method is thread-safe and is primarily intended for testing.
func (l *Logger) SetStderr(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stderr = w
}

// Interface guard
var _ common.Logger = (*Logger)(nil)
