// Package utils holds the probe's logger and network helpers.
package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Logger writes timestamped lines to a log file, or to stdout when no file
// is configured or the file cannot be opened.
type Logger struct {
	mu        sync.Mutex
	writeFile *os.File
	out       io.Writer
}

// NewLogger opens logFile for appending. An empty path logs to stdout.
func NewLogger(logFile string) *Logger {
	logger := &Logger{out: os.Stdout}
	if logFile == "" {
		return logger
	}

	_ = os.MkdirAll(filepath.Dir(logFile), 0o755)

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: Error opening log file (%s): %v\n", time.Now().Format(timestampLayout), logFile, err)
		return logger
	}
	logger.writeFile = f
	logger.out = f
	return logger
}

// NewWriterLogger logs to w. Used by tests to capture output.
func NewWriterLogger(w io.Writer) *Logger {
	return &Logger{out: w}
}

// Write appends a timestamped message.
func (l *Logger) Write(message string) {
	if l == nil {
		return
	}
	line := fmt.Sprintf("%s: %s\n", time.Now().Format(timestampLayout), message)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, line)
	if l.writeFile != nil {
		_ = l.writeFile.Sync()
	}
}

// Writef formats and writes a message.
func (l *Logger) Writef(format string, args ...interface{}) {
	l.Write(fmt.Sprintf(format, args...))
}

// Output returns the underlying writer, for components that format their
// own lines such as the HTTP access log.
func (l *Logger) Output() io.Writer {
	if l == nil {
		return os.Stdout
	}
	return l.out
}

// Close closes the log file if one is open.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writeFile != nil {
		l.writeFile.Close()
		l.writeFile = nil
		l.out = os.Stdout
	}
}
