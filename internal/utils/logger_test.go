package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var linePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}: `)

func TestLoggerWritesTimestampedLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)
	l.Write("hello")
	l.Writef("sampled cpu=%.1f", 12.5)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !linePattern.MatchString(lines[0]) || !strings.HasSuffix(lines[0], "hello") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "sampled cpu=12.5") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestLoggerAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "probe.log")
	l := NewLogger(path)
	l.Write("first")
	l.Write("second")
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Fatalf("log file missing lines: %q", data)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Write("ignored")
	l.Close()
	if l.Output() == nil {
		t.Fatalf("expected stdout fallback writer")
	}
}
