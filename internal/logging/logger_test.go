package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestHelpersNoopBeforeInit(t *testing.T) {
	Close()
	Debug("ignored")
	Info("ignored")
	Warn("ignored")
	Error("ignored", "k", "v")
}

func TestInitWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, log.WarnLevel)
	t.Cleanup(Close)

	Info("search started", "query", "lamp")
	Warn("backend slow", "ms", 900)

	out := buf.String()
	if strings.Contains(out, "search started") {
		t.Errorf("info line leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "backend slow") || !strings.Contains(out, "ms=900") {
		t.Errorf("warn line missing or lacks keyvals: %q", out)
	}
}

func TestCloseStopsOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, log.DebugLevel)
	Close()
	Error("after close")
	if buf.Len() != 0 {
		t.Errorf("wrote after Close: %q", buf.String())
	}
}

func TestInitWritesTodaysFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir, log.DebugLevel); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Info("hello")
	Close()

	want := filepath.Join(dir, "logs", "shopper-"+time.Now().Format(time.DateOnly)+".log")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read %s: %v", want, err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing message: %q", data)
	}
}

func TestInitPrunesExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	logs := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logs, 0755); err != nil {
		t.Fatal(err)
	}
	old := "shopper-" + time.Now().Add(-Retention-48*time.Hour).Format(time.DateOnly) + ".log"
	recent := "shopper-" + time.Now().Add(-24*time.Hour).Format(time.DateOnly) + ".log"
	for _, name := range []string{old, recent, "shopper-notadate.log", "other.log"} {
		if err := os.WriteFile(filepath.Join(logs, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := Init(dir, log.InfoLevel); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Close()

	if _, err := os.Stat(filepath.Join(logs, old)); !os.IsNotExist(err) {
		t.Errorf("%s should have been pruned", old)
	}
	for _, keep := range []string{recent, "shopper-notadate.log", "other.log"} {
		if _, err := os.Stat(filepath.Join(logs, keep)); err != nil {
			t.Errorf("%s should be kept: %v", keep, err)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"nonsense", log.InfoLevel},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
