// Package logging is the human-readable application log. The TUI owns the
// terminal, so the app writes to a dated file under the data directory and
// the CLI writes to stderr. Every helper is a no-op until Init or InitWriter.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Retention is how long dated log files are kept; Init removes older ones.
const Retention = 14 * 24 * time.Hour

const filePrefix = "shopper-"

var (
	current atomic.Pointer[log.Logger]

	fileMu sync.Mutex
	file   *os.File
)

// Init opens <dataDir>/logs/shopper-YYYY-MM-DD.log for append, installs a
// logger on it and drops files past Retention.
func Init(dataDir string, level log.Level) error {
	dir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	now := time.Now()
	name := filePrefix + now.Format(time.DateOnly) + ".log"
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	fileMu.Lock()
	prev := file
	file = f
	fileMu.Unlock()
	if prev != nil {
		prev.Close()
	}

	InitWriter(f, level)
	if n := pruneBefore(dir, now.Add(-Retention)); n > 0 {
		Debug("removed old log files", "count", n)
	}
	return nil
}

// InitWriter installs a logger writing to w.
func InitWriter(w io.Writer, level log.Level) {
	current.Store(log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	}))
}

// Close uninstalls the logger and closes the file Init opened, if any.
func Close() {
	current.Store(nil)
	fileMu.Lock()
	defer fileMu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
}

func Debug(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Error(msg, keyvals...)
	}
}

// ParseLevel maps a config string to a level; unknown strings mean info.
func ParseLevel(s string) log.Level {
	if lvl, err := log.ParseLevel(s); err == nil {
		return lvl
	}
	return log.InfoLevel
}

// pruneBefore deletes dated log files whose date is before cutoff and
// returns how many went. Names that do not parse are left alone.
func pruneBefore(dir string, cutoff time.Time) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	cutoffDay := cutoff.Format(time.DateOnly)
	removed := 0
	for _, e := range entries {
		day, ok := strings.CutPrefix(e.Name(), filePrefix)
		if !ok || e.IsDir() {
			continue
		}
		day, ok = strings.CutSuffix(day, ".log")
		if !ok {
			continue
		}
		if _, err := time.Parse(time.DateOnly, day); err != nil {
			continue
		}
		// DateOnly strings sort chronologically.
		if day < cutoffDay && os.Remove(filepath.Join(dir, e.Name())) == nil {
			removed++
		}
	}
	return removed
}
