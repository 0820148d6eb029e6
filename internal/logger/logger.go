// Package logger writes Parley's structured debug log. The TUI owns the
// terminal, so everything goes to a file; if no file can be opened, log
// records are dropped.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultLogPath is used when Init is not called before the first record.
const DefaultLogPath = "/tmp/parley-debug.log"

// logGlob matches every log file Parley may have written to /tmp.
const logGlob = "/tmp/parley-*.log"

var (
	mu    sync.Mutex
	base  *slog.Logger
	file  *os.File
	level = new(slog.LevelVar) // Info until SetDebug(true)
)

// SetDebug switches between debug and info level. It may be called before
// or after Init.
func SetDebug(enabled bool) {
	if enabled {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// Init opens path for appending and routes all records there. Only the first
// successful call takes effect; later calls are no-ops until Close.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		return nil
	}
	return open(path)
}

// open must be called with mu held.
func open(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	file = f
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	base.Info("logger initialized", "path", path)
	return nil
}

// current returns the root logger, opening DefaultLogPath on first use.
func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if base == nil {
		if err := open(DefaultLogPath); err != nil {
			base = slog.New(slog.DiscardHandler)
		}
	}
	return base
}

// Close flushes and closes the log file. Loggers handed out earlier keep
// pointing at the closed file and their records are lost.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	base = slog.New(slog.DiscardHandler)
}

// WithComponent returns a logger tagged with the component that owns it.
//
//	log := logger.WithComponent("store")
//	log.Info("appended turn", "session", id, "role", turn.Role)
func WithComponent(component string) *slog.Logger {
	return current().With(slog.String("component", component))
}

// WithSession returns a logger tagged with a chat's id.
//
//	logger.WithSession(id.String()).Debug("request started")
func WithSession(sessionID string) *slog.Logger {
	return current().With(slog.String("sessionID", sessionID))
}

// ClearLogs removes Parley log files from /tmp, plus extra when it names a
// custom log file. It returns the number of files removed.
func ClearLogs(extra ...string) (int, error) {
	matches, err := filepath.Glob(logGlob)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool)
	count := 0
	for _, path := range append(matches, extra...) {
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		if err := os.Remove(path); err == nil {
			count++
		} else if !os.IsNotExist(err) {
			return count, err
		}
	}
	return count, nil
}
