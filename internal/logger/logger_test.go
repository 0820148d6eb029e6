package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// resetState closes any open file and returns the package to its initial,
// uninitialized state.
func resetState() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	file = nil
	base = nil
	level.Set(slog.LevelInfo)
}

// setupTestLogger initializes the logger on a temp file and returns its path.
func setupTestLogger(t *testing.T) string {
	t.Helper()
	resetState()
	t.Cleanup(resetState)

	logPath := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestInit_SecondCallIsNoop(t *testing.T) {
	first := setupTestLogger(t)
	second := filepath.Join(t.TempDir(), "other.log")

	if err := Init(second); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	WithComponent("test").Info("after second init")

	if !strings.Contains(readLog(t, first), "after second init") {
		t.Error("records should keep going to the first file")
	}
	if _, err := os.Stat(second); !os.IsNotExist(err) {
		t.Error("second Init should not create a file")
	}
}

func TestInit_BadPath(t *testing.T) {
	resetState()
	t.Cleanup(resetState)

	if err := Init(filepath.Join(t.TempDir(), "missing", "dir", "x.log")); err == nil {
		t.Error("expected an error for an unwritable path")
	}
}

func TestSetDebug(t *testing.T) {
	logPath := setupTestLogger(t)
	log := WithComponent("test")

	log.Debug("hidden-at-info")
	SetDebug(true)
	log.Debug("shown-at-debug")
	SetDebug(false)
	log.Debug("hidden-again")

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden-at-info") || strings.Contains(content, "hidden-again") {
		t.Errorf("debug records leaked at info level:\n%s", content)
	}
	if !strings.Contains(content, "shown-at-debug") {
		t.Error("debug record missing at debug level")
	}
}

func TestWithComponent(t *testing.T) {
	logPath := setupTestLogger(t)

	WithComponent("store").Info("appended turn", "role", "user")

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=store") {
		t.Errorf("expected component attribute in log, got:\n%s", content)
	}
	if !strings.Contains(content, "role=user") {
		t.Errorf("expected role attribute in log, got:\n%s", content)
	}
}

func TestWithSession(t *testing.T) {
	logPath := setupTestLogger(t)

	WithSession("chat_003").Warn("delivery discarded")

	if !strings.Contains(readLog(t, logPath), "sessionID=chat_003") {
		t.Error("expected sessionID attribute in log")
	}
}

func TestClose_DropsLaterRecords(t *testing.T) {
	logPath := setupTestLogger(t)

	Close()
	WithComponent("test").Warn("after-close")

	if strings.Contains(readLog(t, logPath), "after-close") {
		t.Error("records after Close should be dropped")
	}

	// Init works again after Close.
	reopened := filepath.Join(t.TempDir(), "reopened.log")
	if err := Init(reopened); err != nil {
		t.Fatalf("Init() after Close error = %v", err)
	}
	WithComponent("test").Info("reopened-record")
	if !strings.Contains(readLog(t, reopened), "reopened-record") {
		t.Error("expected record in the reopened file")
	}
}

func TestConcurrentLoggers(t *testing.T) {
	logPath := setupTestLogger(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				WithSession("chat_001").Info("concurrent", "worker", n, "i", j)
			}
		}(i)
	}
	wg.Wait()

	if got := strings.Count(readLog(t, logPath), "msg=concurrent"); got != 500 {
		t.Errorf("wrote %d records, want 500", got)
	}
}

func TestClearLogs_Extra(t *testing.T) {
	extra := filepath.Join(t.TempDir(), "custom.log")
	if err := os.WriteFile(extra, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	count, err := ClearLogs(extra, extra)
	if err != nil {
		t.Fatalf("ClearLogs() error = %v", err)
	}
	if count < 1 {
		t.Errorf("ClearLogs() count = %d, want at least 1", count)
	}
	if _, err := os.Stat(extra); !os.IsNotExist(err) {
		t.Error("custom log should have been removed")
	}
}
