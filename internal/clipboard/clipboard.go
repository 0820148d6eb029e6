// Package clipboard copies transcripts to and reads text from the system
// clipboard.
package clipboard

import (
	"sync"

	"golang.design/x/clipboard"

	apperrors "github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/logger"
)

var (
	mu          sync.Mutex
	initialized bool
	initErr     error

	// backend calls are swapped in tests; the real clipboard needs a display.
	initBackend  = clipboard.Init
	writeBackend = func(b []byte) { clipboard.Write(clipboard.FmtText, b) }
	readBackend  = func() []byte { return clipboard.Read(clipboard.FmtText) }
)

// Init initializes the clipboard. It is safe to call multiple times; a
// failure is remembered so headless sessions do not retry on every copy.
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if initialized || initErr != nil {
		return initErr
	}
	log := logger.WithComponent("clipboard")
	if err := initBackend(); err != nil {
		log.Warn("clipboard unavailable", "error", err)
		initErr = apperrors.Unsupported("clipboard.Init", "system clipboard is unavailable: "+err.Error())
		return initErr
	}
	initialized = true
	log.Debug("clipboard initialized")
	return nil
}

// WriteText places text on the clipboard.
func WriteText(text string) error {
	if err := Init(); err != nil {
		return err
	}
	writeBackend([]byte(text))
	logger.WithComponent("clipboard").Debug("copied text", "bytes", len(text))
	return nil
}

// ReadText reads text from the clipboard.
func ReadText() (string, error) {
	if err := Init(); err != nil {
		return "", err
	}
	b := readBackend()
	if b == nil {
		return "", nil
	}
	return string(b), nil
}

// reset clears initialization state. Tests only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	initialized = false
	initErr = nil
}
