package app

import (
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/completion"
	"github.com/zhubert/parley/internal/config"
	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/session"
	"github.com/zhubert/parley/internal/ui"
)

// testConfig creates a default config bound to a temp file.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.SetFilePath(filepath.Join(t.TempDir(), "config.json"))
	return cfg
}

// testStore creates an empty history store in a temp dir.
func testStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.NewStore(filepath.Join(t.TempDir(), "chat_history"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

// seedLog writes turns for id directly through the store.
func seedLog(t *testing.T, store *session.Store, id session.ID, turns ...session.Turn) {
	t.Helper()
	if err := store.Create(id); err != nil {
		t.Fatalf("Create(%v): %v", id, err)
	}
	for _, turn := range turns {
		if err := store.Append(id, turn); err != nil {
			t.Fatalf("Append(%v): %v", id, err)
		}
	}
}

// testModel creates a sized Model over store with a mock client. Clipboard
// and notification side effects are stubbed out.
func testModel(t *testing.T, store *session.Store, client completion.Client) *Model {
	t.Helper()
	t.Cleanup(func() { ui.SetTheme(ui.DefaultTheme) })
	if client == nil {
		client = completion.NewMockClient()
	}
	m := New(testConfig(t), store, client, "0.0.0-test")
	m.copyText = func(string) error { return nil }
	m.notifyDone = func(string) error { return nil }
	return setSize(m, 120, 40)
}

// keyPress creates a tea.KeyPressMsg for the given key string.
// Examples: "a", "enter", "tab", "esc", "ctrl+c", "up", "down"
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case keys.F1:
		return tea.KeyPressMsg{Code: tea.KeyF1}
	case keys.F2:
		return tea.KeyPressMsg{Code: tea.KeyF2}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlS:
		return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	case keys.CtrlN:
		return tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
	case keys.CtrlW:
		return tea.KeyPressMsg{Code: 'w', Mod: tea.ModCtrl}
	case keys.CtrlO:
		return tea.KeyPressMsg{Code: 'o', Mod: tea.ModCtrl}
	case keys.CtrlP:
		return tea.KeyPressMsg{Code: 'p', Mod: tea.ModCtrl}
	case keys.CtrlT:
		return tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl}
	case keys.CtrlEnter:
		return tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModCtrl}
	case keys.CtrlLeft:
		return tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModCtrl}
	case keys.CtrlRight:
		return tea.KeyPressMsg{Code: tea.KeyRight, Mod: tea.ModCtrl}
	default:
		// Regular character - for single characters, set both Code and Text
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		// Fallback for unknown keys
		return tea.KeyPressMsg{Text: key}
	}
}

// sendKey sends a key press to the model and returns the updated model.
func sendKey(m *Model, key string) *Model {
	result, _ := m.Update(keyPress(key))
	return result.(*Model)
}

// typeText simulates typing a string by sending individual character key presses.
func typeText(m *Model, text string) *Model {
	for _, ch := range text {
		m = sendKey(m, string(ch))
	}
	return m
}

// setSize sends a window size message to the model.
func setSize(m *Model, width, height int) *Model {
	result, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return result.(*Model)
}

// submit sets the input text and submits it, returning the command the
// send produced.
func submit(m *Model, text string) tea.Cmd {
	m.input.SetValue(text)
	return m.submitInput()
}

// deliver runs a completion command and feeds its result back.
func deliver(t *testing.T, m *Model, cmd tea.Cmd) CompletionMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a completion command, got nil")
	}
	msg, ok := cmd().(CompletionMsg)
	if !ok {
		t.Fatal("command did not produce a CompletionMsg")
	}
	m.Update(msg)
	return msg
}

// roles returns the roles of a view's bubbles in order.
func roles(v *ui.MessageView) []session.Role {
	var out []session.Role
	for _, b := range v.Bubbles() {
		out = append(out, b.Role)
	}
	return out
}

// loadTurns reads back a log, failing the test on error.
func loadTurns(t *testing.T, store *session.Store, id session.ID) []session.Turn {
	t.Helper()
	turns, err := store.LoadAll(id)
	if err != nil {
		t.Fatalf("LoadAll(%v): %v", id, err)
	}
	return turns
}

// appendRaw writes raw bytes to the end of a log.
func appendRaw(t *testing.T, store *session.Store, id session.ID, data string) {
	t.Helper()
	f, err := os.OpenFile(store.Path(id), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		t.Fatalf("open %s: %v", store.Path(id), err)
	}
	defer f.Close()
	if _, err := f.WriteString(data); err != nil {
		t.Fatalf("write %s: %v", store.Path(id), err)
	}
}

// blockLog replaces the log for id with a non-empty directory, so writes
// and removal both fail.
func blockLog(t *testing.T, store *session.Store, id session.ID) {
	t.Helper()
	path := store.Path(id)
	if err := os.RemoveAll(path); err != nil {
		t.Fatalf("remove %s: %v", path, err)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0644); err != nil {
		t.Fatalf("write in %s: %v", path, err)
	}
}
