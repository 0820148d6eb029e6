package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	apperrors "github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/ui"
)

func TestShowFlash(t *testing.T) {
	m := testModel(t, testStore(t), nil)

	tests := []struct {
		name string
		show func(string) tea.Cmd
		want ui.FlashType
	}{
		{"error", m.ShowFlashError, ui.FlashError},
		{"warning", m.ShowFlashWarning, ui.FlashWarning},
		{"info", m.ShowFlashInfo, ui.FlashInfo},
		{"success", m.ShowFlashSuccess, ui.FlashSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.show(tt.name)
			flash := m.footer.Flash()
			if flash == nil || flash.Text != tt.name || flash.Type != tt.want {
				t.Errorf("flash = %+v", flash)
			}
		})
	}
}

func TestShowFlash_ReturnsTick(t *testing.T) {
	m := testModel(t, testStore(t), nil)
	if cmd := m.ShowFlashInfo("hi"); cmd == nil {
		t.Error("expected a tick command")
	}
}

func TestFlashTypeFor(t *testing.T) {
	tests := []struct {
		err  error
		want ui.FlashType
	}{
		{apperrors.Refused("op", "no"), ui.FlashWarning},
		{apperrors.HistoryIO("op", "/x", errors.New("disk full")), ui.FlashWarning},
		{apperrors.RecordMalformed("/x", 3, errors.New("bad")), ui.FlashWarning},
		{apperrors.Unsupported("op", "no"), ui.FlashInfo},
		{apperrors.SessionNotFound("chat_009"), ui.FlashError},
		{errors.New("plain"), ui.FlashError},
	}
	for _, tt := range tests {
		if got := flashTypeFor(tt.err); got != tt.want {
			t.Errorf("flashTypeFor(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestReportError(t *testing.T) {
	m := testModel(t, testStore(t), nil)

	if cmd := m.reportError(nil); cmd != nil {
		t.Error("nil error should not flash")
	}
	if m.footer.HasFlash() {
		t.Fatal("unexpected flash")
	}

	m.reportError(apperrors.Refused("app.CloseTab", "Cannot close the last remaining tab."))
	flash := m.footer.Flash()
	if flash == nil || flash.Text != "Cannot close the last remaining tab." {
		t.Errorf("flash = %+v", flash)
	}
}

func TestSaveConfigOrFlash(t *testing.T) {
	m := testModel(t, testStore(t), nil)

	if cmd := m.saveConfigOrFlash(); cmd != nil {
		t.Errorf("save to a temp dir should succeed, flash = %+v", m.footer.Flash())
	}
	if _, err := os.Stat(m.config.Path()); err != nil {
		t.Errorf("config not written: %v", err)
	}
}

func TestSaveConfigOrFlash_Failure(t *testing.T) {
	m := testModel(t, testStore(t), nil)

	// A regular file where the config directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	m.config.SetFilePath(filepath.Join(blocker, "config.json"))

	if cmd := m.saveConfigOrFlash(); cmd == nil {
		t.Fatal("expected a flash command on failure")
	}
	flash := m.footer.Flash()
	if flash == nil || flash.Type != ui.FlashError || !strings.HasPrefix(flash.Text, "Failed to save settings") {
		t.Errorf("flash = %+v", flash)
	}
}

func TestFlashTick(t *testing.T) {
	m := testModel(t, testStore(t), nil)

	if _, cmd := m.Update(ui.FlashTickMsg(time.Now())); cmd != nil {
		t.Error("no flash, no further ticks")
	}

	m.footer.SetFlashWithDuration("gone", ui.FlashInfo, 0)
	if _, cmd := m.Update(ui.FlashTickMsg(time.Now())); cmd != nil {
		t.Error("expired flash should stop ticking")
	}
	if m.footer.HasFlash() {
		t.Error("expired flash should be cleared")
	}

	m.footer.SetFlashWithDuration("stays", ui.FlashInfo, time.Hour)
	if _, cmd := m.Update(ui.FlashTickMsg(time.Now())); cmd == nil {
		t.Error("live flash should keep ticking")
	}
}
