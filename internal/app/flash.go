package app

import (
	tea "charm.land/bubbletea/v2"

	apperrors "github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/ui"
)

// ShowFlash displays a flash message in the footer and returns a command to start the auto-dismiss timer
func (m *Model) ShowFlash(text string, flashType ui.FlashType) tea.Cmd {
	m.footer.SetFlash(text, flashType)
	return ui.FlashTick()
}

// ShowFlashError displays an error flash message
func (m *Model) ShowFlashError(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashError)
}

// ShowFlashWarning displays a warning flash message
func (m *Model) ShowFlashWarning(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashWarning)
}

// ShowFlashInfo displays an info flash message
func (m *Model) ShowFlashInfo(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashInfo)
}

// ShowFlashSuccess displays a success flash message
func (m *Model) ShowFlashSuccess(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashSuccess)
}

// flashTypeFor picks how loudly an error is reported.
func flashTypeFor(err error) ui.FlashType {
	switch apperrors.GetKind(err) {
	case apperrors.KindInvariant, apperrors.KindIO, apperrors.KindMalformed:
		return ui.FlashWarning
	case apperrors.KindUnsupported:
		return ui.FlashInfo
	default:
		return ui.FlashError
	}
}

// reportError turns err into a footer notice. Nil is ignored.
func (m *Model) reportError(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	logger.WithComponent("app").Debug("reporting error", "kind", apperrors.GetKind(err).String(), "error", err)
	return m.ShowFlash(apperrors.Summary(err), flashTypeFor(err))
}

// reportWarnings flashes the session manager's collected warnings. Only the
// last one stays visible; all of them are logged.
func (m *Model) reportWarnings() tea.Cmd {
	var cmd tea.Cmd
	for _, err := range m.sessions.DrainWarnings() {
		cmd = m.reportError(err)
	}
	return cmd
}

// saveConfigOrFlash persists the config, flashing an error on failure.
func (m *Model) saveConfigOrFlash() tea.Cmd {
	if err := m.config.Save(); err != nil {
		logger.WithComponent("app").Error("failed to save config", "error", err)
		return m.ShowFlashError("Failed to save settings: " + apperrors.Summary(err))
	}
	return nil
}
