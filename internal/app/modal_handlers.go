package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/ui"
)

// handleModalKey routes modal key events to the appropriate handler based on modal state type.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch s := m.modal.State.(type) {
	case *ui.DeleteConfirmState:
		return m.handleDeleteConfirmModal(key, msg, s)
	case *ui.SettingsState:
		return m.handleSettingsModal(key, msg, s)
	case *ui.HelpState:
		return m.handleHelpModal(key, msg, s)
	}

	if key == keys.Escape {
		m.modal.Hide()
		return m, nil
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// confirmDelete opens the delete dialog for the chat last picked in the
// tree, falling back to the active chat.
func (m *Model) confirmDelete() tea.Cmd {
	target, ok := m.sessions.LastSelected()
	if !ok {
		active := m.sessions.Active()
		if active == nil {
			return nil
		}
		target = active.ID
	}
	m.modal.Show(ui.NewDeleteConfirmState(target, m.sessions.Title(target)))
	return nil
}

func (m *Model) handleDeleteConfirmModal(key string, msg tea.KeyPressMsg, state *ui.DeleteConfirmState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape, "n":
		m.modal.Hide()
		return m, nil
	case "y":
		m.modal.Hide()
		return m, m.deleteSession(state.Target)
	case keys.Enter:
		m.modal.Hide()
		if !state.Confirmed() {
			return m, nil
		}
		return m, m.deleteSession(state.Target)
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// showSettings opens the settings dialog seeded from the config.
func (m *Model) showSettings() tea.Cmd {
	m.modal.Show(ui.NewSettingsState(m.config.GetTheme(), m.config.GetNotificationsEnabled()))
	return nil
}

func (m *Model) handleSettingsModal(key string, msg tea.KeyPressMsg, state *ui.SettingsState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		m.modal.Hide()
		return m, m.applySettings(state)
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// applySettings switches the theme if it changed and persists both
// preferences.
func (m *Model) applySettings(state *ui.SettingsState) tea.Cmd {
	if state.Theme() != state.OriginalTheme {
		ui.SetThemeByName(state.Theme())
		m.refreshViews()
	}
	m.config.SetTheme(state.Theme())
	m.config.SetNotificationsEnabled(state.NotificationsEnabled())
	logger.WithComponent("app").Info("settings changed",
		"theme", state.Theme(), "notifications", state.NotificationsEnabled())

	if cmd := m.saveConfigOrFlash(); cmd != nil {
		return cmd
	}
	return m.ShowFlashSuccess("Settings saved")
}

// showHelp opens the help dialog.
func (m *Model) showHelp() tea.Cmd {
	m.modal.Show(ui.NewHelpState(m.helpSections()))
	return nil
}

func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, _ *ui.HelpState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape, keys.Enter, "q", keys.F1:
		m.modal.Hide()
		return m, nil
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}
