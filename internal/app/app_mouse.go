package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/ui"
)

// handleMouseClick routes a click to the tree, its buttons or the tab
// strip. Coordinates are translated into each panel's frame.
func (m *Model) handleMouseClick(msg tea.MouseClickMsg) tea.Cmd {
	if m.modal.IsVisible() || m.copyView.IsOpen() {
		return nil
	}

	ctx := ui.GetViewContext()
	x, y := msg.X, msg.Y-ui.HeaderHeight
	if y < 0 || y >= ctx.ContentHeight {
		return nil
	}

	if x < ctx.SidebarWidth {
		return m.handleSidebarClick(x, y)
	}

	mainX := x - ctx.SidebarWidth
	if y < ui.TabStripHeight {
		if id, ok := m.tabs.TabAt(mainX); ok {
			logger.WithComponent("app").Debug("tab clicked", "sessionID", id.String())
			return m.reportError(m.sessions.ActivateTab(id))
		}
		return nil
	}

	if m.focus != FocusChat {
		return m.setFocus(FocusChat)
	}
	return nil
}

func (m *Model) handleSidebarClick(x, y int) tea.Cmd {
	var cmd tea.Cmd
	if m.focus != FocusSidebar {
		cmd = m.setFocus(FocusSidebar)
	}

	switch m.sidebar.ButtonAt(x, y) {
	case ui.ButtonNew:
		return tea.Batch(cmd, m.newSession())
	case ui.ButtonDelete:
		return tea.Batch(cmd, m.confirmDelete())
	}

	// Selecting fires the tree handler, which opens the chat.
	m.sidebar.SelectRowAt(y)
	return cmd
}

// handleMouseWheel scrolls the active message view when the pointer is
// over the main column.
func (m *Model) handleMouseWheel(msg tea.MouseWheelMsg) tea.Cmd {
	if m.modal.IsVisible() {
		return nil
	}
	if m.copyView.IsOpen() {
		copyView, cmd := m.copyView.Update(msg)
		m.copyView = copyView
		return cmd
	}
	if msg.X < ui.GetViewContext().SidebarWidth {
		return nil
	}
	active := m.sessions.Active()
	if active == nil {
		return nil
	}
	_, cmd := active.View.Update(msg)
	return cmd
}
