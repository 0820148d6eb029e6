package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/parley/internal/ui"
)

// updateSizes recalculates and applies dimensions to all UI components
func (m *Model) updateSizes() {
	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)
	m.sidebar.SetSize(ctx.SidebarWidth, ctx.ContentHeight)
	m.tabs.SetWidth(ctx.MainWidth)
	m.input.SetWidth(ctx.MainWidth)
	m.copyView.SetSize(ctx.MainWidth, ctx.ContentHeight)

	for _, id := range m.sessions.Registry().IDs() {
		if s, ok := m.sessions.Registry().Get(id); ok {
			s.View.SetSize(ctx.MainWidth, ctx.MessagesHeight())
		}
	}
}

// View renders the app
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current view as a string.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Overlay modal if visible
	if m.modal.IsVisible() {
		return m.modal.View(m.width, m.height)
	}

	var main string
	if m.copyView.IsOpen() {
		main = m.copyView.View()
	} else {
		var messages string
		if active := m.sessions.Active(); active != nil {
			messages = active.View.View(m.focus == FocusChat)
		}
		main = lipgloss.JoinVertical(
			lipgloss.Left,
			m.tabs.View(),
			messages,
			m.input.View(),
		)
	}

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.sidebar.View(),
		main,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		panels,
		m.footer.View(),
	)
}
