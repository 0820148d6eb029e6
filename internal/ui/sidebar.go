package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/session"
)

const (
	sidebarRootLabel    = "Chats"
	sidebarNewButton    = "[+ New]"
	sidebarDeleteButton = "[✕ Delete]"
	sidebarButtonGap    = 2
)

// SelectionEvent is delivered to the selection handler whenever the
// selected row changes, whether a user or the program changed it.
// Root is set for the "Chats" row; ID is zero when the selection was
// cleared.
type SelectionEvent struct {
	ID   session.ID
	Root bool
}

// SidebarButton identifies one of the fixed buttons under the tree.
type SidebarButton int

const (
	ButtonNone SidebarButton = iota
	ButtonNew
	ButtonDelete
)

// SidebarNode is one chat entry in the tree.
type SidebarNode struct {
	ID      session.ID
	Label   string
	Pending bool
}

// Sidebar is the navigation tree: a "Chats" root with one leaf per chat,
// plus New and Delete buttons. Selecting a row, programmatically or by
// key, invokes the selection handler synchronously.
type Sidebar struct {
	nodes        []SidebarNode
	selected     int // row index, -1 for none; row 0 is the root
	cursor       int
	scrollOffset int
	width        int
	height       int
	focused      bool
	onSelect     func(SelectionEvent)
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	return &Sidebar{selected: -1}
}

// SetHandler installs the selection handler.
func (s *Sidebar) SetHandler(fn func(SelectionEvent)) {
	s.onSelect = fn
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.ensureVisible()
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// AddNode appends a leaf. Leaves keep insertion order, which is ascending
// id order because ids are minted monotonically.
func (s *Sidebar) AddNode(id session.ID, label string) {
	if s.index(id) >= 0 {
		return
	}
	s.nodes = append(s.nodes, SidebarNode{ID: id, Label: label})
}

// RemoveNode deletes a leaf. If it was selected the selection is cleared
// without an event; the caller picks the next selection.
func (s *Sidebar) RemoveNode(id session.ID) {
	i := s.index(id)
	if i < 0 {
		return
	}
	row := i + 1
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	switch {
	case s.selected == row:
		s.selected = -1
	case s.selected > row:
		s.selected--
	}
	if s.cursor >= row && s.cursor > 0 {
		s.cursor--
	}
	s.ensureVisible()
}

// Node returns the leaf for id.
func (s *Sidebar) Node(id session.ID) (SidebarNode, bool) {
	i := s.index(id)
	if i < 0 {
		return SidebarNode{}, false
	}
	return s.nodes[i], true
}

// NodeIDs returns leaf ids in display order.
func (s *Sidebar) NodeIDs() []session.ID {
	ids := make([]session.ID, len(s.nodes))
	for i, n := range s.nodes {
		ids[i] = n.ID
	}
	return ids
}

// SetLabel relabels a leaf.
func (s *Sidebar) SetLabel(id session.ID, label string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.nodes[i].Label = label
	return true
}

// SetPending marks a leaf as waiting on a reply.
func (s *Sidebar) SetPending(id session.ID, pending bool) {
	if i := s.index(id); i >= 0 {
		s.nodes[i].Pending = pending
	}
}

// Select selects the leaf for id and fires the handler. Unknown ids are
// ignored.
func (s *Sidebar) Select(id session.ID) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.selectRow(i + 1)
}

// SelectRoot selects the "Chats" row.
func (s *Sidebar) SelectRoot() {
	s.selectRow(0)
}

// ClearSelection deselects everything and fires the handler with an empty
// event.
func (s *Sidebar) ClearSelection() {
	s.selected = -1
	s.fire(SelectionEvent{})
}

// Selected returns the selected leaf id. ok is false when nothing or the
// root is selected.
func (s *Sidebar) Selected() (session.ID, bool) {
	if s.selected <= 0 || s.selected > len(s.nodes) {
		return 0, false
	}
	return s.nodes[s.selected-1].ID, true
}

// SelectRowAt selects the row under the given y offset within the sidebar
// and reports whether a row was hit.
func (s *Sidebar) SelectRowAt(y int) bool {
	row, ok := s.RowAt(y)
	if !ok {
		return false
	}
	s.selectRow(row)
	return true
}

// RowAt maps a y offset within the sidebar to a tree row.
func (s *Sidebar) RowAt(y int) (int, bool) {
	line := y - 1
	if line < 0 || line >= s.treeHeight() {
		return 0, false
	}
	row := s.scrollOffset + line
	if row > len(s.nodes) {
		return 0, false
	}
	return row, true
}

// ButtonAt maps a position within the sidebar to a button.
func (s *Sidebar) ButtonAt(x, y int) SidebarButton {
	if y != s.height-2 {
		return ButtonNone
	}
	col := x - 2
	newW := runewidth.StringWidth(sidebarNewButton)
	delStart := newW + sidebarButtonGap
	delEnd := delStart + runewidth.StringWidth(sidebarDeleteButton)
	switch {
	case col >= 0 && col < newW:
		return ButtonNew
	case col >= delStart && col < delEnd:
		return ButtonDelete
	}
	return ButtonNone
}

// Update handles cursor movement and selection while focused.
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	if !s.focused {
		return s, nil
	}
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch keyMsg.String() {
	case keys.Up, "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case keys.Down, "j":
		if s.cursor < len(s.nodes) {
			s.cursor++
		}
	case keys.Home:
		s.cursor = 0
	case keys.End:
		s.cursor = len(s.nodes)
	case keys.Enter:
		s.selectRow(s.cursor)
	}
	s.ensureVisible()
	return s, nil
}

func (s *Sidebar) index(id session.ID) int {
	for i, n := range s.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Sidebar) selectRow(row int) {
	s.selected = row
	s.cursor = row
	s.ensureVisible()

	ev := SelectionEvent{Root: row == 0}
	if row > 0 {
		ev.ID = s.nodes[row-1].ID
	}
	s.fire(ev)
}

func (s *Sidebar) fire(ev SelectionEvent) {
	logger.WithComponent("ui").Debug("tree selection", "id", ev.ID.String(), "root", ev.Root)
	if s.onSelect != nil {
		s.onSelect(ev)
	}
}

func (s *Sidebar) treeHeight() int {
	h := GetViewContext().InnerHeight(s.height) - SidebarButtonsHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (s *Sidebar) ensureVisible() {
	visible := s.treeHeight()
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	} else if s.cursor >= s.scrollOffset+visible {
		s.scrollOffset = s.cursor - visible + 1
	}
	maxScroll := len(s.nodes) + 1 - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scrollOffset > maxScroll {
		s.scrollOffset = maxScroll
	}
	if s.scrollOffset < 0 {
		s.scrollOffset = 0
	}
}

// View renders the sidebar
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerWidth := ctx.InnerWidth(s.width)
	textWidth := innerWidth - 2
	if textWidth < 1 {
		textWidth = 1
	}

	var lines []string
	for row := 0; row <= len(s.nodes); row++ {
		var text string
		if row == 0 {
			text = "▾ " + sidebarRootLabel
		} else {
			n := s.nodes[row-1]
			branch := "├ "
			if row == len(s.nodes) {
				branch = "└ "
			}
			text = branch + n.Label
			if n.Pending {
				text += " …"
			}
		}
		text = runewidth.FillRight(runewidth.Truncate(text, textWidth, "…"), textWidth)

		itemStyle := SidebarItemStyle
		switch {
		case row == s.selected:
			itemStyle = SidebarSelectedStyle
		case s.focused && row == s.cursor:
			itemStyle = SidebarCursorStyle
		case row == 0:
			itemStyle = SidebarRootStyle
		}
		lines = append(lines, itemStyle.Render(text))
	}

	visible := s.treeHeight()
	if s.scrollOffset < len(lines) {
		lines = lines[s.scrollOffset:]
	}
	if len(lines) > visible {
		lines = lines[:visible]
	}
	for len(lines) < visible {
		lines = append(lines, "")
	}

	buttons := " " + SidebarButtonStyle.Render(sidebarNewButton) +
		strings.Repeat(" ", sidebarButtonGap) +
		lipgloss.NewStyle().Foreground(ColorError).Bold(true).Render(sidebarDeleteButton)
	lines = append(lines, buttons)

	return style.
		Width(s.width).
		Height(s.height).
		Render(strings.Join(lines, "\n"))
}
