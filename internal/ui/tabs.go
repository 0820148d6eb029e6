package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/parley/internal/session"
)

// Tab is one open chat in the tab strip. It owns the chat's message view.
type Tab struct {
	ID      session.ID
	Title   string
	View    *MessageView
	Pending bool
}

type tabHitbox struct {
	start, end int
	id         session.ID
}

// Tabs is the tab strip above the message panel. At most one tab is
// active; the strip does not itself keep one open.
type Tabs struct {
	tabs     []*Tab
	active   int
	width    int
	hitboxes []tabHitbox
}

// NewTabs creates an empty tab strip.
func NewTabs() *Tabs {
	return &Tabs{active: -1}
}

// SetWidth sets the strip width.
func (t *Tabs) SetWidth(width int) {
	t.width = width
}

// Add appends a tab. It returns false if a tab for the id is already open.
func (t *Tabs) Add(tab *Tab) bool {
	if t.Index(tab.ID) >= 0 {
		return false
	}
	t.tabs = append(t.tabs, tab)
	return true
}

// Remove closes the tab for id and returns it. Removing the active tab
// leaves no tab active.
func (t *Tabs) Remove(id session.ID) (*Tab, bool) {
	i := t.Index(id)
	if i < 0 {
		return nil, false
	}
	tab := t.tabs[i]
	t.tabs = append(t.tabs[:i], t.tabs[i+1:]...)
	switch {
	case t.active == i:
		t.active = -1
	case t.active > i:
		t.active--
	}
	return tab, true
}

// Index returns the position of the tab for id, or -1.
func (t *Tabs) Index(id session.ID) int {
	for i, tab := range t.tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the open tab for id.
func (t *Tabs) Get(id session.ID) (*Tab, bool) {
	if i := t.Index(id); i >= 0 {
		return t.tabs[i], true
	}
	return nil, false
}

// IDs returns the open tab ids in strip order.
func (t *Tabs) IDs() []session.ID {
	ids := make([]session.ID, len(t.tabs))
	for i, tab := range t.tabs {
		ids[i] = tab.ID
	}
	return ids
}

// Len returns the number of open tabs.
func (t *Tabs) Len() int {
	return len(t.tabs)
}

// SetActive activates the tab for id.
func (t *Tabs) SetActive(id session.ID) bool {
	i := t.Index(id)
	if i < 0 {
		return false
	}
	t.active = i
	return true
}

// Active returns the active tab, or nil.
func (t *Tabs) Active() *Tab {
	if t.active < 0 || t.active >= len(t.tabs) {
		return nil
	}
	return t.tabs[t.active]
}

// Relabel changes a tab's title.
func (t *Tabs) Relabel(id session.ID, title string) bool {
	tab, ok := t.Get(id)
	if !ok {
		return false
	}
	tab.Title = title
	return true
}

// TabAt returns the tab under column x of the last rendered strip.
func (t *Tabs) TabAt(x int) (session.ID, bool) {
	for _, h := range t.hitboxes {
		if x >= h.start && x < h.end {
			return h.id, true
		}
	}
	return 0, false
}

func tabLabel(tab *Tab) string {
	label := tab.Title
	if label == "" {
		label = tab.ID.String()
	}
	label = ansi.Truncate(label, MaxTabLabelWidth, "…")
	if tab.Pending {
		label += " …"
	}
	return label
}

// View renders the strip and records click hitboxes.
func (t *Tabs) View() string {
	t.hitboxes = t.hitboxes[:0]

	labels := make([]string, len(t.tabs))
	widths := make([]int, len(t.tabs))
	for i, tab := range t.tabs {
		style := TabStyle
		if i == t.active {
			style = TabActiveStyle
		}
		labels[i] = style.Render(tabLabel(tab))
		widths[i] = ansi.StringWidth(labels[i])
	}

	sep := lipgloss.NewStyle().Foreground(ColorBorder).Render("│")
	sepWidth := ansi.StringWidth(sep)

	// Drop tabs from the left until the active one fits.
	first := 0
	total := func(from, to int) int {
		w := 0
		for i := from; i <= to && i < len(widths); i++ {
			w += widths[i]
			if i > from {
				w += sepWidth
			}
		}
		return w
	}
	if t.active >= 0 {
		for first < t.active && total(first, t.active) > t.width {
			first++
		}
	}

	var parts []string
	x := 0
	for i := first; i < len(labels); i++ {
		if i > first {
			if x+sepWidth+widths[i] > t.width && t.width > 0 {
				break
			}
			parts = append(parts, sep)
			x += sepWidth
		}
		t.hitboxes = append(t.hitboxes, tabHitbox{start: x, end: x + widths[i], id: t.tabs[i].ID})
		parts = append(parts, labels[i])
		x += widths[i]
	}

	line := strings.Join(parts, "")
	if t.width > 0 {
		line = ansi.Truncate(line, t.width, "")
		if pad := t.width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
	}
	return line
}
