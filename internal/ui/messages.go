package ui

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/session"
)

// Bubble is one rendered message in a MessageView. Ephemeral bubbles
// (welcome text, the thinking placeholder) are display-only.
type Bubble struct {
	Handle    int
	Role      session.Role
	Content   string
	Ephemeral bool
}

// MessageView is the scrollable per-session message list.
type MessageView struct {
	viewport   viewport.Model
	bubbles    []Bubble
	nextHandle int
	width      int
	height     int

	// Rendered bubbles keyed by handle, valid for cacheWidth and cacheTheme.
	cache      map[int]string
	cacheWidth int
	cacheTheme ThemeName
}

// NewMessageView creates an empty message view.
func NewMessageView() *MessageView {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &MessageView{
		viewport:   vp,
		nextHandle: 1,
		cache:      make(map[int]string),
	}
}

// SetSize sets the outer panel dimensions.
func (v *MessageView) SetSize(width, height int) {
	v.width = width
	v.height = height

	ctx := GetViewContext()
	innerHeight := ctx.InnerHeight(height)
	if innerHeight < 1 {
		innerHeight = 1
	}
	v.viewport.SetWidth(ctx.InnerWidth(width))
	v.viewport.SetHeight(innerHeight)
	v.refresh()
}

// Mount appends a bubble and returns its handle.
func (v *MessageView) Mount(role session.Role, content string, ephemeral bool) int {
	h := v.nextHandle
	v.nextHandle++
	v.bubbles = append(v.bubbles, Bubble{Handle: h, Role: role, Content: content, Ephemeral: ephemeral})
	v.refresh()
	return h
}

// Remove drops the bubble with the given handle and reports whether it
// existed.
func (v *MessageView) Remove(handle int) bool {
	for i, b := range v.bubbles {
		if b.Handle == handle {
			v.bubbles = append(v.bubbles[:i], v.bubbles[i+1:]...)
			delete(v.cache, handle)
			v.refresh()
			return true
		}
	}
	return false
}

// Load replaces the contents with persisted turns.
func (v *MessageView) Load(turns []session.Turn) {
	v.bubbles = v.bubbles[:0]
	v.cache = make(map[int]string)
	for _, t := range turns {
		v.bubbles = append(v.bubbles, Bubble{Handle: v.nextHandle, Role: t.Role, Content: t.Content})
		v.nextHandle++
	}
	v.refresh()
}

// Bubbles returns a copy of the mounted bubbles in display order.
func (v *MessageView) Bubbles() []Bubble {
	out := make([]Bubble, len(v.bubbles))
	copy(out, v.bubbles)
	return out
}

// Persisted returns the role and content of every non-ephemeral bubble,
// which is what the session log should hold.
func (v *MessageView) Persisted() []session.Turn {
	var out []session.Turn
	for _, b := range v.bubbles {
		if !b.Ephemeral {
			out = append(out, session.Turn{Role: b.Role, Content: b.Content})
		}
	}
	return out
}

// Len returns the number of mounted bubbles.
func (v *MessageView) Len() int {
	return len(v.bubbles)
}

// Refresh re-renders every bubble, e.g. after a theme change.
func (v *MessageView) Refresh() {
	v.cache = make(map[int]string)
	v.refresh()
}

func (v *MessageView) wrapWidth() int {
	w := v.viewport.Width()
	if w <= 0 {
		w = DefaultWrapWidth
	}
	return w
}

func (v *MessageView) refresh() {
	width := v.wrapWidth()
	theme := CurrentThemeName()
	if width != v.cacheWidth || theme != v.cacheTheme {
		v.cache = make(map[int]string)
		v.cacheWidth = width
		v.cacheTheme = theme
	}

	var sb strings.Builder
	if len(v.bubbles) == 0 {
		sb.WriteString(ChatPlaceholderStyle.Render("No messages yet."))
	}
	for i, b := range v.bubbles {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		r, ok := v.cache[b.Handle]
		if !ok {
			r = renderBubble(b, width)
			v.cache[b.Handle] = r
		}
		sb.WriteString(r)
	}

	v.viewport.SetContent(sb.String())
	v.viewport.GotoBottom()
}

// roleLabel returns the heading shown above a bubble.
func roleLabel(role session.Role) (string, lipgloss.Style) {
	switch role {
	case session.RoleUser:
		return "You", ChatUserStyle
	case session.RoleAssistant:
		return "Assistant", ChatAssistantStyle
	case session.RoleSystem:
		return "System", ChatSystemStyle
	}
	return "", ChatStatusStyle
}

func renderBubble(b Bubble, width int) string {
	content := strings.TrimSpace(b.Content)
	if b.Role == session.RoleStatus {
		return ChatStatusStyle.Render(strings.Trim(content, "_"))
	}
	label, style := roleLabel(b.Role)
	return style.Render(label+":") + "\n" + renderMarkdown(content, width)
}

// Update handles scrolling.
func (v *MessageView) Update(msg tea.Msg) (*MessageView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case keys.PgUp, keys.PgDown, "ctrl+u", "ctrl+d":
		default:
			return v, nil
		}
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// AtBottom reports whether the view is scrolled to the end.
func (v *MessageView) AtBottom() bool {
	return v.viewport.AtBottom()
}

// View renders the bordered message panel.
func (v *MessageView) View(focused bool) string {
	style := PanelStyle
	if focused {
		style = PanelFocusedStyle
	}
	return style.Width(v.width).Height(v.height).Render(v.viewport.View())
}
