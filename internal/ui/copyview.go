package ui

import (
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"
)

// CopyView is a read-only overlay showing a plain-text transcript that
// can be copied to the clipboard in one go.
type CopyView struct {
	viewport viewport.Model
	title    string
	text     string
	open     bool
	width    int
	height   int
}

// NewCopyView creates a closed copy view.
func NewCopyView() *CopyView {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	return &CopyView{viewport: vp}
}

// Open shows text under the given title.
func (c *CopyView) Open(title, text string) {
	c.title = title
	c.text = text
	c.open = true
	c.setContent()
	c.viewport.GotoTop()
}

// Close hides the view.
func (c *CopyView) Close() {
	c.open = false
}

// IsOpen reports whether the view is showing.
func (c *CopyView) IsOpen() bool {
	return c.open
}

// Text returns the transcript exactly as it will be copied.
func (c *CopyView) Text() string {
	return c.text
}

// SetSize sets the outer dimensions.
func (c *CopyView) SetSize(width, height int) {
	c.width = width
	c.height = height
	ctx := GetViewContext()
	h := ctx.InnerHeight(height) - 1
	if h < 1 {
		h = 1
	}
	c.viewport.SetWidth(ctx.InnerWidth(width))
	c.viewport.SetHeight(h)
	c.setContent()
}

func (c *CopyView) setContent() {
	w := c.viewport.Width()
	if w <= 0 {
		w = DefaultWrapWidth
	}
	c.viewport.SetContent(wordwrap.String(c.text, w))
}

// Update scrolls the transcript.
func (c *CopyView) Update(msg tea.Msg) (*CopyView, tea.Cmd) {
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// View renders the overlay.
func (c *CopyView) View() string {
	title := PanelTitleStyle.Render("Copy mode · " + c.title)
	body := lipgloss.JoinVertical(lipgloss.Left, title, c.viewport.View())
	return CopyViewStyle.Width(c.width).Height(c.height).Render(body)
}
