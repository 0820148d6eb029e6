package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// Input is the prompt composer under the message panel.
type Input struct {
	textarea textarea.Model
	width    int
}

// NewInput creates the composer.
func NewInput() *Input {
	ta := textarea.New()
	ta.Placeholder = "Type a message, or /help for commands..."
	ta.CharLimit = InputCharLimit
	ta.SetHeight(TextareaHeight)
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	return &Input{textarea: ta}
}

// SetWidth sets the outer width including border and padding.
func (i *Input) SetWidth(width int) {
	i.width = width
	w := GetViewContext().InnerWidth(width) - InputPaddingWidth
	if w < 1 {
		w = 1
	}
	i.textarea.SetWidth(w)
}

// Focus focuses the composer.
func (i *Input) Focus() tea.Cmd {
	return i.textarea.Focus()
}

// Blur removes focus.
func (i *Input) Blur() {
	i.textarea.Blur()
}

// Focused reports whether the composer has focus.
func (i *Input) Focused() bool {
	return i.textarea.Focused()
}

// Value returns the current text.
func (i *Input) Value() string {
	return i.textarea.Value()
}

// SetValue replaces the current text.
func (i *Input) SetValue(s string) {
	i.textarea.SetValue(s)
}

// Reset clears the text.
func (i *Input) Reset() {
	i.textarea.Reset()
}

// Count returns the number of user-perceived characters typed.
func (i *Input) Count() int {
	return uniseg.GraphemeClusterCount(i.textarea.Value())
}

// Update forwards editing keys to the textarea.
func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	var cmd tea.Cmd
	i.textarea, cmd = i.textarea.Update(msg)
	return i, cmd
}

// View renders the bordered composer with a character counter in the top
// border once something is typed.
func (i *Input) View() string {
	style := ChatInputStyle
	if i.textarea.Focused() {
		style = ChatInputFocusedStyle
	}
	box := style.Width(i.width).Render(i.textarea.View())

	n := i.Count()
	if n == 0 {
		return box
	}
	label := lipgloss.NewStyle().Foreground(ColorTextMuted).Render(fmt.Sprintf(" %d ", n))
	lines := strings.Split(box, "\n")
	top := lines[0]
	tw := ansi.StringWidth(top)
	lw := ansi.StringWidth(label)
	if tw < lw+4 {
		return box
	}
	lines[0] = ansi.Truncate(top, tw-lw-2, "") + label + ansi.Cut(top, tw-2, tw)
	return strings.Join(lines, "\n")
}
