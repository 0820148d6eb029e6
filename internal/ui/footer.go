package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// DefaultFlashDuration is how long a notice stays in the footer.
const DefaultFlashDuration = 4 * time.Second

// FlashType selects the icon and color of a notice.
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

func (t FlashType) icon() string {
	switch t {
	case FlashError:
		return "✕"
	case FlashWarning:
		return "⚠"
	case FlashSuccess:
		return "✓"
	default:
		return "ℹ"
	}
}

func (t FlashType) color() lipgloss.Style {
	switch t {
	case FlashError:
		return lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	case FlashWarning:
		return lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	case FlashSuccess:
		return lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
	}
}

// FlashMessage is a transient notice shown in place of the key hints.
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the notice has outlived its duration.
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) >= f.Duration
}

// FlashTickMsg asks the model to drop an expired notice.
type FlashTickMsg time.Time

// FlashTick schedules the next expiry check.
func FlashTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FooterMode selects which key hints are shown.
type FooterMode int

const (
	FooterChat FooterMode = iota
	FooterSidebar
	FooterCopy
)

var footerBindings = map[FooterMode][]KeyBinding{
	FooterChat: {
		{Key: "ctrl+enter", Desc: "send"},
		{Key: "ctrl+n", Desc: "new"},
		{Key: "ctrl+w", Desc: "close tab"},
		{Key: "f2", Desc: "rename"},
		{Key: "ctrl+o", Desc: "copy mode"},
		{Key: "tab", Desc: "sidebar"},
	},
	FooterSidebar: {
		{Key: "↑/↓", Desc: "move"},
		{Key: "enter", Desc: "open"},
		{Key: "n", Desc: "new"},
		{Key: "d", Desc: "delete"},
		{Key: "tab", Desc: "chat"},
		{Key: "ctrl+c", Desc: "quit"},
	},
	FooterCopy: {
		{Key: "esc", Desc: "close"},
		{Key: "c", Desc: "copy to clipboard"},
		{Key: "↑/↓", Desc: "scroll"},
	},
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width        int
	mode         FooterMode
	flashMessage *FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetMode selects the key hints to show.
func (f *Footer) SetMode(mode FooterMode) {
	f.mode = mode
}

// SetFlash shows a notice for DefaultFlashDuration.
func (f *Footer) SetFlash(text string, t FlashType) {
	f.SetFlashWithDuration(text, t, DefaultFlashDuration)
}

// SetFlashWithDuration shows a notice for d.
func (f *Footer) SetFlashWithDuration(text string, t FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{Text: text, Type: t, CreatedAt: time.Now(), Duration: d}
}

// ClearFlash removes the current notice.
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a notice is showing.
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// Flash returns the current notice, or nil.
func (f *Footer) Flash() *FlashMessage {
	return f.flashMessage
}

// ClearIfExpired drops an expired notice and reports whether it did.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

// View renders the footer
func (f *Footer) View() string {
	inner := f.width - 2
	if inner < 0 {
		inner = 0
	}

	if f.flashMessage != nil {
		style := f.flashMessage.Type.color()
		line := style.Render(f.flashMessage.Type.icon()) + " " +
			lipgloss.NewStyle().Foreground(ColorText).Render(f.flashMessage.Text)
		return FooterStyle.Width(f.width).Render(ansi.Truncate(line, inner, "…"))
	}

	var parts []string
	for _, b := range footerBindings[f.mode] {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}
	sep := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
	content := strings.Join(parts, sep)
	return FooterStyle.Width(f.width).Render(ansi.Truncate(content, inner, "…"))
}
