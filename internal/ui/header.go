package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

const headerTitle = " parley"

// Header represents the top header bar
type Header struct {
	width        int
	sessionTitle string
	sessionID    string
	pending      bool
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetSession sets the active session shown on the right. An empty title
// clears it.
func (h *Header) SetSession(title, id string, pending bool) {
	h.sessionTitle = title
	h.sessionID = id
	h.pending = pending
}

// View renders the header
func (h *Header) View() string {
	var right, muted string
	if h.sessionTitle != "" {
		right = h.sessionTitle
		if h.sessionID != "" && h.sessionID != h.sessionTitle {
			muted = " (" + h.sessionID + ")"
		}
		if h.pending {
			muted += " · waiting"
		}
	}
	rightText := right + muted
	if rightText != "" {
		rightText += " "
	}

	avail := h.width - runewidth.StringWidth(headerTitle)
	truncated := false
	if avail > 1 && runewidth.StringWidth(rightText) > avail-1 {
		rightText = runewidth.Truncate(rightText, avail-1, "…")
		truncated = true
	}
	padding := avail - runewidth.StringWidth(rightText)
	if padding < 0 {
		padding = 0
	}

	content := headerTitle + strings.Repeat(" ", padding) + rightText
	mutedFrom := -1
	if muted != "" && !truncated {
		mutedFrom = len([]rune(content)) - len([]rune(muted)) - 1
	}
	return h.renderGradient(content, mutedFrom)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders content over a background fading from the primary
// color to the theme background. Runes from mutedFrom on use the muted text
// color; pass -1 for none.
func (h *Header) renderGradient(content string, mutedFrom int) string {
	if content == "" {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	runes := []rune(content)
	n := len(runes)
	titleLen := len([]rune(headerTitle))
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(n)
		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Bold(i < titleLen)
		if mutedFrom >= 0 && i >= mutedFrom {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
