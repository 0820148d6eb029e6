package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors and styles are derived from the current theme by regenerateStyles.
// They are package variables so render code can use them directly.
var (
	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorMuted       color.Color
	ColorBorder      color.Color
	ColorBorderFocus color.Color
	ColorBg          color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorUser        color.Color
	ColorAssistant   color.Color
	ColorSystem      color.Color
	ColorWarning     color.Color
	ColorInfo        color.Color
	ColorError       color.Color
	ColorSuccess     color.Color
)

// Header and footer
var (
	HeaderStyle      lipgloss.Style
	HeaderTitleStyle lipgloss.Style
	HeaderMutedStyle lipgloss.Style
	FooterStyle      lipgloss.Style
	FooterKeyStyle   lipgloss.Style
	FooterDescStyle  lipgloss.Style
)

// Panels, sidebar tree and tab strip
var (
	PanelStyle           lipgloss.Style
	PanelFocusedStyle    lipgloss.Style
	PanelTitleStyle      lipgloss.Style
	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style
	SidebarCursorStyle   lipgloss.Style
	SidebarRootStyle     lipgloss.Style
	SidebarButtonStyle   lipgloss.Style
	TabStyle             lipgloss.Style
	TabActiveStyle       lipgloss.Style
)

// Messages and input
var (
	ChatUserStyle         lipgloss.Style
	ChatAssistantStyle    lipgloss.Style
	ChatSystemStyle       lipgloss.Style
	ChatStatusStyle       lipgloss.Style
	ChatMessageStyle      lipgloss.Style
	ChatPlaceholderStyle  lipgloss.Style
	ChatInputStyle        lipgloss.Style
	ChatInputFocusedStyle lipgloss.Style
	CopyViewStyle         lipgloss.Style
)

// Modals
var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style
	ModalErrorStyle lipgloss.Style
)

// Markdown rendering
var (
	MarkdownH1Style          lipgloss.Style
	MarkdownH2Style          lipgloss.Style
	MarkdownH3Style          lipgloss.Style
	MarkdownH4Style          lipgloss.Style
	MarkdownBoldStyle        lipgloss.Style
	MarkdownItalicStyle      lipgloss.Style
	MarkdownInlineCodeStyle  lipgloss.Style
	MarkdownCodeLangStyle    lipgloss.Style
	MarkdownListBulletStyle  lipgloss.Style
	MarkdownBlockquoteStyle  lipgloss.Style
	MarkdownHRStyle          lipgloss.Style
	MarkdownLinkStyle        lipgloss.Style
	MarkdownTableBorderStyle lipgloss.Style
	MarkdownTableHeaderStyle lipgloss.Style
)

func init() {
	regenerateStyles()
}

// regenerateStyles updates all style variables based on the current theme
func regenerateStyles() {
	t := currentTheme

	ColorPrimary = lipgloss.Color(t.Primary)
	ColorSecondary = lipgloss.Color(t.Secondary)
	ColorMuted = lipgloss.Color(t.TextMuted)
	ColorBorder = lipgloss.Color(t.Border)
	ColorBorderFocus = lipgloss.Color(t.GetBorderFocus())
	ColorBg = lipgloss.Color(t.Bg)
	ColorText = lipgloss.Color(t.Text)
	ColorTextMuted = lipgloss.Color(t.TextMuted)
	ColorTextInverse = lipgloss.Color(t.TextInverse)
	ColorUser = lipgloss.Color(t.User)
	ColorAssistant = lipgloss.Color(t.Assistant)
	ColorSystem = lipgloss.Color(t.System)
	ColorWarning = lipgloss.Color(t.Warning)
	ColorInfo = lipgloss.Color(t.Info)
	ColorError = lipgloss.Color(t.Error)
	ColorSuccess = lipgloss.Color(t.Success)

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText).
		Background(ColorPrimary).
		Padding(0, 1)
	HeaderTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText)
	HeaderMutedStyle = lipgloss.NewStyle().
		Foreground(ColorText).
		Italic(true)

	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)
	FooterKeyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)
	FooterDescStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)
	PanelFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus)
	PanelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Padding(0, 1)

	SidebarItemStyle = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)
	SidebarSelectedStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(t.GetBgSelected())).
		Foreground(lipgloss.Color(t.Text)).
		Bold(true).
		Padding(0, 1)
	SidebarCursorStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Underline(true).
		Padding(0, 1)
	SidebarRootStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Bold(true).
		Padding(0, 1)
	SidebarButtonStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	TabStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)
	TabActiveStyle = lipgloss.NewStyle().
		Foreground(ColorTextInverse).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	ChatUserStyle = lipgloss.NewStyle().
		Foreground(ColorUser).
		Bold(true)
	ChatAssistantStyle = lipgloss.NewStyle().
		Foreground(ColorAssistant).
		Bold(true)
	ChatSystemStyle = lipgloss.NewStyle().
		Foreground(ColorSystem).
		Bold(true)
	ChatStatusStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Italic(true)
	ChatMessageStyle = lipgloss.NewStyle().
		Foreground(ColorText)
	ChatPlaceholderStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)
	ChatInputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)
	ChatInputFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus).
		Padding(0, 1)
	CopyViewStyle = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ColorWarning)

	MarkdownH1Style = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.MarkdownH1)).
		MarginTop(1)
	MarkdownH2Style = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.MarkdownH2)).
		MarginTop(1)
	MarkdownH3Style = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.MarkdownH3))
	MarkdownH4Style = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorTextMuted)
	MarkdownBoldStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText)
	MarkdownItalicStyle = lipgloss.NewStyle().
		Italic(true).
		Foreground(ColorText)
	MarkdownInlineCodeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownCode)).
		Background(lipgloss.Color(t.MarkdownCodeBg))
	MarkdownCodeLangStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)
	MarkdownListBulletStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownListItem))
	MarkdownBlockquoteStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true).
		BorderLeft(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	MarkdownHRStyle = lipgloss.NewStyle().
		Foreground(ColorBorder)
	MarkdownLinkStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownLink)).
		Underline(true)
	MarkdownTableBorderStyle = lipgloss.NewStyle().
		Foreground(ColorBorder)
	MarkdownTableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Width(ModalWidth)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		MarginTop(1)
	ModalErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
}
