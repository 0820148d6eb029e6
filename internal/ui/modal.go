package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/session"
)

// ModalState is implemented by each dialog. The app layer owns Enter and
// Escape; everything else is delegated to Update.
type ModalState interface {
	modalState()
	Title() string
	Help() string
	Render() string
	Update(msg tea.Msg) (ModalState, tea.Cmd)
}

// Modal holds the dialog currently shown over the main layout.
// State is nil when no dialog is visible.
type Modal struct {
	State ModalState
	error string
}

// NewModal creates a new modal
func NewModal() *Modal {
	return &Modal{}
}

// Show displays a modal with the given state
func (m *Modal) Show(state ModalState) {
	m.State = state
	m.error = ""
}

// Hide hides the modal
func (m *Modal) Hide() {
	m.State = nil
	m.error = ""
}

// IsVisible returns whether the modal is visible
func (m *Modal) IsVisible() bool {
	return m.State != nil
}

// SetError sets an error message
func (m *Modal) SetError(err string) {
	m.error = err
}

// GetError returns the current error message
func (m *Modal) GetError() string {
	return m.error
}

// Update handles messages by delegating to the current state
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if m.State == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.State, cmd = m.State.Update(msg)
	return m, cmd
}

// View renders the modal centered on a screen of the given size.
func (m *Modal) View(screenWidth, screenHeight int) string {
	if m.State == nil {
		return ""
	}

	content := m.State.Render()
	if m.error != "" {
		content += "\n" + ModalErrorStyle.Render(m.error)
	}

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		ModalStyle.Render(content),
	)
}

// huhFormUpdate forwards msg to form, holding back Enter and Escape
// for the app-layer handlers.
func huhFormUpdate(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Enter, keys.Escape:
			return form, nil
		}
	}
	m, cmd := form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		form = f
	}
	return form, cmd
}

// modalTheme builds a huh theme from the current palette. It is called per
// form so a theme switch is picked up by the next dialog.
func modalTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		t.Focused.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		t.Focused.Card = t.Focused.Base
		t.Focused.Title = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
		t.Focused.Description = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
		t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(ColorPrimary).SetString("> ")
		t.Focused.Option = lipgloss.NewStyle().Foreground(ColorText)
		t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
		t.Focused.FocusedButton = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Foreground(ColorTextInverse).
			Background(ColorPrimary)
		t.Focused.BlurredButton = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Foreground(ColorTextMuted)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base

		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		t.Help = help.New().Styles
		return t
	})
}

func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).
		WithTheme(modalTheme()).
		WithShowHelp(false).
		WithWidth(ModalInputWidth).
		WithLayout(huh.LayoutStack)
	form.Init()
	return form
}

// =============================================================================
// DeleteConfirmState - confirm permanent deletion of a chat
// =============================================================================

// DeleteConfirmState asks before a chat and its history file are removed.
type DeleteConfirmState struct {
	Target    session.ID
	Label     string
	confirmed bool
	form      *huh.Form
}

func (*DeleteConfirmState) modalState() {}

func (s *DeleteConfirmState) Title() string { return "Delete Chat" }

func (s *DeleteConfirmState) Help() string {
	return "←/→: choose  y: delete  Enter: confirm  Esc: cancel"
}

func (s *DeleteConfirmState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *DeleteConfirmState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Confirmed reports whether "Delete" is the chosen button.
func (s *DeleteConfirmState) Confirmed() bool {
	return s.confirmed
}

// NewDeleteConfirmState builds the dialog for the given chat. Cancel is
// the initial choice.
func NewDeleteConfirmState(target session.ID, label string) *DeleteConfirmState {
	s := &DeleteConfirmState{Target: target, Label: label}
	s.form = newForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q?", label)).
			Description("Its history file is removed from disk.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&s.confirmed),
	))
	return s
}

// =============================================================================
// SettingsState - theme and notification preferences
// =============================================================================

// SettingsState edits the persisted UI preferences.
type SettingsState struct {
	OriginalTheme string
	selectedTheme string
	notifications bool
	form          *huh.Form
}

func (*SettingsState) modalState() {}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next field  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Theme returns the selected theme name.
func (s *SettingsState) Theme() string { return s.selectedTheme }

// NotificationsEnabled returns the selected notification preference.
func (s *SettingsState) NotificationsEnabled() bool { return s.notifications }

// NewSettingsState builds the dialog seeded with the current preferences.
func NewSettingsState(theme string, notifications bool) *SettingsState {
	if !IsThemeName(theme) {
		theme = string(DefaultTheme)
	}
	s := &SettingsState{
		OriginalTheme: theme,
		selectedTheme: theme,
		notifications: notifications,
	}

	names := ThemeNames()
	options := make([]huh.Option[string], len(names))
	for i, name := range names {
		options[i] = huh.NewOption(GetTheme(name).Name, string(name))
	}

	s.form = newForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Theme").
			Options(options...).
			Value(&s.selectedTheme),
		huh.NewConfirm().
			Title("Desktop notifications").
			Description("Notify when a background chat gets a reply").
			Affirmative("On").
			Negative("Off").
			Value(&s.notifications),
	))
	return s
}

// =============================================================================
// HelpState - key bindings and commands
// =============================================================================

// HelpEntry is one row of the help dialog.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpSection groups help rows under a heading.
type HelpSection struct {
	Title   string
	Entries []HelpEntry
}

// HelpState lists key bindings and slash commands.
type HelpState struct {
	Sections []HelpSection
}

func (*HelpState) modalState() {}

func (s *HelpState) Title() string { return "Help" }

func (s *HelpState) Help() string { return "Esc: close" }

func (s *HelpState) Render() string {
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorText)
	sectionStyle := lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)

	var b strings.Builder
	for i, sec := range s.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.Title))
		b.WriteString("\n")
		for _, e := range sec.Entries {
			b.WriteString("  " + keyStyle.Render(e.Key) + descStyle.Render(e.Desc) + "\n")
		}
	}

	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.TrimRight(b.String(), "\n"), help)
}

func (s *HelpState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	return s, nil
}

// NewHelpState creates the help dialog.
func NewHelpState(sections []HelpSection) *HelpState {
	return &HelpState{Sections: sections}
}
