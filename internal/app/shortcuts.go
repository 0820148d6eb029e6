package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/ui"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all shortcuts in the application.
type Shortcut struct {
	Key             string                              // The key binding (e.g., "ctrl+n")
	Aliases         []string                            // Other keys bound to the same action
	DisplayKey      string                              // Display name in help (e.g., "Ctrl+N"); defaults to Key
	Description     string                              // Human-readable description
	Category        string                              // Section for help modal grouping
	RequiresSidebar bool                                // Must not be in chat focus
	Handler         func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition       func(m *Model) bool                 // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryChats         = "Chats"
	CategoryNavigation    = "Navigation"
	CategoryConfiguration = "Configuration"
	CategoryCommands      = "Commands"
	CategoryGeneral       = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryChats,
	CategoryNavigation,
	CategoryConfiguration,
	CategoryGeneral,
}

// ShortcutRegistry is the central registry of all keyboard shortcuts.
// Add new shortcuts in init and they will automatically appear in the help
// modal. It is filled in init because the handlers reach helpSections, which
// reads the registry.
var ShortcutRegistry []Shortcut

func init() {
	ShortcutRegistry = []Shortcut{
		// Chats
		{
			Key:         keys.CtrlEnter,
			Aliases:     []string{keys.AltEnter, keys.CtrlS},
			DisplayKey:  "ctrl+enter / alt+enter / ctrl+s",
			Description: "Send message",
			Category:    CategoryChats,
			Handler:     shortcutSend,
		},
		{
			Key:         keys.CtrlN,
			Description: "New chat",
			Category:    CategoryChats,
			Handler:     shortcutNewSession,
		},
		{
			Key:         keys.CtrlW,
			Description: "Close chat tab (history is kept)",
			Category:    CategoryChats,
			Handler:     shortcutCloseTab,
		},
		{
			Key:         keys.F2,
			Description: "Rename chat to the input text",
			Category:    CategoryChats,
			Handler:     shortcutRename,
		},
		{
			Key:         keys.CtrlO,
			Aliases:     []string{keys.CtrlShiftC},
			DisplayKey:  "ctrl+o / ctrl+shift+c",
			Description: "Copy mode",
			Category:    CategoryChats,
			Handler:     shortcutCopyMode,
		},
		{
			Key:             "n",
			Description:     "New chat",
			Category:        CategoryChats,
			RequiresSidebar: true,
			Handler:         shortcutNewSession,
		},
		{
			Key:             "d",
			Description:     "Delete selected chat",
			Category:        CategoryChats,
			RequiresSidebar: true,
			Handler:         shortcutDeleteSelected,
		},

		// Navigation
		{
			Key:         keys.Tab,
			Description: "Switch between chat list and input",
			Category:    CategoryNavigation,
			Handler:     shortcutToggleFocus,
		},
		{
			Key:         keys.CtrlRight,
			Description: "Next tab",
			Category:    CategoryNavigation,
			Handler:     shortcutNextTab,
		},
		{
			Key:         keys.CtrlLeft,
			Description: "Previous tab",
			Category:    CategoryNavigation,
			Handler:     shortcutPrevTab,
		},

		// Configuration
		{
			Key:         keys.CtrlT,
			Description: "Toggle light/dark theme",
			Category:    CategoryConfiguration,
			Handler:     shortcutToggleTheme,
		},
		{
			Key:         keys.CtrlP,
			Description: "Settings",
			Category:    CategoryConfiguration,
			Handler:     shortcutSettings,
		},
	}
}

// helpShortcut is dispatched ahead of the registry so F1 works from any
// focus.
var helpShortcut = Shortcut{
	Key:         keys.F1,
	Description: "Show this help",
	Category:    CategoryGeneral,
}

// DisplayOnlyShortcuts are shown in help but not dispatched through the registry.
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "↑/↓ or j/k", Description: "Move in chat list", Category: CategoryNavigation},
	{DisplayKey: "Enter", Description: "Open chat under cursor", Category: CategoryNavigation},
	{DisplayKey: "PgUp/PgDn", Description: "Scroll messages", Category: CategoryNavigation},
	{DisplayKey: "Click", Description: "Select chat, tab or button", Category: CategoryNavigation},
	{DisplayKey: "ctrl+c", Description: "Quit", Category: CategoryGeneral},
}

// matches reports whether key triggers s.
func (s Shortcut) matches(key string) bool {
	if s.Key == key {
		return true
	}
	for _, alias := range s.Aliases {
		if alias == key {
			return true
		}
	}
	return false
}

// isShortcutApplicable checks if a shortcut is applicable given the current model state.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresSidebar && m.focus != FocusSidebar {
		return false
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut finds and executes a shortcut by key.
// Returns (model, cmd, true) if the shortcut was found and executed.
// Returns (model, nil, false) if the shortcut was not found or guards failed.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	log := logger.WithComponent("app")

	// Handle help shortcut specially (defined outside registry to avoid init cycle)
	if key == helpShortcut.Key {
		return m, m.showHelp(), true
	}

	for _, s := range ShortcutRegistry {
		if !s.matches(key) {
			continue
		}
		if !m.isShortcutApplicable(s) {
			log.Debug("shortcut guard failed", "key", key, "focus", m.focus.String())
			continue
		}
		log.Debug("executing shortcut", "key", key)
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// helpSections builds the help dialog from the registry and the slash commands.
func (m *Model) helpSections() []ui.HelpSection {
	categories := make(map[string][]ui.HelpEntry)
	add := func(s Shortcut) {
		displayKey := s.DisplayKey
		if displayKey == "" {
			displayKey = s.Key
		}
		if s.RequiresSidebar {
			displayKey += " (list)"
		}
		categories[s.Category] = append(categories[s.Category], ui.HelpEntry{Key: displayKey, Desc: s.Description})
	}
	for _, s := range ShortcutRegistry {
		add(s)
	}
	add(helpShortcut)
	for _, s := range DisplayOnlyShortcuts {
		add(s)
	}

	var sections []ui.HelpSection
	for _, cat := range categoryOrder {
		if entries := categories[cat]; len(entries) > 0 {
			sections = append(sections, ui.HelpSection{Title: cat, Entries: entries})
		}
	}

	var commands []ui.HelpEntry
	for _, def := range getSlashCommands() {
		usage := def.usage
		if usage == "" {
			usage = "/" + def.name
		}
		commands = append(commands, ui.HelpEntry{Key: usage, Desc: def.description})
	}
	return append(sections, ui.HelpSection{Title: CategoryCommands, Entries: commands})
}

// =============================================================================
// Shortcut Handlers
// =============================================================================

func shortcutSend(m *Model) (tea.Model, tea.Cmd) {
	return m, m.submitInput()
}

func shortcutNewSession(m *Model) (tea.Model, tea.Cmd) {
	return m, m.newSession()
}

func shortcutCloseTab(m *Model) (tea.Model, tea.Cmd) {
	return m, m.closeActiveTab()
}

func shortcutRename(m *Model) (tea.Model, tea.Cmd) {
	title := m.input.Value()
	cmd := m.renameActive(title, true)
	if title != "" {
		m.input.Reset()
	}
	return m, cmd
}

func shortcutCopyMode(m *Model) (tea.Model, tea.Cmd) {
	return m, m.openCopyMode()
}

func shortcutDeleteSelected(m *Model) (tea.Model, tea.Cmd) {
	return m, m.confirmDelete()
}

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	return m, m.toggleFocus()
}

func shortcutNextTab(m *Model) (tea.Model, tea.Cmd) {
	return m, m.cycleTab(1)
}

func shortcutPrevTab(m *Model) (tea.Model, tea.Cmd) {
	return m, m.cycleTab(-1)
}

func shortcutToggleTheme(m *Model) (tea.Model, tea.Cmd) {
	return m, m.toggleTheme()
}

func shortcutSettings(m *Model) (tea.Model, tea.Cmd) {
	return m, m.showSettings()
}
