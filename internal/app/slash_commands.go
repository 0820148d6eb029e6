package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/logger"
)

// SlashCommandAction is the chat operation a slash command maps to.
type SlashCommandAction int

const (
	ActionNone SlashCommandAction = iota
	ActionNew
	ActionClose
	ActionDelete
	ActionRename
	ActionHelp
	ActionSettings
)

// SlashCommandResult is the outcome of parsing input as a slash command.
type SlashCommandResult struct {
	Handled bool               // Whether the command was recognized
	Action  SlashCommandAction // Operation to run
	Args    string             // Text after the command name
}

// slashCommandDef defines a slash command and its help text.
type slashCommandDef struct {
	name        string
	usage       string
	description string
	action      SlashCommandAction
}

// getSlashCommands returns the registry of available slash commands.
// Using a function instead of a var avoids initialization cycles.
func getSlashCommands() []slashCommandDef {
	return []slashCommandDef{
		{name: "new", description: "Start a new chat", action: ActionNew},
		{name: "close", description: "Close this chat's tab (history is kept)", action: ActionClose},
		{name: "delete", description: "Delete this chat and its history", action: ActionDelete},
		{name: "rename", usage: "/rename <title>", description: "Rename this chat", action: ActionRename},
		{name: "settings", description: "Open settings", action: ActionSettings},
		{name: "help", description: "Show keys and commands", action: ActionHelp},
	}
}

// parseSlashCommand recognizes input that starts with a known command.
// Anything else, including unknown slash commands, is left for the
// completion service.
func parseSlashCommand(input string) SlashCommandResult {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return SlashCommandResult{}
	}

	name, args, _ := strings.Cut(strings.TrimPrefix(input, "/"), " ")
	name = strings.ToLower(name)
	for _, def := range getSlashCommands() {
		if def.name == name {
			logger.WithComponent("app").Debug("slash command detected", "command", name, "args", args)
			return SlashCommandResult{Handled: true, Action: def.action, Args: strings.TrimSpace(args)}
		}
	}
	return SlashCommandResult{}
}

// runSlashCommand performs a parsed command on the active chat.
func (m *Model) runSlashCommand(res SlashCommandResult) tea.Cmd {
	switch res.Action {
	case ActionNew:
		return m.newSession()
	case ActionClose:
		return m.closeActiveTab()
	case ActionDelete:
		if active := m.sessions.Active(); active != nil {
			return m.deleteSession(active.ID)
		}
	case ActionRename:
		return m.renameActive(res.Args, false)
	case ActionHelp:
		return m.showHelp()
	case ActionSettings:
		return m.showSettings()
	}
	return nil
}
