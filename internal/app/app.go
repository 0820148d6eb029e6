package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/clipboard"
	"github.com/zhubert/parley/internal/completion"
	"github.com/zhubert/parley/internal/config"
	apperrors "github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/notification"
	"github.com/zhubert/parley/internal/session"
	"github.com/zhubert/parley/internal/ui"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// String returns a human-readable name for the focus
func (f Focus) String() string {
	switch f {
	case FocusSidebar:
		return "Sidebar"
	case FocusChat:
		return "Chat"
	default:
		return "Unknown"
	}
}

// Model is the main Bubble Tea model
type Model struct {
	config   *config.Config
	version  string
	header   *ui.Header
	footer   *ui.Footer
	sidebar  *ui.Sidebar
	tabs     *ui.Tabs
	input    *ui.Input
	copyView *ui.CopyView
	modal    *ui.Modal

	width  int
	height int
	focus  Focus

	store    *session.Store
	sessions *SessionManager
	requests *RequestManager
	states   *SessionStateManager

	// shown is the chat whose input draft is currently in the input field.
	shown session.ID

	// Side effects swapped out in tests
	copyText   func(string) error
	notifyDone func(title string) error
}

// New creates a new app model and loads the chats found in store.
func New(cfg *config.Config, store *session.Store, client completion.Client, version string) *Model {
	ui.SetThemeByName(cfg.GetTheme())

	m := &Model{
		config:     cfg,
		version:    version,
		header:     ui.NewHeader(),
		footer:     ui.NewFooter(),
		sidebar:    ui.NewSidebar(),
		tabs:       ui.NewTabs(),
		input:      ui.NewInput(),
		copyView:   ui.NewCopyView(),
		modal:      ui.NewModal(),
		focus:      FocusChat,
		store:      store,
		states:     NewSessionStateManager(),
		copyText:   clipboard.WriteText,
		notifyDone: notification.ReplyReady,
	}

	m.sessions = NewSessionManager(store, m.tabs, m.sidebar)
	m.sessions.SetViewFactory(m.newMessageView)
	m.sessions.SetOnChange(m.onActiveChanged)
	m.requests = NewRequestManager(store, m.sessions, m.states, client, cfg.SystemPrompt)

	m.sessions.Start()
	m.input.Focus()
	m.footer.SetMode(ui.FooterChat)
	return m
}

// Init starts the flash timer if startup produced a notice.
func (m *Model) Init() tea.Cmd {
	return m.reportWarnings()
}

// Update handles messages. This is the core Bubble Tea update function that routes
// all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		if result, cmd := m.handleKeyPress(msg); result != nil {
			return result, tea.Batch(cmd, m.reportWarnings())
		}
		// Key not handled by handleKeyPress, let it fall through to focused panel

	case tea.MouseClickMsg:
		cmd := m.handleMouseClick(msg)
		return m, tea.Batch(cmd, m.reportWarnings())

	case tea.MouseWheelMsg:
		return m, m.handleMouseWheel(msg)

	case CompletionMsg:
		return m, m.handleCompletion(msg)

	case ui.FlashTickMsg:
		if m.footer.ClearIfExpired() || !m.footer.HasFlash() {
			return m, nil
		}
		return m, ui.FlashTick()
	}

	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}
	if m.copyView.IsOpen() {
		copyView, cmd := m.copyView.Update(msg)
		m.copyView = copyView
		return m, cmd
	}

	// Update focused panel for other messages
	if m.focus == FocusSidebar {
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		cmds = append(cmds, cmd, m.reportWarnings())
	} else {
		input, cmd := m.input.Update(msg)
		m.input = input
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles all keyboard input.
// Returns (model, cmd) if the key was handled, or (nil, nil) if it should fall through
// to the focused panel for handling.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	logger.WithComponent("app").Debug("key press", "key", key, "focus", m.focus.String(),
		"modal", m.modal.IsVisible(), "copyMode", m.copyView.IsOpen())

	// ctrl+c always quits
	if key == keys.CtrlC {
		m.states.CancelAll()
		return m, tea.Quit
	}

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}
	if m.copyView.IsOpen() {
		return m.handleCopyModeKey(msg)
	}

	if result, cmd, handled := m.ExecuteShortcut(key); handled {
		return result, cmd
	}

	switch key {
	case keys.PgUp, keys.PgDown:
		if active := m.sessions.Active(); active != nil {
			active.View.Update(msg)
		}
		return m, nil
	}

	return nil, nil
}

// newMessageView builds a view sized for the current layout.
func (m *Model) newMessageView() *ui.MessageView {
	v := ui.NewMessageView()
	if m.width > 0 && m.height > 0 {
		ctx := ui.GetViewContext()
		v.SetSize(ctx.MainWidth, ctx.MessagesHeight())
	}
	return v
}

// onActiveChanged moves the input draft to the newly active chat and
// refreshes the chrome.
func (m *Model) onActiveChanged() {
	active := m.sessions.Active()
	if active == nil {
		return
	}
	if m.shown != active.ID {
		if m.shown.Valid() {
			m.states.SaveInput(m.shown, m.input.Value())
		}
		m.input.SetValue(m.states.GetInput(active.ID))
		m.shown = active.ID
	}
	m.refreshChrome()
}

// refreshChrome updates the header and pending markers from current state.
func (m *Model) refreshChrome() {
	for _, id := range m.tabs.IDs() {
		if tab, ok := m.tabs.Get(id); ok {
			tab.Pending = m.states.IsWaiting(id)
		}
	}
	for _, id := range m.sidebar.NodeIDs() {
		m.sidebar.SetPending(id, m.states.IsWaiting(id))
	}
	if active := m.sessions.Active(); active != nil {
		m.header.SetSession(active.Title, active.ID.String(), m.states.IsWaiting(active.ID))
	} else {
		m.header.SetSession("", "", false)
	}
}

// toggleFocus switches between the chat list and the input.
func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == FocusSidebar {
		return m.setFocus(FocusChat)
	}
	return m.setFocus(FocusSidebar)
}

func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	if f == FocusSidebar {
		m.input.Blur()
		m.footer.SetMode(ui.FooterSidebar)
		return nil
	}
	m.footer.SetMode(ui.FooterChat)
	return m.input.Focus()
}

// submitInput sends the input text, or runs it when it is a command. The
// input is cleared before anything else happens, except when the chat
// already has a reply pending; then the text is left for the user.
func (m *Model) submitInput() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}

	if res := parseSlashCommand(text); res.Handled {
		m.input.Reset()
		return m.runSlashCommand(res)
	}

	active := m.sessions.Active()
	if active == nil {
		return nil
	}
	if m.requests.Busy(active.ID) {
		return m.ShowFlashWarning("A reply is still pending for this chat.")
	}

	m.input.Reset()
	cmd, err := m.requests.Send(active.ID, text)
	m.refreshChrome()
	if err != nil {
		return tea.Batch(cmd, m.reportError(err))
	}
	return cmd
}

// handleCompletion applies a finished request and notifies when the reply
// landed in a chat that is not in front.
func (m *Model) handleCompletion(msg CompletionMsg) tea.Cmd {
	result, err := m.requests.Deliver(msg)
	m.refreshChrome()

	cmds := []tea.Cmd{m.reportError(err)}
	if result == DeliveryShown || result == DeliveryPersisted {
		active := m.sessions.Active()
		background := active == nil || active.ID != msg.SessionID
		if background && m.config.GetNotificationsEnabled() {
			if err := m.notifyDone(m.sessions.Title(msg.SessionID)); err != nil {
				logger.WithComponent("app").Debug("notification failed", "error", err)
			}
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) newSession() tea.Cmd {
	m.sessions.NewSession()
	return tea.Batch(m.reportWarnings(), m.setFocus(FocusChat))
}

func (m *Model) closeActiveTab() tea.Cmd {
	active := m.sessions.Active()
	if active == nil {
		return nil
	}
	return m.reportError(m.sessions.CloseTab(active.ID))
}

func (m *Model) deleteSession(id session.ID) tea.Cmd {
	if err := m.sessions.DeleteSession(id); err != nil {
		return m.reportError(err)
	}
	m.states.Delete(id)
	return m.reportWarnings()
}

// renameActive renames the active chat, reporting the suggested title
// when the tab strip cannot relabel. stampEmpty is passed through to
// SessionManager.Rename.
func (m *Model) renameActive(title string, stampEmpty bool) tea.Cmd {
	active := m.sessions.Active()
	if active == nil {
		return nil
	}
	_, err := m.sessions.Rename(active.ID, title, stampEmpty)
	return m.reportError(err)
}

func (m *Model) cycleTab(delta int) tea.Cmd {
	return m.reportError(m.sessions.CycleTab(delta))
}

// toggleTheme flips between the light and dark themes and persists the choice.
func (m *Model) toggleTheme() tea.Cmd {
	name := ui.ToggleTheme()
	ui.SetTheme(name)
	m.config.SetTheme(string(name))
	m.refreshViews()
	if cmd := m.saveConfigOrFlash(); cmd != nil {
		return cmd
	}
	return m.ShowFlashInfo("Theme: " + ui.CurrentTheme().Name)
}

// refreshViews re-renders every open view, e.g. after a theme change.
func (m *Model) refreshViews() {
	for _, id := range m.sessions.Registry().IDs() {
		if s, ok := m.sessions.Registry().Get(id); ok {
			s.View.Refresh()
		}
	}
}

// openCopyMode shows the active chat's persisted history as plain text.
func (m *Model) openCopyMode() tea.Cmd {
	active := m.sessions.Active()
	if active == nil {
		return nil
	}
	turns, err := m.store.LoadAll(active.ID)
	if err != nil && !apperrors.Is(err, apperrors.KindMalformed) {
		return m.reportError(err)
	}
	m.copyView.Open(active.Title, session.FormatTranscript(turns))
	m.footer.SetMode(ui.FooterCopy)
	return m.reportError(err)
}

func (m *Model) closeCopyMode() {
	m.copyView.Close()
	if m.focus == FocusSidebar {
		m.footer.SetMode(ui.FooterSidebar)
	} else {
		m.footer.SetMode(ui.FooterChat)
	}
}

// handleCopyModeKey handles keys while the copy viewer is open.
func (m *Model) handleCopyModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape, "q":
		m.closeCopyMode()
		return m, nil
	case "c":
		if err := m.copyText(m.copyView.Text()); err != nil {
			return m, m.reportError(err)
		}
		return m, m.ShowFlashSuccess("All text copied to clipboard.")
	}
	copyView, cmd := m.copyView.Update(msg)
	m.copyView = copyView
	return m, cmd
}
