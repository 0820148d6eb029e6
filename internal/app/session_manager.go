package app

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/session"
	"github.com/zhubert/parley/internal/ui"
)

// WelcomeText is the placeholder shown in a freshly created chat. It is
// never persisted.
const WelcomeText = "_New chat started. Press Ctrl+Enter to send._"

// TabStrip is the tab container the manager drives. *ui.Tabs implements it.
type TabStrip interface {
	Add(tab *ui.Tab) bool
	Remove(id session.ID) (*ui.Tab, bool)
	Get(id session.ID) (*ui.Tab, bool)
	IDs() []session.ID
	SetActive(id session.ID) bool
	Active() *ui.Tab
	Len() int
}

// Relabeler is the optional tab strip capability used by rename.
type Relabeler interface {
	Relabel(id session.ID, title string) bool
}

// NavTree is the navigation tree the manager drives. *ui.Sidebar
// implements it. Select and ClearSelection invoke the handler synchronously.
type NavTree interface {
	SetHandler(fn func(ui.SelectionEvent))
	AddNode(id session.ID, label string)
	RemoveNode(id session.ID)
	Node(id session.ID) (ui.SidebarNode, bool)
	NodeIDs() []session.ID
	SetLabel(id session.ID, label string) bool
	Select(id session.ID)
	ClearSelection()
	Selected() (session.ID, bool)
}

// SelectionStats counts tree selection handler invocations.
type SelectionStats struct {
	Fired      int // every invocation
	Suppressed int // arrived while a programmatic change was in progress
	Ignored    int // root row, cleared selection, or missing id
	Propagated int // user selections acted on
}

// SessionManager owns chat lifecycle: creating chats, closing tabs,
// permanent deletion and rename. It keeps the tab strip, the tree and the
// registry in agreement and keeps at least one chat open once started.
//
// All methods run on the UI loop. Non-fatal problems (a log that could not
// be written or deleted) are collected and handed to the caller through
// DrainWarnings; refusals are returned as errors.
type SessionManager struct {
	store    *session.Store
	registry *Registry
	sync     *Synchronizer
	tabs     TabStrip
	tree     NavTree
	log      *slog.Logger

	newView  func() *ui.MessageView
	now      func() time.Time
	onChange func()

	lastSelected session.ID
	highWater    session.ID
	warnings     []error
	stats        SelectionStats
}

// NewSessionManager wires the manager to its projections and installs the
// tree selection handler.
func NewSessionManager(store *session.Store, tabs TabStrip, tree NavTree) *SessionManager {
	sm := &SessionManager{
		store:    store,
		registry: NewRegistry(),
		sync:     &Synchronizer{},
		tabs:     tabs,
		tree:     tree,
		log:      logger.WithComponent("app"),
		newView:  ui.NewMessageView,
		now:      time.Now,
	}
	tree.SetHandler(sm.handleSelection)
	return sm
}

// SetViewFactory replaces the constructor used for new message views.
func (sm *SessionManager) SetViewFactory(fn func() *ui.MessageView) {
	sm.newView = fn
}

// SetOnChange installs a hook run after the active chat changes.
func (sm *SessionManager) SetOnChange(fn func()) {
	sm.onChange = fn
}

// Registry returns the registry of open chats.
func (sm *SessionManager) Registry() *Registry {
	return sm.registry
}

// Synchronizer returns the selection synchronizer.
func (sm *SessionManager) Synchronizer() *Synchronizer {
	return sm.sync
}

// Stats returns the selection handler counters.
func (sm *SessionManager) Stats() SelectionStats {
	return sm.stats
}

// LastSelected returns the last chat the user picked in the tree.
func (sm *SessionManager) LastSelected() (session.ID, bool) {
	if _, ok := sm.tree.Node(sm.lastSelected); !ok {
		return 0, false
	}
	return sm.lastSelected, true
}

// Active returns the active chat, or nil before Start.
func (sm *SessionManager) Active() *Session {
	return sm.registry.Active()
}

// Known reports whether id still has a tree entry, open or not.
func (sm *SessionManager) Known(id session.ID) bool {
	_, ok := sm.tree.Node(id)
	return ok
}

// Title returns the display title for id.
func (sm *SessionManager) Title(id session.ID) string {
	if s, ok := sm.registry.Get(id); ok {
		return s.Title
	}
	if n, ok := sm.tree.Node(id); ok && n.Label != "" {
		return n.Label
	}
	return id.String()
}

// DrainWarnings returns and clears the collected non-fatal errors.
func (sm *SessionManager) DrainWarnings() []error {
	w := sm.warnings
	sm.warnings = nil
	return w
}

func (sm *SessionManager) warn(err error) {
	sm.log.Warn("non-fatal error", "error", err)
	sm.warnings = append(sm.warnings, err)
}

// Start loads every chat found on disk, activating the newest. With no
// history it creates a first chat.
func (sm *SessionManager) Start() {
	ids, err := sm.store.List()
	if err != nil {
		sm.warn(err)
	}
	if len(ids) == 0 {
		sm.NewSession()
		return
	}

	sm.sync.Programmatic(func() {
		for _, id := range ids {
			s := sm.loadSession(id)
			sm.openTab(s)
			sm.tree.AddNode(id, s.Title)
		}
		last := ids[len(ids)-1]
		sm.activate(last)
		sm.tree.Select(last)
	})
	sm.log.Info("loaded chats", "count", len(ids))
}

// nextID mints an id above everything on disk, open, or minted before, so
// a deleted chat's id is never handed out again.
func (sm *SessionManager) nextID() session.ID {
	highest := sm.highWater
	if onDisk, err := sm.store.MaxID(); err != nil {
		sm.warn(err)
	} else if onDisk > highest {
		highest = onDisk
	}
	if open := sm.registry.MaxID(); open > highest {
		highest = open
	}
	for _, id := range sm.tree.NodeIDs() {
		if id > highest {
			highest = id
		}
	}
	sm.highWater = highest + 1
	return sm.highWater
}

// NewSession creates an empty chat, opens it in a new tab and selects it
// in the tree.
func (sm *SessionManager) NewSession() *Session {
	id := sm.nextID()
	log := logger.WithSession(id.String())

	if err := sm.store.Create(id); err != nil {
		sm.warn(err)
	}

	view := sm.newView()
	view.Mount(session.RoleSystem, WelcomeText, true)
	s := &Session{ID: id, Title: id.String(), View: view}

	sm.openTab(s)
	sm.tree.AddNode(id, s.Title)
	sm.activate(id)
	sm.syncTree(id)

	log.Info("created chat")
	return s
}

// CloseTab closes the tab for id and activates its neighbor. The last
// open tab cannot be closed. The log and tree entry are kept.
func (sm *SessionManager) CloseTab(id session.ID) error {
	if _, ok := sm.registry.Get(id); !ok {
		return apperrors.SessionNotFound(id.String())
	}
	if sm.registry.Len() <= 1 {
		return apperrors.Refused("app.CloseTab", "Cannot close the last remaining tab. Create a new chat first (Ctrl+N).")
	}

	ids := sm.tabs.IDs()
	idx := indexOf(ids, id)
	if idx < 0 {
		return apperrors.SessionNotFound(id.String())
	}
	var next session.ID
	if idx < len(ids)-1 {
		next = ids[idx+1]
	} else {
		next = ids[idx-1]
	}

	wasActive := false
	if active, ok := sm.registry.ActiveID(); ok && active == id {
		wasActive = true
	}

	sm.tabs.Remove(id)
	sm.registry.Unregister(id)
	logger.WithSession(id.String()).Info("closed tab")

	if wasActive {
		sm.activate(next)
		sm.syncTree(next)
	}
	return nil
}

// DeleteSession permanently removes a chat: its tab, its log and its tree
// entry. Deleting the only open chat first creates a replacement.
func (sm *SessionManager) DeleteSession(id session.ID) error {
	if !sm.Known(id) {
		return apperrors.SessionNotFound(id.String())
	}
	log := logger.WithSession(id.String())

	if _, open := sm.registry.Get(id); open {
		if sm.registry.Len() <= 1 {
			sm.NewSession()
		}
		if err := sm.CloseTab(id); err != nil {
			return err
		}
	}

	if err := sm.store.Delete(id); err != nil {
		sm.warn(apperrors.E(apperrors.Op("app.DeleteSession"), apperrors.KindIO,
			fmt.Sprintf("couldn't delete %s", id.FileName()), err))
	}

	sm.tree.RemoveNode(id)
	if sm.lastSelected == id {
		sm.lastSelected = 0
	}
	if _, ok := sm.tree.Selected(); !ok {
		if active, ok := sm.registry.ActiveID(); ok {
			sm.syncTree(active)
		} else {
			sm.sync.Programmatic(sm.tree.ClearSelection)
		}
	}

	log.Info("deleted chat")
	return nil
}

// Rename relabels id in the tab strip and the tree. An empty title keeps
// the current one. With stampEmpty set, an empty title on a chat that has
// nothing persisted yet gets a title from the current time instead.
func (sm *SessionManager) Rename(id session.ID, title string, stampEmpty bool) (string, error) {
	s, ok := sm.registry.Get(id)
	if !ok {
		return "", apperrors.SessionNotFound(id.String())
	}

	title = strings.TrimSpace(title)
	if title == "" {
		if !stampEmpty || len(s.Turns) > 0 {
			return s.Title, nil
		}
		title = TimestampTitle(sm.now())
	}
	if r := []rune(title); len(r) > ui.MaxTitleLength {
		title = string(r[:ui.MaxTitleLength])
	}

	relabeler, ok := sm.tabs.(Relabeler)
	if !ok {
		return title, apperrors.Unsupported("app.Rename",
			fmt.Sprintf("Rename not supported. Suggested name: %s", title))
	}
	relabeler.Relabel(id, title)
	sm.tree.SetLabel(id, title)
	s.Title = title

	logger.WithSession(id.String()).Info("renamed chat", "title", title)
	if sm.onChange != nil {
		sm.onChange()
	}
	return title, nil
}

// TimestampTitle is the generated title for an unnamed chat.
func TimestampTitle(t time.Time) string {
	return "Chat " + t.Format("Jan 02, 15:04")
}

// ActivateTab makes id the active tab, as when its label is clicked, and
// moves the tree selection to match.
func (sm *SessionManager) ActivateTab(id session.ID) error {
	if _, ok := sm.registry.Get(id); !ok {
		return apperrors.SessionNotFound(id.String())
	}
	if active, ok := sm.registry.ActiveID(); ok && active == id {
		return nil
	}
	sm.activate(id)
	sm.syncTree(id)
	return nil
}

// CycleTab activates the tab delta positions away, wrapping around.
func (sm *SessionManager) CycleTab(delta int) error {
	ids := sm.tabs.IDs()
	if len(ids) < 2 {
		return nil
	}
	cur := 0
	if active, ok := sm.registry.ActiveID(); ok {
		cur = indexOf(ids, active)
	}
	n := len(ids)
	return sm.ActivateTab(ids[((cur+delta)%n+n)%n])
}

// Open shows id, reloading its history into a new tab if it has none.
// Opening the active chat does nothing. The tree selection is left alone.
func (sm *SessionManager) Open(id session.ID) error {
	if active, ok := sm.registry.ActiveID(); ok && active == id {
		return nil
	}
	if _, ok := sm.registry.Get(id); !ok {
		if !sm.Known(id) {
			return apperrors.SessionNotFound(id.String())
		}
		sm.openTab(sm.loadSession(id))
	}
	sm.activate(id)
	return nil
}

// handleSelection is the tree's selection handler.
func (sm *SessionManager) handleSelection(ev ui.SelectionEvent) {
	sm.stats.Fired++
	if sm.sync.Syncing() {
		sm.stats.Suppressed++
		return
	}
	if ev.Root || !ev.ID.Valid() {
		sm.stats.Ignored++
		return
	}
	sm.stats.Propagated++
	sm.lastSelected = ev.ID
	if err := sm.Open(ev.ID); err != nil {
		sm.warn(err)
	}
}

// loadSession builds a closed session for id from its log.
func (sm *SessionManager) loadSession(id session.ID) *Session {
	turns, err := sm.store.LoadAll(id)
	if err != nil {
		sm.warn(err)
	}
	view := sm.newView()
	view.Load(turns)
	return &Session{ID: id, Title: sm.Title(id), Turns: turns, View: view}
}

func (sm *SessionManager) openTab(s *Session) {
	sm.registry.Register(s)
	sm.tabs.Add(&ui.Tab{ID: s.ID, Title: s.Title, View: s.View})
}

func (sm *SessionManager) activate(id session.ID) {
	sm.registry.SetActive(id)
	sm.tabs.SetActive(id)
	if sm.onChange != nil {
		sm.onChange()
	}
}

// syncTree moves the tree selection to id without re-entering the handler.
func (sm *SessionManager) syncTree(id session.ID) {
	if cur, ok := sm.tree.Selected(); ok && cur == id {
		return
	}
	sm.sync.Programmatic(func() {
		sm.tree.Select(id)
	})
}

func indexOf(ids []session.ID, id session.ID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
