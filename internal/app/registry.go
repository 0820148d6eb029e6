package app

import (
	"sort"

	"github.com/zhubert/parley/internal/session"
	"github.com/zhubert/parley/internal/ui"
)

// Session is an open chat: its id, display title, the turns persisted so
// far and the message view that shows them.
type Session struct {
	ID    session.ID
	Title string
	Turns []session.Turn
	View  *ui.MessageView
}

// Registry is the in-memory catalogue of open sessions. It is the source
// of truth for which sessions have a tab and a view right now; it does not
// keep at least one open, SessionManager does.
type Registry struct {
	sessions map[session.ID]*Session
	active   session.ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[session.ID]*Session)}
}

// Register adds or replaces s.
func (r *Registry) Register(s *Session) {
	r.sessions[s.ID] = s
}

// Get returns the session for id.
func (r *Registry) Get(id session.ID) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

// Unregister forgets id. Unknown ids are ignored. Unregistering the active
// session leaves none active.
func (r *Registry) Unregister(id session.ID) {
	delete(r.sessions, id)
	if r.active == id {
		r.active = 0
	}
}

// ActiveID returns the active session id, if any.
func (r *Registry) ActiveID() (session.ID, bool) {
	if _, ok := r.sessions[r.active]; !ok {
		return 0, false
	}
	return r.active, true
}

// Active returns the active session, or nil.
func (r *Registry) Active() *Session {
	id, ok := r.ActiveID()
	if !ok {
		return nil
	}
	return r.sessions[id]
}

// SetActive marks id active. It returns false for an unregistered id.
func (r *Registry) SetActive(id session.ID) bool {
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	r.active = id
	return true
}

// IDs returns registered ids in ascending order.
func (r *Registry) IDs() []session.ID {
	ids := make([]session.ID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}

// MaxID returns the highest registered id, or 0.
func (r *Registry) MaxID() session.ID {
	var max session.ID
	for id := range r.sessions {
		if id > max {
			max = id
		}
	}
	return max
}
