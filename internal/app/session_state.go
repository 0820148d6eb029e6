package app

import (
	"context"
	"sync"
	"time"

	"github.com/zhubert/parley/internal/session"
	"github.com/zhubert/parley/internal/ui"
)

// SessionState holds per-chat state that is not part of the chat's history.
type SessionState struct {
	// Outstanding completion request
	RequestID   string
	View        *ui.MessageView // view the placeholder was mounted in
	Placeholder int             // bubble handle of the "Thinking…" placeholder
	WaitStart   time.Time
	Cancel      context.CancelFunc

	// Unsent input saved while another chat is active
	InputText string
}

// SessionStateManager provides thread-safe access to per-chat state.
type SessionStateManager struct {
	mu     sync.RWMutex
	states map[session.ID]*SessionState
}

// NewSessionStateManager creates a new session state manager.
func NewSessionStateManager() *SessionStateManager {
	return &SessionStateManager{
		states: make(map[session.ID]*SessionState),
	}
}

// GetIfExists returns the state for a chat if it exists, nil otherwise.
func (m *SessionStateManager) GetIfExists(id session.ID) *SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[id]
}

// Delete removes all state for a chat. The request context is left alone:
// an in-flight request runs to completion and its result is dropped.
func (m *SessionStateManager) Delete(id session.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
}

// StartRequest records an outstanding request. It returns false if the chat
// already has one.
func (m *SessionStateManager) StartRequest(id session.ID, requestID string, view *ui.MessageView, placeholder int, cancel context.CancelFunc) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.getOrCreate(id)
	if state.RequestID != "" {
		return false
	}
	state.RequestID = requestID
	state.View = view
	state.Placeholder = placeholder
	state.WaitStart = time.Now()
	state.Cancel = cancel
	return true
}

// FinishRequest clears the outstanding request if it matches requestID and
// returns the view and handle of its placeholder.
func (m *SessionStateManager) FinishRequest(id session.ID, requestID string) (*ui.MessageView, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, exists := m.states[id]
	if !exists || state.RequestID == "" || state.RequestID != requestID {
		return nil, 0, false
	}
	view, placeholder := state.View, state.Placeholder
	if state.Cancel != nil {
		state.Cancel()
	}
	state.RequestID = ""
	state.View = nil
	state.Placeholder = 0
	state.WaitStart = time.Time{}
	state.Cancel = nil
	return view, placeholder, true
}

// IsWaiting reports whether a chat has an outstanding request.
func (m *SessionStateManager) IsWaiting(id session.ID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if state, exists := m.states[id]; exists {
		return state.RequestID != ""
	}
	return false
}

// GetWaitStart returns when the chat started waiting.
func (m *SessionStateManager) GetWaitStart(id session.ID) (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if state, exists := m.states[id]; exists && state.RequestID != "" {
		return state.WaitStart, true
	}
	return time.Time{}, false
}

// Waiting returns the chats with an outstanding request.
func (m *SessionStateManager) Waiting() []session.ID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []session.ID
	for id, state := range m.states {
		if state.RequestID != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// CancelAll cancels every outstanding request context. Used on quit.
func (m *SessionStateManager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, state := range m.states {
		if state.Cancel != nil {
			state.Cancel()
			state.Cancel = nil
		}
	}
}

// SaveInput saves the input text for a chat.
func (m *SessionStateManager) SaveInput(id session.ID, input string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.getOrCreate(id)
	state.InputText = input
}

// GetInput returns the saved input text for a chat.
func (m *SessionStateManager) GetInput(id session.ID) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if state, exists := m.states[id]; exists {
		return state.InputText
	}
	return ""
}

// getOrCreate returns existing state or creates new state. Caller must hold the lock.
func (m *SessionStateManager) getOrCreate(id session.ID) *SessionState {
	if state, exists := m.states[id]; exists {
		return state
	}
	state := &SessionState{}
	m.states[id] = state
	return state
}
