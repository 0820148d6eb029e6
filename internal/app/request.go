package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/zhubert/parley/internal/completion"
	apperrors "github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/session"
)

// PlaceholderText is shown while a reply is outstanding. It is never
// persisted.
const PlaceholderText = "_Thinking…_"

// CompletionMsg delivers a finished completion request back to the UI loop.
type CompletionMsg struct {
	SessionID session.ID
	RequestID string
	Reply     string
	Err       error
}

// DeliveryResult describes what happened to a CompletionMsg.
type DeliveryResult int

const (
	DeliveryStale     DeliveryResult = iota // not the outstanding request; dropped
	DeliveryDiscarded                       // chat was deleted; dropped
	DeliveryPersisted                       // chat's tab is closed; written to the log only
	DeliveryShown                           // shown and written to the log
)

// RequestManager runs completion requests: at most one outstanding per
// chat, each with a placeholder that is replaced by the reply or by an
// error turn. Both user and reply turns are persisted.
type RequestManager struct {
	store    *session.Store
	sessions *SessionManager
	states   *SessionStateManager
	client   completion.Client
	system   string
	log      *slog.Logger
}

// NewRequestManager creates a request manager. system is the fixed
// instruction sent with every request.
func NewRequestManager(store *session.Store, sessions *SessionManager, states *SessionStateManager, client completion.Client, system string) *RequestManager {
	return &RequestManager{
		store:    store,
		sessions: sessions,
		states:   states,
		client:   client,
		system:   system,
		log:      logger.WithComponent("completion"),
	}
}

// Busy reports whether id has an outstanding request.
func (rm *RequestManager) Busy(id session.ID) bool {
	return rm.states.IsWaiting(id)
}

// Send shows and persists the user turn, mounts the placeholder and returns
// the command that performs the request off the UI loop. The caller clears
// the input before calling Send. A persistence failure is returned as a
// warning alongside the command; the request still goes out.
func (rm *RequestManager) Send(id session.ID, prompt string) (tea.Cmd, error) {
	s, ok := rm.sessions.Registry().Get(id)
	if !ok {
		return nil, apperrors.SessionNotFound(id.String())
	}
	if rm.Busy(id) {
		return nil, apperrors.Refused("app.Send", "A reply is still pending for this chat.")
	}

	requestID := uuid.NewString()
	log := logger.WithSession(id.String()).With("requestID", requestID)

	warning := rm.persist(s, session.NewTurn(session.RoleUser, prompt))
	s.View.Mount(session.RoleUser, prompt, false)
	placeholder := s.View.Mount(session.RoleStatus, PlaceholderText, true)

	ctx, cancel := context.WithCancel(context.Background())
	rm.states.StartRequest(id, requestID, s.View, placeholder, cancel)
	log.Info("sending request", "promptLen", len(prompt))

	client, req := rm.client, completion.Request{System: rm.system, Prompt: prompt}
	return func() tea.Msg {
		reply, err := client.Complete(ctx, req)
		return CompletionMsg{SessionID: id, RequestID: requestID, Reply: reply, Err: err}
	}, warning
}

// Deliver applies a finished request. The placeholder is removed and the
// reply, or an error turn summarizing the failure, is persisted and shown.
// A chat deleted in the meantime gets nothing; a chat whose tab was closed
// only gets the log entry.
func (rm *RequestManager) Deliver(msg CompletionMsg) (DeliveryResult, error) {
	log := logger.WithSession(msg.SessionID.String()).With("requestID", msg.RequestID)

	view, placeholder, ok := rm.states.FinishRequest(msg.SessionID, msg.RequestID)
	if !ok {
		log.Debug("dropping stale completion")
		return DeliveryStale, nil
	}
	if !rm.sessions.Known(msg.SessionID) {
		rm.states.Delete(msg.SessionID)
		log.Info("dropping completion for deleted chat")
		return DeliveryDiscarded, nil
	}

	turn := session.NewTurn(session.RoleAssistant, msg.Reply)
	if msg.Err != nil {
		turn = session.NewTurn(session.RoleSystem, ErrorTurnText(msg.Err))
		log.Warn("completion failed", "error", msg.Err)
	} else {
		log.Info("completion received", "replyLen", len(msg.Reply))
	}

	s, open := rm.sessions.Registry().Get(msg.SessionID)
	if !open {
		return DeliveryPersisted, rm.appendOnly(msg.SessionID, turn)
	}

	if view == s.View {
		s.View.Remove(placeholder)
	}
	warning := rm.persist(s, turn)
	s.View.Mount(turn.Role, turn.Content, false)
	return DeliveryShown, warning
}

// ErrorTurnText is the persisted text of a failed request.
func ErrorTurnText(err error) string {
	return fmt.Sprintf("**Error:** `%s`", apperrors.Summary(err))
}

// persist appends turn to the log and to the registry's cache. The cache
// is updated even when the write fails so the view stays authoritative.
func (rm *RequestManager) persist(s *Session, turn session.Turn) error {
	s.Turns = append(s.Turns, turn)
	return rm.appendOnly(s.ID, turn)
}

func (rm *RequestManager) appendOnly(id session.ID, turn session.Turn) error {
	if err := rm.store.Append(id, turn); err != nil {
		rm.log.Warn("failed to persist turn", "sessionID", id.String(), "role", turn.Role, "error", err)
		return err
	}
	return nil
}
