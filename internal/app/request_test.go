package app

import (
	"errors"
	"testing"

	"github.com/zhubert/parley/internal/completion"
	apperrors "github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/session"
	"github.com/zhubert/parley/internal/ui"
)

type requestFixture struct {
	store    *session.Store
	sessions *SessionManager
	states   *SessionStateManager
	client   *completion.MockClient
	requests *RequestManager
	tabs     *ui.Tabs
	tree     *ui.Sidebar
}

func newRequestFixture(t *testing.T, store *session.Store) *requestFixture {
	t.Helper()
	f := &requestFixture{
		store:  store,
		states: NewSessionStateManager(),
		client: completion.NewMockClient(),
	}
	f.sessions, f.tabs, f.tree = newTestManager(t, store)
	f.requests = NewRequestManager(store, f.sessions, f.states, f.client, "Be brief.")
	return f
}

// send issues a request and runs it to produce the CompletionMsg.
func (f *requestFixture) send(t *testing.T, id session.ID, prompt string) CompletionMsg {
	t.Helper()
	cmd, err := f.requests.Send(id, prompt)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	return cmd().(CompletionMsg)
}

func TestRequestManager_SendAndDeliver(t *testing.T) {
	f := newRequestFixture(t, testStore(t))
	s := f.sessions.Active()

	cmd, err := f.requests.Send(s.ID, "hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !f.requests.Busy(s.ID) {
		t.Error("expected chat to be busy")
	}

	bubbles := s.View.Bubbles()
	last := bubbles[len(bubbles)-1]
	if last.Role != session.RoleStatus || last.Content != PlaceholderText || !last.Ephemeral {
		t.Errorf("last bubble = %+v, want the placeholder", last)
	}
	if turns := loadTurns(t, f.store, s.ID); len(turns) != 1 || turns[0].Content != "hi" {
		t.Errorf("user turn should be persisted before the reply, got %+v", turns)
	}

	msg := cmd().(CompletionMsg)
	if msg.SessionID != s.ID || msg.RequestID == "" {
		t.Errorf("msg = %+v", msg)
	}
	result, err := f.requests.Deliver(msg)
	if err != nil || result != DeliveryShown {
		t.Fatalf("Deliver = %v, %v", result, err)
	}

	for _, b := range s.View.Bubbles() {
		if b.Role == session.RoleStatus {
			t.Error("placeholder should be removed")
		}
	}
	turns := loadTurns(t, f.store, s.ID)
	if len(turns) != 2 || turns[1].Role != session.RoleAssistant || turns[1].Content != "echo: hi" {
		t.Errorf("persisted turns = %+v", turns)
	}
	if f.requests.Busy(s.ID) {
		t.Error("chat should be idle after delivery")
	}

	calls := f.client.Calls()
	if len(calls) != 1 || calls[0].System != "Be brief." || calls[0].Prompt != "hi" {
		t.Errorf("client calls = %+v", calls)
	}
}

func TestRequestManager_ReloadMatchesDisplay(t *testing.T) {
	f := newRequestFixture(t, testStore(t))
	s := f.sessions.Active()

	for _, prompt := range []string{"one", "two"} {
		if _, err := f.requests.Deliver(f.send(t, s.ID, prompt)); err != nil {
			t.Fatal(err)
		}
	}

	displayed := s.View.Persisted()
	persisted := loadTurns(t, f.store, s.ID)
	if len(displayed) != len(persisted) {
		t.Fatalf("displayed %d turns, persisted %d", len(displayed), len(persisted))
	}
	for i := range displayed {
		if displayed[i].Role != persisted[i].Role || displayed[i].Content != persisted[i].Content {
			t.Errorf("turn %d: displayed %+v, persisted %+v", i, displayed[i], persisted[i])
		}
	}
}

func TestRequestManager_SendWhileBusyRefused(t *testing.T) {
	f := newRequestFixture(t, testStore(t))
	id := f.sessions.Active().ID

	if _, err := f.requests.Send(id, "first"); err != nil {
		t.Fatal(err)
	}
	cmd, err := f.requests.Send(id, "second")
	if cmd != nil || !apperrors.Is(err, apperrors.KindInvariant) {
		t.Errorf("second Send = %v, %v; want refusal", cmd, err)
	}
	if turns := loadTurns(t, f.store, id); len(turns) != 1 {
		t.Errorf("refused send must not persist, got %d turns", len(turns))
	}
}

func TestRequestManager_SendUnknownChat(t *testing.T) {
	f := newRequestFixture(t, testStore(t))
	if _, err := f.requests.Send(9, "hi"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("Send(9) = %v, want not found", err)
	}
}

func TestRequestManager_FailureBecomesErrorTurn(t *testing.T) {
	f := newRequestFixture(t, testStore(t))
	f.client.Reply = func(completion.Request) (string, error) {
		return "", apperrors.ServiceFailed(errors.New("HTTP 500"))
	}
	s := f.sessions.Active()

	result, err := f.requests.Deliver(f.send(t, s.ID, "hi"))
	if err != nil || result != DeliveryShown {
		t.Fatalf("Deliver = %v, %v", result, err)
	}

	got := roles(s.View)
	want := []session.Role{session.RoleSystem, session.RoleUser, session.RoleSystem}
	if len(got) != len(want) {
		t.Fatalf("roles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("roles = %v, want %v", got, want)
		}
	}

	turns := loadTurns(t, f.store, s.ID)
	if len(turns) != 2 || turns[1].Role != session.RoleSystem || turns[1].Content != "**Error:** `HTTP 500`" {
		t.Errorf("persisted turns = %+v", turns)
	}
}

func TestRequestManager_StaleCompletionDropped(t *testing.T) {
	f := newRequestFixture(t, testStore(t))
	s := f.sessions.Active()

	msg := f.send(t, s.ID, "hi")
	stale := msg
	stale.RequestID = "not-the-request"

	result, err := f.requests.Deliver(stale)
	if err != nil || result != DeliveryStale {
		t.Errorf("Deliver(stale) = %v, %v", result, err)
	}
	if !f.requests.Busy(s.ID) {
		t.Error("a stale completion must not finish the real request")
	}

	if result, _ := f.requests.Deliver(msg); result != DeliveryShown {
		t.Errorf("Deliver = %v, want shown", result)
	}
	if result, _ := f.requests.Deliver(msg); result != DeliveryStale {
		t.Errorf("second Deliver = %v, want stale", result)
	}
}

func TestRequestManager_ReplyForClosedTabIsPersisted(t *testing.T) {
	f := newRequestFixture(t, testStore(t))
	msg := f.send(t, 1, "hi")

	f.sessions.NewSession()
	if err := f.sessions.CloseTab(1); err != nil {
		t.Fatal(err)
	}

	result, err := f.requests.Deliver(msg)
	if err != nil || result != DeliveryPersisted {
		t.Fatalf("Deliver = %v, %v", result, err)
	}
	if turns := loadTurns(t, f.store, 1); len(turns) != 2 {
		t.Errorf("persisted %d turns, want 2", len(turns))
	}

	f.tree.Select(1)
	if got := f.sessions.Active().View.Len(); got != 2 {
		t.Errorf("reopened chat shows %d bubbles, want 2", got)
	}
}

func TestRequestManager_ReplyAfterReopenSkipsOldPlaceholder(t *testing.T) {
	f := newRequestFixture(t, testStore(t))
	msg := f.send(t, 1, "hi")

	f.sessions.NewSession()
	if err := f.sessions.CloseTab(1); err != nil {
		t.Fatal(err)
	}
	f.tree.Select(1)
	view := f.sessions.Active().View

	result, err := f.requests.Deliver(msg)
	if err != nil || result != DeliveryShown {
		t.Fatalf("Deliver = %v, %v", result, err)
	}
	got := roles(view)
	if len(got) != 2 || got[0] != session.RoleUser || got[1] != session.RoleAssistant {
		t.Errorf("roles = %v, want [user assistant]", got)
	}
}

func TestRequestManager_ReplyForDeletedChatDiscarded(t *testing.T) {
	f := newRequestFixture(t, testStore(t))
	msg := f.send(t, 1, "hi")

	if err := f.sessions.DeleteSession(1); err != nil {
		t.Fatal(err)
	}

	result, err := f.requests.Deliver(msg)
	if err != nil || result != DeliveryDiscarded {
		t.Fatalf("Deliver = %v, %v", result, err)
	}
	if f.store.Exists(1) {
		t.Error("a discarded reply must not recreate the log")
	}
	if f.states.GetIfExists(1) != nil {
		t.Error("state for a deleted chat should be dropped")
	}
}

func TestErrorTurnText(t *testing.T) {
	err := apperrors.ServiceTimeout(fakeDuration("30s"))
	if got := ErrorTurnText(err); got != "**Error:** `no response after 30s`" {
		t.Errorf("ErrorTurnText = %q", got)
	}
}

type fakeDuration string

func (d fakeDuration) String() string { return string(d) }
