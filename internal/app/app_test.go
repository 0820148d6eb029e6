package app

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/completion"
	apperrors "github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/session"
	"github.com/zhubert/parley/internal/ui"
)

func TestNew_EmptyHistory(t *testing.T) {
	store := testStore(t)
	m := testModel(t, store, nil)

	active := m.sessions.Active()
	if active == nil || active.ID.String() != "chat_001" {
		t.Fatalf("active = %v, want chat_001", active)
	}
	if m.tabs.Len() != 1 {
		t.Errorf("tabs = %d, want 1", m.tabs.Len())
	}
	bubbles := active.View.Bubbles()
	if len(bubbles) != 1 || bubbles[0].Content != WelcomeText {
		t.Errorf("bubbles = %+v, want the welcome text", bubbles)
	}
	if turns := loadTurns(t, store, 1); len(turns) != 0 {
		t.Errorf("log has %d turns, want 0", len(turns))
	}
	if m.Init() != nil {
		t.Error("clean startup should not flash")
	}
	if m.focus != FocusChat {
		t.Errorf("focus = %v, want Chat", m.focus)
	}
}

func TestNew_MalformedHistoryWarnsOnInit(t *testing.T) {
	store := testStore(t)
	seedLog(t, store, 1, session.NewTurn(session.RoleUser, "ok"))
	appendRaw(t, store, 1, "garbage\n")

	m := testModel(t, store, nil)
	if m.Init() == nil {
		t.Fatal("expected a flash for the skipped record")
	}
	flash := m.footer.Flash()
	if flash == nil || flash.Type != ui.FlashWarning || !strings.Contains(flash.Text, "malformed") {
		t.Errorf("flash = %+v", flash)
	}
}

func TestSend_ViaKeyboard(t *testing.T) {
	store := testStore(t)
	m := testModel(t, store, nil)

	m = typeText(m, "hi")
	m.Update(keyPress(keys.CtrlEnter))

	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared", m.input.Value())
	}
	if !m.requests.Busy(1) {
		t.Error("expected a pending request")
	}
	if tab := m.tabs.Active(); !tab.Pending {
		t.Error("tab should show the pending marker")
	}
	if turns := loadTurns(t, store, 1); len(turns) != 1 || turns[0].Role != session.RoleUser {
		t.Errorf("turns = %+v", turns)
	}
}

func TestSend_EmptyInputIgnored(t *testing.T) {
	m := testModel(t, testStore(t), nil)
	if cmd := submit(m, "   "); cmd != nil {
		t.Error("blank input should not send")
	}
	if m.requests.Busy(1) {
		t.Error("blank input should not start a request")
	}
}

func TestSend_ReplyShownAndPersisted(t *testing.T) {
	store := testStore(t)
	m := testModel(t, store, nil)

	deliver(t, m, submit(m, "hi"))

	got := roles(m.sessions.Active().View)
	want := []session.Role{session.RoleSystem, session.RoleUser, session.RoleAssistant}
	if len(got) != len(want) {
		t.Fatalf("roles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("roles = %v, want %v", got, want)
		}
	}
	if m.requests.Busy(1) || m.tabs.Active().Pending {
		t.Error("pending state should clear after the reply")
	}
	if turns := loadTurns(t, store, 1); len(turns) != 2 {
		t.Errorf("persisted %d turns, want 2", len(turns))
	}
}

func TestSend_FailedRequest(t *testing.T) {
	store := testStore(t)
	client := completion.NewMockClient()
	client.Reply = func(completion.Request) (string, error) {
		return "", apperrors.ServiceFailed(errors.New("connection refused"))
	}
	m := testModel(t, store, client)

	m = typeText(m, "hello?")
	cmd := m.submitInput()
	if m.input.Value() != "" {
		t.Fatal("input must be cleared before the outcome is known")
	}
	deliver(t, m, cmd)

	for _, b := range m.sessions.Active().View.Bubbles() {
		if b.Role == session.RoleStatus {
			t.Error("placeholder should be gone")
		}
	}
	turns := loadTurns(t, store, 1)
	if len(turns) != 2 {
		t.Fatalf("persisted %d turns, want 2", len(turns))
	}
	if turns[1].Role != session.RoleSystem || !strings.Contains(turns[1].Content, "connection refused") {
		t.Errorf("error turn = %+v", turns[1])
	}
}

func TestSend_AppendFailureWarnsAndKeepsTurn(t *testing.T) {
	store := testStore(t)
	m := testModel(t, store, nil)
	blockLog(t, store, 1)

	submit(m, "hi")

	if m.input.Value() != "" {
		t.Errorf("input = %q, want it cleared", m.input.Value())
	}
	flash := m.footer.Flash()
	if flash == nil || flash.Type != ui.FlashWarning || !strings.Contains(flash.Text, "chat_001.jsonl") {
		t.Fatalf("flash = %+v, want a warning naming the log", flash)
	}
	if !m.requests.Busy(1) {
		t.Error("the request should go out despite the failed write")
	}
	want := []session.Turn{{Role: session.RoleUser, Content: "hi"}}
	if got := m.sessions.Active().View.Persisted(); !sameTurns(got, want) {
		t.Errorf("view = %+v, want %+v", got, want)
	}
}

func TestDeliver_AppendFailureWarnsAndShowsReply(t *testing.T) {
	store := testStore(t)
	m := testModel(t, store, nil)

	cmd := submit(m, "hi")
	blockLog(t, store, 1)
	m.footer.ClearFlash()
	deliver(t, m, cmd)

	flash := m.footer.Flash()
	if flash == nil || flash.Type != ui.FlashWarning || !strings.Contains(flash.Text, "chat_001.jsonl") {
		t.Fatalf("flash = %+v, want a warning naming the log", flash)
	}
	active := m.sessions.Active()
	want := []session.Turn{
		{Role: session.RoleUser, Content: "hi"},
		{Role: session.RoleAssistant, Content: "echo: hi"},
	}
	if got := active.View.Persisted(); !sameTurns(got, want) {
		t.Errorf("view = %+v, want %+v", got, want)
	}
	if len(active.Turns) != 2 {
		t.Errorf("cached %d turns, want 2", len(active.Turns))
	}
	for _, b := range active.View.Bubbles() {
		if b.Role == session.RoleStatus {
			t.Error("placeholder should be gone")
		}
	}
}

func TestDelete_LogRemovalFailureStillRemovesChat(t *testing.T) {
	store := testStore(t)
	m := testModel(t, store, nil)
	blockLog(t, store, 1)

	m.deleteSession(1)

	if m.sessions.Known(1) {
		t.Error("chat 1 should be gone from the app")
	}
	if _, ok := m.sidebar.Node(1); ok {
		t.Error("chat 1 should be gone from the tree")
	}
	if active := m.sessions.Active(); active == nil || active.ID != 2 {
		t.Errorf("expected the replacement chat to be active, got %v", active)
	}
	flash := m.footer.Flash()
	if flash == nil || flash.Type != ui.FlashWarning || !strings.Contains(flash.Text, "couldn't delete chat_001.jsonl") {
		t.Errorf("flash = %+v, want a delete warning", flash)
	}
}

func TestSend_WhileBusyKeepsInput(t *testing.T) {
	m := testModel(t, testStore(t), nil)

	if cmd := submit(m, "first"); cmd == nil {
		t.Fatal("expected request command")
	}
	submit(m, "second")

	if m.input.Value() != "second" {
		t.Errorf("input = %q, want it kept", m.input.Value())
	}
	if flash := m.footer.Flash(); flash == nil || flash.Type != ui.FlashWarning {
		t.Errorf("expected a warning flash, got %+v", flash)
	}
}

func TestSend_BackgroundReplyNotifies(t *testing.T) {
	m := testModel(t, testStore(t), nil)
	m.config.SetNotificationsEnabled(true)
	var notified []string
	m.notifyDone = func(title string) error {
		notified = append(notified, title)
		return nil
	}

	cmd := submit(m, "hi")
	m = sendKey(m, keys.CtrlN)
	deliver(t, m, cmd)

	if len(notified) != 1 || notified[0] != "chat_001" {
		t.Errorf("notified = %v", notified)
	}
	if m.sessions.Active().ID != 2 {
		t.Error("a background reply must not switch chats")
	}

	// Foreground replies do not notify.
	deliver(t, m, submit(m, "again"))
	if len(notified) != 1 {
		t.Errorf("notified = %v", notified)
	}
}

func TestInputDraftFollowsChat(t *testing.T) {
	m := testModel(t, testStore(t), nil)
	m = typeText(m, "draft")
	m = sendKey(m, keys.CtrlN)

	if m.input.Value() != "" {
		t.Errorf("new chat input = %q, want empty", m.input.Value())
	}
	m = sendKey(m, keys.CtrlLeft)
	if m.input.Value() != "draft" {
		t.Errorf("input = %q, want the saved draft", m.input.Value())
	}
}

func TestCtrlCQuitsAndCancels(t *testing.T) {
	client := completion.NewMockClient()
	client.Gate = make(chan struct{})
	m := testModel(t, testStore(t), client)
	cmd := submit(m, "hi")

	_, quit := m.handleKeyPress(keyPress(keys.CtrlC))
	if quit == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := quit().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}

	// The gated request returns once its context is cancelled.
	msg := cmd().(CompletionMsg)
	if !apperrors.Is(msg.Err, apperrors.KindService) {
		t.Errorf("cancelled request err = %v", msg.Err)
	}
}

func TestRenderToString(t *testing.T) {
	m := New(testConfig(t), testStore(t), completion.NewMockClient(), "test")
	t.Cleanup(func() { ui.SetTheme(ui.DefaultTheme) })
	if got := m.RenderToString(); got != "Loading..." {
		t.Errorf("before sizing = %q", got)
	}

	m = setSize(m, 120, 40)
	out := m.RenderToString()
	for _, want := range []string{"Chats", "chat_001"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	m.showHelp()
	if !strings.Contains(m.RenderToString(), "Help") {
		t.Error("help modal should render")
	}
}

func TestMouse_ClickTabActivates(t *testing.T) {
	m := testModel(t, testStore(t), nil)
	m = sendKey(m, keys.CtrlN)
	m.RenderToString()

	ctx := ui.GetViewContext()
	m.Update(tea.MouseClickMsg{X: ctx.SidebarWidth, Y: ui.HeaderHeight, Button: tea.MouseLeft})

	if m.sessions.Active().ID != 1 {
		t.Errorf("active = %v, want 1", m.sessions.Active().ID)
	}
	if sel, _ := m.sidebar.Selected(); sel != 1 {
		t.Errorf("tree selection = %v, want 1", sel)
	}
}

func TestMouse_ClickTreeRowOpensChat(t *testing.T) {
	m := testModel(t, testStore(t), nil)
	m = sendKey(m, keys.CtrlN)
	before := m.sessions.Stats().Propagated

	// Row 1 is the first chat, below the border and the root row.
	m.Update(tea.MouseClickMsg{X: 2, Y: ui.HeaderHeight + 2, Button: tea.MouseLeft})

	if m.sessions.Active().ID != 1 {
		t.Errorf("active = %v, want 1", m.sessions.Active().ID)
	}
	if got := m.sessions.Stats().Propagated - before; got != 1 {
		t.Errorf("propagated %d times, want 1", got)
	}
	if m.focus != FocusSidebar {
		t.Errorf("focus = %v, want Sidebar", m.focus)
	}
}

func TestFocus_String(t *testing.T) {
	if FocusSidebar.String() != "Sidebar" || FocusChat.String() != "Chat" || Focus(9).String() != "Unknown" {
		t.Error("unexpected Focus names")
	}
}

// TestLifecycleInvariants drives a random mix of user actions and checks
// the projections stay in agreement after each one.
func TestLifecycleInvariants(t *testing.T) {
	store := testStore(t)
	m := testModel(t, store, nil)
	rng := rand.New(rand.NewSource(7))

	actions := []struct {
		name string
		run  func()
	}{
		{"new", func() { m.newSession() }},
		{"close", func() { m.closeActiveTab() }},
		{"delete-active", func() { m.deleteSession(m.sessions.Active().ID) }},
		{"delete-any", func() {
			ids := m.sidebar.NodeIDs()
			m.deleteSession(ids[rng.Intn(len(ids))])
		}},
		{"select", func() {
			ids := m.sidebar.NodeIDs()
			m.sidebar.Select(ids[rng.Intn(len(ids))])
		}},
		{"cycle", func() { m.cycleTab(1) }},
		{"send", func() {
			if cmd := submit(m, "ping"); cmd != nil {
				m.Update(cmd())
			}
		}},
	}

	for i := 0; i < 200; i++ {
		a := actions[rng.Intn(len(actions))]
		before := m.sessions.Stats().Propagated
		a.run()
		if got := m.sessions.Stats().Propagated - before; got > 1 {
			t.Fatalf("step %d (%s): one action propagated %d selections", i, a.name, got)
		}
		assertConsistent(t, m.sessions, m.tabs, m.sidebar)

		// Every open chat shows exactly what its log holds.
		for _, id := range m.sessions.Registry().IDs() {
			s, _ := m.sessions.Registry().Get(id)
			shown := s.View.Persisted()
			stored := loadTurns(t, store, id)
			if len(shown) != len(stored) {
				t.Fatalf("step %d (%s): %v shows %d turns, log has %d", i, a.name, id, len(shown), len(stored))
			}
		}
		// Tree and disk agree.
		for _, id := range m.sidebar.NodeIDs() {
			if !store.Exists(id) {
				t.Fatalf("step %d (%s): tree lists %v with no log", i, a.name, id)
			}
		}
	}
}

func sameTurns(got, want []session.Turn) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i].Role != want[i].Role || got[i].Content != want[i].Content {
			return false
		}
	}
	return true
}
