package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/zhubert/parley/internal/session"
)

func newTestMessageView() *MessageView {
	v := NewMessageView()
	v.SetSize(60, 20)
	return v
}

func TestMessageView_Empty(t *testing.T) {
	v := newTestMessageView()

	if v.Len() != 0 {
		t.Errorf("Expected no bubbles, got %d", v.Len())
	}
	if !strings.Contains(stripANSI(v.View(false)), "No messages yet.") {
		t.Error("Empty view should show a placeholder")
	}
}

func TestMessageView_MountAndRemove(t *testing.T) {
	v := newTestMessageView()

	user := v.Mount(session.RoleUser, "hi", false)
	status := v.Mount(session.RoleStatus, "_Thinking…_", true)

	if user == status {
		t.Fatal("Handles should be unique")
	}
	if v.Len() != 2 {
		t.Fatalf("Expected 2 bubbles, got %d", v.Len())
	}

	view := stripANSI(v.View(false))
	if !strings.Contains(view, "Thinking…") {
		t.Errorf("Expected placeholder in view, got %q", view)
	}
	if strings.Contains(view, "_Thinking") {
		t.Error("Placeholder markers should not be rendered")
	}

	if !v.Remove(status) {
		t.Fatal("Remove should find the placeholder")
	}
	if v.Remove(status) {
		t.Error("Second Remove should report false")
	}
	if strings.Contains(stripANSI(v.View(false)), "Thinking") {
		t.Error("Placeholder should be gone from the view")
	}
}

func TestMessageView_Load(t *testing.T) {
	v := newTestMessageView()
	v.Mount(session.RoleSystem, "welcome", true)

	v.Load([]session.Turn{
		{Role: session.RoleUser, Content: "hi"},
		{Role: session.RoleAssistant, Content: "hello"},
	})

	bubbles := v.Bubbles()
	if len(bubbles) != 2 {
		t.Fatalf("Load should replace contents, got %d bubbles", len(bubbles))
	}
	if bubbles[0].Role != session.RoleUser || bubbles[1].Content != "hello" {
		t.Errorf("Unexpected bubbles %+v", bubbles)
	}

	view := stripANSI(v.View(false))
	if strings.Index(view, "You:") > strings.Index(view, "Assistant:") {
		t.Error("Turns should render in order")
	}
}

func TestMessageView_Persisted(t *testing.T) {
	v := newTestMessageView()
	v.Mount(session.RoleSystem, "welcome", true)
	v.Mount(session.RoleUser, "q", false)
	v.Mount(session.RoleStatus, "_Thinking…_", true)
	v.Mount(session.RoleAssistant, "a", false)

	got := v.Persisted()
	if len(got) != 2 {
		t.Fatalf("Expected 2 persisted turns, got %d", len(got))
	}
	if got[0].Content != "q" || got[1].Content != "a" {
		t.Errorf("Unexpected persisted turns %+v", got)
	}
}

func TestMessageView_RoleLabels(t *testing.T) {
	tests := []struct {
		role session.Role
		want string
	}{
		{session.RoleUser, "You:"},
		{session.RoleAssistant, "Assistant:"},
		{session.RoleSystem, "System:"},
	}
	for _, tt := range tests {
		v := newTestMessageView()
		v.Mount(tt.role, "body", false)
		if !strings.Contains(stripANSI(v.View(false)), tt.want) {
			t.Errorf("role %s: expected label %q", tt.role, tt.want)
		}
	}
}

func TestMessageView_ScrollsToBottom(t *testing.T) {
	v := newTestMessageView()
	for i := 0; i < 30; i++ {
		v.Mount(session.RoleUser, fmt.Sprintf("message %d", i), false)
	}

	if !v.AtBottom() {
		t.Error("New bubbles should keep the view at the bottom")
	}
	if !strings.Contains(stripANSI(v.View(false)), "message 29") {
		t.Error("Latest message should be visible")
	}
}

func TestMessageView_RefreshOnThemeChange(t *testing.T) {
	defer SetTheme(DefaultTheme)

	v := newTestMessageView()
	v.Mount(session.RoleUser, "hi", false)
	before := v.View(false)

	SetTheme(ThemeLight)
	v.Refresh()

	if v.View(false) == before {
		t.Error("View should re-render with the new theme")
	}
}
