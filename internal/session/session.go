package session

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	idPrefix = "chat_"
	logExt   = ".jsonl"
)

// logNamePattern matches log file names. Ordinals past 999 widen the
// padded field, so three or more digits are accepted.
var logNamePattern = regexp.MustCompile(`^chat_(\d{3,})\.jsonl$`)

// ID identifies a session. Zero is never a valid session.
type ID int

// String returns the canonical form, e.g. "chat_007".
func (id ID) String() string {
	return fmt.Sprintf("%s%03d", idPrefix, int(id))
}

// FileName returns the log file name for the session.
func (id ID) FileName() string {
	return id.String() + logExt
}

// Valid reports whether id can name a session.
func (id ID) Valid() bool {
	return id > 0
}

// ParseFileName extracts the ID from a log file name.
func ParseFileName(name string) (ID, bool) {
	m := logNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return ID(n), true
}

// ParseID accepts either the canonical form ("chat_007") or a bare ordinal ("7").
func ParseID(s string) (ID, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, logExt)
	s = strings.TrimPrefix(s, idPrefix)
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return ID(n), true
}

// Role is who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	// RoleStatus marks display-only placeholders. Never persisted.
	RoleStatus Role = "status"
)

// Persistable reports whether turns with this role belong in the log.
func (r Role) Persistable() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Turn is one message in a conversation.
type Turn struct {
	Timestamp time.Time
	Role      Role
	Content   string
}

// NewTurn stamps a turn with the current UTC time.
func NewTurn(role Role, content string) Turn {
	return Turn{Timestamp: time.Now().UTC(), Role: role, Content: content}
}

// FormatTranscript renders turns as plain text, one "ROLE: content" block per
// turn separated by blank lines.
func FormatTranscript(turns []Turn) string {
	if len(turns) == 0 {
		return "(empty)"
	}
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		parts = append(parts, strings.ToUpper(string(t.Role))+": "+t.Content)
	}
	return strings.Join(parts, "\n\n")
}
