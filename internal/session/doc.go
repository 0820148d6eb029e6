// Package session models Parley conversations and persists them.
//
// # Identity
//
// A session is identified by a positive ordinal. Its textual form is
// "chat_" followed by the ordinal zero-padded to three digits, and its log
// lives at <history dir>/chat_NNN.jsonl. The ordinal is what gets stored;
// the text form is derived, so two sessions can never collide on a name.
//
// # Log format
//
// Each line of a log is one JSON object:
//
//	{"ts": "2025-01-02T03:04:05.123456Z", "role": "user", "content": "hi"}
//
// Lines are appended in order and never rewritten. Loading skips lines that
// fail to decode and reports how many were skipped so callers can warn.
// Status turns (the "thinking" placeholder) are display-only and are
// rejected by Append.
package session
