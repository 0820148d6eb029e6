// Package errors provides structured error types for Parley.
// These errors carry the operation that failed and a Kind the UI uses
// to decide how loudly to report them.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindConfig
	KindTimeout
	KindService     // completion service rejected or failed the request
	KindMalformed   // a persisted record could not be decoded
	KindUnsupported // a widget lacks an optional capability
	KindInvariant   // an operation was refused to keep state consistent
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindTimeout:
		return "timeout"
	case KindService:
		return "service error"
	case KindMalformed:
		return "malformed record"
	case KindUnsupported:
		return "unsupported"
	case KindInvariant:
		return "refused"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for Parley.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Summary returns a short, user-facing message for err: the context and
// underlying cause of the outermost structured error, without its Op.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	cause := e.Err.Error()
	var inner *Error
	if errors.As(e.Err, &inner) {
		cause = Summary(inner)
	}
	if e.Context != "" {
		return e.Context + ": " + cause
	}
	return cause
}

// Session errors
func SessionNotFound(id string) error {
	return E(Op("session.Get"), KindNotFound, fmt.Sprintf("session %s not found", id))
}

func RecordMalformed(path string, line int, err error) error {
	return E(Op("session.Load"), KindMalformed, fmt.Sprintf("%s line %d", path, line), err)
}

func HistoryIO(op Op, path string, err error) error {
	return E(op, KindIO, path, err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Operation refusals
func Refused(op Op, reason string) error {
	return E(op, KindInvariant, reason)
}

func Unsupported(op Op, reason string) error {
	return E(op, KindUnsupported, reason)
}

// Completion errors
func ServiceFailed(err error) error {
	return E(Op("completion.Complete"), KindService, err)
}

func ServiceTimeout(after fmt.Stringer) error {
	return E(Op("completion.Complete"), KindTimeout, fmt.Sprintf("no response after %s", after))
}
