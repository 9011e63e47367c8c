package failure

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Kind classifies a failure by how the request pipeline reacts to it.
type Kind string

const (
	// Validation is a malformed or missing client input. Surfaced as 400.
	Validation Kind = "validation"
	// Fetch is an archive download failure. Surfaced as 500.
	Fetch Kind = "fetch"
	// IO is a local filesystem, extraction or scan failure. Surfaced as 500.
	IO Kind = "io"
	// Generation is a model call failure. Absorbed into degraded output.
	Generation Kind = "generation"
	// Cleanup is a best-effort resource release failure. Logged only.
	Cleanup Kind = "cleanup"
)

// Error carries a Kind, the operation that failed, and the underlying cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	cause   error
	stack   []byte
}

// New wraps cause with kind and op. A nil cause is allowed when message is set.
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, cause: cause, stack: debug.Stack()}
}

// Newf builds an Error without an underlying cause.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), stack: debug.Stack()}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.cause != nil {
		msg = e.cause.Error()
	} else if e.cause != nil {
		msg = msg + ": " + e.cause.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.cause }

// Stack returns the goroutine stack captured when the error was built.
func (e *Error) Stack() string {
	if e == nil {
		return ""
	}
	return string(e.stack)
}

// KindOf returns the Kind of the first *Error in err's chain.
// Errors that carry no Kind are treated as IO failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return IO
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StackOf returns the captured stack of the first *Error in err's chain.
func StackOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Stack()
	}
	return ""
}
