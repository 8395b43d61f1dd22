// Package apperr classifies failures so handlers can map them to HTTP
// status codes without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInternal is the zero kind: anything unclassified.
	KindInternal Kind = iota
	// KindNotFound: a referenced User, Book or CartEntry does not exist.
	KindNotFound
	// KindConflict: duplicate email, reference_id or cart entry.
	KindConflict
	// KindInvalidInput: a request violated a validation rule.
	KindInvalidInput
	// KindValuation: image fetch, decode or inference failed inside the
	// quality regressor. Always surfaced, never defaulted.
	KindValuation
)

type Error struct {
	Kind Kind
	Msg  string // client-safe message naming the violated rule
	Err  error  // underlying cause, logged but not sent to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

func Valuation(err error, format string, args ...any) error {
	return &Error{Kind: KindValuation, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-safe message of err. Internal and valuation
// errors get a generic message so details never leak to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindNotFound, KindConflict, KindInvalidInput:
			return e.Msg
		}
	}
	return "internal error"
}
