package game

import (
	"errors"
	"fmt"
)

// ErrorKind classifies command failures so the transport layer can map them
// to a response status without inspecting message text.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindForbidden
	KindInvalidState
	KindInternal
)

// Error is a command failure with a taxonomy kind. Commands validate every
// precondition before mutating, so an Error implies no state change.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func errNotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func errForbidden(format string, args ...interface{}) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func errInvalidState(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the taxonomy kind from an error, defaulting to KindInternal
// for anything that did not originate from a command precondition.
func KindOf(err error) ErrorKind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return KindInternal
}
