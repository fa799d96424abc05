package workspace

import (
	"errors"
	"fmt"
)

// Kind classifies a workspace failure. The set is closed.
type Kind string

const (
	KindNoWorkspace    Kind = "NoWorkspace"
	KindNotSelected    Kind = "NotSelected"
	KindNotFound       Kind = "NotFound"
	KindAlreadyExists  Kind = "AlreadyExists"
	KindSourceGone     Kind = "SourceGone"
	KindNothingToPaste Kind = "NothingToPaste"
	KindAccessDenied   Kind = "AccessDenied"
	KindCancelled      Kind = "Cancelled"
	KindReadError      Kind = "ReadError"
	KindWriteError     Kind = "WriteError"
	KindDeleteError    Kind = "DeleteError"
	KindRenameError    Kind = "RenameError"
	KindRevealError    Kind = "RevealError"
	KindInvalidInput   Kind = "InvalidInput"
)

// Error is the only error type returned by Session operations.
type Error struct {
	Kind Kind
	Op   string
	Path string
	// Msg overrides the cause's text when set.
	Msg string
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a workspace error, or "" for any other error.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

func newError(kind Kind, op, path, msg string) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Msg: msg}
}

func wrapError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func noWorkspace(op string) *Error {
	return &Error{Kind: KindNoWorkspace, Op: op, Msg: "No folder selected"}
}

func invalidInput(op, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Msg: fmt.Sprintf(format, args...)}
}
