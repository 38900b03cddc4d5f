package types

import "errors"

// ErrorKind classifies failures surfaced to the user
type ErrorKind string

const (
	KindConfig          ErrorKind = "config"
	KindInvalidFileType ErrorKind = "invalid_file_type"
	KindParse           ErrorKind = "parse"
	KindAnalysis        ErrorKind = "analysis"
	KindPlayback        ErrorKind = "playback"
	KindBusy            ErrorKind = "busy"
	KindNotReady        ErrorKind = "not_ready"
)

// Sentinels for errors.Is checks against an *Error of the same kind
var (
	ErrConfig          = &Error{Kind: KindConfig}
	ErrInvalidFileType = &Error{Kind: KindInvalidFileType}
	ErrParse           = &Error{Kind: KindParse}
	ErrAnalysis        = &Error{Kind: KindAnalysis}
	ErrPlayback        = &Error{Kind: KindPlayback}
	ErrBusy            = &Error{Kind: KindBusy}
	ErrNotReady        = &Error{Kind: KindNotReady}
)

// Error is a user-facing failure. Message is what the view shows;
// Err keeps the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewError creates an error of the given kind
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so errors.Is(err, ErrParse) matches any parse error
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
