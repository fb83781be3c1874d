package core

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindMissingConfiguration   ErrorKind = "missing_configuration"
	KindTokenAcquisitionFailed ErrorKind = "token_acquisition_failed"
	KindUploadFetchFailed      ErrorKind = "upload_fetch_failed"
	KindResolveFailed          ErrorKind = "resolve_failed"
	KindNoTracksFound          ErrorKind = "no_tracks_found"
	KindEmptyCommit            ErrorKind = "empty_commit"
	KindCommitFailed           ErrorKind = "commit_failed"
	KindBusy                   ErrorKind = "busy"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrMissingConfiguration   = &Error{Kind: KindMissingConfiguration}
	ErrTokenAcquisitionFailed = &Error{Kind: KindTokenAcquisitionFailed}
	ErrUploadFetchFailed      = &Error{Kind: KindUploadFetchFailed}
	ErrResolveFailed          = &Error{Kind: KindResolveFailed}
	ErrNoTracksFound          = &Error{Kind: KindNoTracksFound}
	ErrEmptyCommit            = &Error{Kind: KindEmptyCommit}
	ErrCommitFailed           = &Error{Kind: KindCommitFailed}
	ErrBusy                   = &Error{Kind: KindBusy}
)

// Error is a classified failure of the fetch/resolve/select workflow.
type Error struct {
	Kind ErrorKind
	// StatusCode is the upstream HTTP status, zero when no response was received.
	StatusCode int
	// Message is the upstream error text, if the response carried one.
	Message string
	// Query is the resolve input the error belongs to.
	Query string
	Err   error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Query != "" {
		msg += fmt.Sprintf(" (query %q)", e.Query)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
