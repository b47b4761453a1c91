// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
)

// Kind classifies an extraction failure.
type Kind string

const (
	KindInputNotFound Kind = "input_not_found"
	KindRead          Kind = "read"
	KindDecode        Kind = "decode"
	KindMissingField  Kind = "missing_field"
	KindNotMapping    Kind = "not_mapping"
	KindInvalidTitle  Kind = "invalid_title"
	KindWrite         Kind = "write"
	KindCanceled      Kind = "canceled"
)

// Error is returned by Run. It carries the failing step's kind, the file
// involved, and the underlying cause.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// KindOf returns the kind of err, or "" when err is nil or not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Exit codes used in strict mode.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitNotFound     = 2
	ExitDecode       = 3
	ExitInvalidInput = 4
	ExitWrite        = 5
	ExitRead         = 6
)

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch KindOf(err) {
	case KindInputNotFound:
		return ExitNotFound
	case KindRead:
		return ExitRead
	case KindDecode:
		return ExitDecode
	case KindMissingField, KindNotMapping, KindInvalidTitle:
		return ExitInvalidInput
	case KindWrite:
		return ExitWrite
	default:
		return ExitFailure
	}
}

// StrictError wraps a failure that was already reported on the status
// channel so main can exit with ExitCode(err) without printing it again.
type StrictError struct {
	Err error
}

func (e *StrictError) Error() string {
	return fmt.Sprintf("strict mode: %v", e.Err)
}

func (e *StrictError) Unwrap() error {
	return e.Err
}
