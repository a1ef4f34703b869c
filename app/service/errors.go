package service

import "errors"

// ErrNotFound reports a lookup for a document id that was never ingested.
var ErrNotFound = errors.New("document not found")

// ValidationError rejects malformed caller input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// DependencyError wraps a failure from the store or the model provider; the
// underlying message is passed through verbatim.
type DependencyError struct {
	Err error
}

func (e *DependencyError) Error() string { return e.Err.Error() }

func (e *DependencyError) Unwrap() error { return e.Err }
