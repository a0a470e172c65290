package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every terminal pipeline failure. Callers branch on the
// kind, never on message text.
type ErrorKind string

const (
	// ErrSourceUnavailable covers unreachable, private, or deleted sources.
	ErrSourceUnavailable ErrorKind = "source_unavailable"
	// ErrUnsupportedSource covers sources the extractor has no handler for
	// and uploads rejected by policy (oversize, disallowed extension).
	ErrUnsupportedSource ErrorKind = "unsupported_source"
	// ErrTranscriptionService covers failures from the speech-to-text call.
	ErrTranscriptionService ErrorKind = "transcription_service_error"
	// ErrAssemblyInconsistency is an internal invariant violation. Always a
	// defect, never user-caused.
	ErrAssemblyInconsistency ErrorKind = "assembly_inconsistency"
	// ErrFormatResolution means no rendition matched the selector and no
	// fallback applied.
	ErrFormatResolution ErrorKind = "format_resolution_failure"
	// ErrTimeout means a per-chunk or whole-request deadline was exceeded.
	ErrTimeout ErrorKind = "timeout"
	// ErrCancelled means the caller withdrew the request.
	ErrCancelled ErrorKind = "cancelled"
)

// PipelineError tags an error with its kind and whether a bounded local retry
// is worthwhile.
type PipelineError struct {
	Kind      ErrorKind
	Message   string
	Transient bool
	Err       error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError builds a permanent error of the given kind.
func NewPipelineError(kind ErrorKind, format string, args ...interface{}) *PipelineError {
	return &PipelineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapPipelineError wraps an underlying error with a kind.
func WrapPipelineError(kind ErrorKind, err error, format string, args ...interface{}) *PipelineError {
	return &PipelineError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// NewTransientError builds an error eligible for bounded retry.
func NewTransientError(kind ErrorKind, err error, format string, args ...interface{}) *PipelineError {
	return &PipelineError{Kind: kind, Message: fmt.Sprintf(format, args...), Transient: true, Err: err}
}

// KindOf extracts the error kind from an error chain. Errors without a
// PipelineError in the chain return the empty kind.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// IsTransient reports whether the error chain is marked retryable.
func IsTransient(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Transient
	}
	return false
}
