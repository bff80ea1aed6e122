package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the retrieval pipeline.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindFetch         ErrorKind = "fetch"
	KindExtraction    ErrorKind = "extraction"
	KindIndex         ErrorKind = "index"
	KindGeneration    ErrorKind = "generation"
)

// Error is a classified pipeline error.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrConfiguration = &Error{Kind: KindConfiguration, Message: "configuration error"}
	ErrFetch         = &Error{Kind: KindFetch, Message: "fetch failed"}
	ErrExtraction    = &Error{Kind: KindExtraction, Message: "text extraction failed"}
	ErrIndex         = &Error{Kind: KindIndex, Message: "vector index unavailable"}
	ErrGeneration    = &Error{Kind: KindGeneration, Message: "generation failed"}
)

// NewError creates a classified error wrapping err (which may be nil).
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// ConfigurationError reports a missing or invalid setting the operator must fix.
func ConfigurationError(format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err is a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsFetchError reports whether err is a document fetch error.
func IsFetchError(err error) bool {
	return errors.Is(err, ErrFetch)
}

// IsExtractionError reports whether err is a text extraction error.
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrExtraction)
}

// KindOf returns the kind of a classified error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
