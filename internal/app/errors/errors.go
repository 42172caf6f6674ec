package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// Pipeline errors
var (
	// ErrNoTranscriptAvailable means every acquisition strategy came back empty
	ErrNoTranscriptAvailable = New("no transcript available")
	// ErrNoEmbeddingsAvailable means chunking/embedding produced zero usable vectors
	ErrNoEmbeddingsAvailable = New("no embeddings available")
	// ErrConfiguration means no embedding provider credential resolved
	ErrConfiguration = New("configuration error")

	ErrEmptyQuery      = New("query is empty")
	ErrInvalidVideoID  = New("invalid video id")
	ErrEmptyText       = New("empty text provided")
	ErrUnknownProvider = New("unknown embedding provider")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// Configuration wraps a configuration problem so it matches ErrConfiguration
func Configuration(format string, args ...interface{}) error {
	return Wrap(fmt.Errorf(format, args...), ErrConfiguration.message)
}

// ProviderError is a failed call to a remote embedding or transcription provider.
// Status is the HTTP status, or 0 when the request never produced a response.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

// NewProviderError builds a ProviderError for the given provider and status
func NewProviderError(provider string, status int, message string) *ProviderError {
	return &ProviderError{Provider: provider, Status: status, Message: message}
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s provider error (status %d): %s", e.Provider, e.Status, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// CacheError is a storage backend failure
type CacheError struct {
	Op      string
	Bucket  string
	VideoID string
	Err     error
}

func (e *CacheError) Error() string {
	if e.VideoID == "" {
		return fmt.Sprintf("cache %s %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("cache %s %s/%s: %v", e.Op, e.Bucket, e.VideoID, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err carries a ProviderError
func IsProviderError(err error) bool {
	var pe *ProviderError
	return stderrors.As(err, &pe)
}

// IsCacheError reports whether err carries a CacheError
func IsCacheError(err error) bool {
	var ce *CacheError
	return stderrors.As(err, &ce)
}

// IsCanceled reports whether err comes from a canceled or expired context
func IsCanceled(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Newf("%s is required", field)
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return Newf("%s is invalid: %s", field, reason)
}
