package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	apperrors "vidseek/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindUnprocessable      ErrorKind = "unprocessable"
	KindPrecondition       ErrorKind = "precondition_failed"
	KindUpstream           ErrorKind = "upstream"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindTimeout            ErrorKind = "timeout"
	KindInternal           ErrorKind = "internal"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindPrecondition:
		return http.StatusPreconditionFailed
	case KindUpstream:
		return http.StatusBadGateway
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// FromError maps a domain error onto the API error it should surface as.
// Errors it does not recognise become KindInternal with a generic message.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	var providerErr *apperrors.ProviderError
	var cacheErr *apperrors.CacheError

	switch {
	case stderrors.Is(err, apperrors.ErrInvalidVideoID):
		return &APIError{Kind: KindValidation, Code: "invalid_video_id", Message: err.Error(),
			Details: map[string]string{"videoId": "must be an 11 character video id"}}
	case stderrors.Is(err, apperrors.ErrEmptyQuery):
		return &APIError{Kind: KindValidation, Code: "empty_query", Message: err.Error(),
			Details: map[string]string{"query": "is required"}}
	case stderrors.Is(err, apperrors.ErrNoTranscriptAvailable):
		return &APIError{Kind: KindNotFound, Code: "no_transcript", Message: err.Error()}
	case stderrors.Is(err, apperrors.ErrNoEmbeddingsAvailable):
		return &APIError{Kind: KindUnprocessable, Code: "no_embeddings", Message: err.Error()}
	case stderrors.Is(err, apperrors.ErrConfiguration), stderrors.Is(err, apperrors.ErrUnknownProvider):
		return &APIError{Kind: KindPrecondition, Code: "configuration", Message: err.Error()}
	case apperrors.IsCanceled(err):
		return &APIError{Kind: KindTimeout, Code: "canceled", Message: "request canceled before completion"}
	case stderrors.As(err, &providerErr):
		return &APIError{Kind: KindUpstream, Code: "provider_error", Message: err.Error(),
			Details: map[string]string{"provider": providerErr.Provider}}
	case stderrors.As(err, &cacheErr):
		return &APIError{Kind: KindServiceUnavailable, Code: "cache_error", Message: err.Error()}
	}
	return NewInternalError("Internal server error")
}
