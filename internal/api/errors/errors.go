// Package errors is the JSON error body of the HTTP API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	apperrors "box-skill-whisper/internal/app/errors"
)

type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindBadRequest    ErrorKind = "bad_request"
	KindNotFound      ErrorKind = "not_found"
	KindUnprocessable ErrorKind = "unprocessable"
	KindBadGateway    ErrorKind = "bad_gateway"
	KindInternal      ErrorKind = "internal"
)

var statusByKind = map[ErrorKind]int{
	KindValidation:    http.StatusBadRequest,
	KindBadRequest:    http.StatusBadRequest,
	KindNotFound:      http.StatusNotFound,
	KindUnprocessable: http.StatusUnprocessableEntity,
	KindBadGateway:    http.StatusBadGateway,
	KindInternal:      http.StatusInternalServerError,
}

// internalMessage replaces the text of unclassified errors in responses.
const internalMessage = "Internal server error"

// APIError is the body of every non-2xx response.
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	// Stage is the pipeline stage that failed, when there is one.
	Stage string `json:"stage,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus maps the kind to a status code; unknown kinds are 500.
func (e *APIError) HTTPStatus() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{Kind: KindValidation, Message: message, Details: fields}
}

func NewNotFoundError(resource string) *APIError {
	return &APIError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewInternalError(message string) *APIError {
	return &APIError{Kind: KindInternal, Message: message}
}

func NewBadRequestError(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

// FromPipelineError maps a pipeline error to its HTTP form: upstream
// platform failures are 502, unusable media is 422. The text of unclassified
// errors is not exposed.
func FromPipelineError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	out := &APIError{Kind: kindOf(err), Message: err.Error(), Stage: apperrors.StageOf(err)}
	if out.Kind == KindInternal {
		out.Message = internalMessage
	}
	return out
}

func kindOf(err error) ErrorKind {
	switch {
	case stderrors.Is(err, apperrors.ErrFetch), stderrors.Is(err, apperrors.ErrPlatformWrite):
		return KindBadGateway
	case stderrors.Is(err, apperrors.ErrConversion):
		return KindUnprocessable
	case stderrors.Is(err, apperrors.ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
