package errors

import (
	stderrors "errors"
	"fmt"
)

// Common error kinds
var (
	// Configuration errors
	ErrMissingAPIKey = New("API key is required")
	ErrInvalidConfig = New("invalid configuration")

	// Fatal pipeline errors: every later stage depends on their output
	ErrFetch         = New("fetch failed")
	ErrConversion    = New("audio conversion failed")
	ErrPlatformWrite = New("platform write failed")

	// Recoverable pipeline errors: degrade to an error card
	ErrTranscription = New("transcription failed")
	ErrSummarization = New("summarization failed")
	ErrExtraction    = New("keyword extraction failed")

	// Lookup errors
	ErrNotFound = New("not found")
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

// Stage names used by StageError.
const (
	StageFetch         = "fetch"
	StageConvert       = "convert"
	StageTranscription = "transcription"
	StageSummary       = "summary"
	StageKeywords      = "keywords"
	StageUpload        = "upload"
)

// StageError ties a failure to the pipeline stage that produced it.
type StageError struct {
	Stage string
	Kind  *Error
	Err   error
}

// NewStageError wraps err as a failure of stage, classified by kind.
func NewStageError(stage string, kind *Error, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind.message, e.Err)
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Fetch wraps a download failure.
func Fetch(err error) error { return NewStageError(StageFetch, ErrFetch, err) }

// Conversion wraps an audio extraction failure.
func Conversion(err error) error { return NewStageError(StageConvert, ErrConversion, err) }

// Transcription wraps a speech-to-text failure.
func Transcription(err error) error {
	return NewStageError(StageTranscription, ErrTranscription, err)
}

// Summarization wraps a summary failure.
func Summarization(err error) error { return NewStageError(StageSummary, ErrSummarization, err) }

// Extraction wraps a keyword extraction failure.
func Extraction(err error) error { return NewStageError(StageKeywords, ErrExtraction, err) }

// PlatformWrite wraps an upload rejection.
func PlatformWrite(err error) error { return NewStageError(StageUpload, ErrPlatformWrite, err) }

// IsFatal reports whether err aborts the whole request. Failures of the
// three AI stages are recoverable; anything else is fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !(stderrors.Is(err, ErrTranscription) ||
		stderrors.Is(err, ErrSummarization) ||
		stderrors.Is(err, ErrExtraction))
}

// StageOf returns the stage recorded in err, or "" when err carries none.
func StageOf(err error) string {
	var se *StageError
	if stderrors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// Cause returns the innermost message suitable for display, without the kind prefix.
func Cause(err error) string {
	var se *StageError
	if stderrors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// NotFound returns an error for items that were not found
func NotFound(itemType string, identifier string) error {
	return Wrapf(ErrNotFound, "%s %s", itemType, identifier)
}
