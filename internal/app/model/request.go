package model

import (
	"path/filepath"
	"strings"
)

// ProcessingRequest identifies the source file of one webhook invocation.
// It is treated as immutable: WithDuration returns a copy.
type ProcessingRequest struct {
	FileID          string
	FileName        string
	SizeBytes       int64
	DurationSeconds float64
}

// WithDuration returns a copy of r carrying the probed media duration.
func (r ProcessingRequest) WithDuration(seconds float64) ProcessingRequest {
	r.DurationSeconds = seconds
	return r
}

// WithSize returns a copy of r carrying the downloaded size.
func (r ProcessingRequest) WithSize(size int64) ProcessingRequest {
	r.SizeBytes = size
	return r
}

// Extension returns the lower-cased file extension including the dot.
func (r ProcessingRequest) Extension() string {
	return strings.ToLower(filepath.Ext(r.FileName))
}
