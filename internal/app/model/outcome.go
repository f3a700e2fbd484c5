package model

import (
	"errors"
	"time"
)

// ErrSkipped marks a stage that never ran because its input was unavailable.
var ErrSkipped = errors.New("skipped: transcript unavailable")

// Outcome is the result-or-failure value passed between pipeline stages.
// Exactly one of Value or Err is meaningful.
type Outcome[T any] struct {
	Value   T
	Err     error
	Elapsed time.Duration
}

// Succeed wraps a successful stage result.
func Succeed[T any](value T, elapsed time.Duration) Outcome[T] {
	return Outcome[T]{Value: value, Elapsed: elapsed}
}

// Fail wraps a failed stage result.
func Fail[T any](err error, elapsed time.Duration) Outcome[T] {
	return Outcome[T]{Err: err, Elapsed: elapsed}
}

// Skip marks a stage that was not attempted.
func Skip[T any]() Outcome[T] {
	return Outcome[T]{Err: ErrSkipped}
}

// Succeeded reports whether the stage produced a value.
func (o Outcome[T]) Succeeded() bool {
	return o.Err == nil
}

// Skipped reports whether the stage was never attempted.
func (o Outcome[T]) Skipped() bool {
	return errors.Is(o.Err, ErrSkipped)
}

// Service names reported in diagnostics, in display order.
const (
	ServiceTranscription = "transcription"
	ServiceSummary       = "summary"
	ServiceKeywords      = "keywords"
)

// ServiceTiming records one upstream call.
type ServiceTiming struct {
	Name      string
	Elapsed   time.Duration
	Succeeded bool
	Skipped   bool
}

// TimingOf derives the ServiceTiming of an outcome.
func TimingOf[T any](name string, o Outcome[T]) ServiceTiming {
	return ServiceTiming{
		Name:      name,
		Elapsed:   o.Elapsed,
		Succeeded: o.Succeeded(),
		Skipped:   o.Skipped(),
	}
}
