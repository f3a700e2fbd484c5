// Package cards assembles pipeline outcomes into the fixed, ordered card set
// displayed by the platform. Everything here is a pure function of its input.
package cards

import (
	"fmt"
)

// Type identifies the kind of a card.
type Type string

const (
	TypeSummary     Type = "status-summary"
	TypeKeywords    Type = "keyword-list"
	TypeTranscript  Type = "transcript"
	TypeDiagnostics Type = "status-diagnostics"
)

// Order is the display order of a batch. It never changes with failures.
var Order = [...]Type{TypeSummary, TypeKeywords, TypeTranscript, TypeDiagnostics}

// Payload is the type-specific content of a card.
type Payload interface {
	cardType() Type
	// Failure returns the error description of a degraded payload, or "".
	Failure() string
}

// Degradation is embedded in every content payload. A degraded payload keeps
// its card's type and position but reports Error instead of content.
type Degradation struct {
	Degraded bool   `json:"degraded,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Failure implements Payload.
func (d Degradation) Failure() string {
	if !d.Degraded {
		return ""
	}
	return d.Error
}

func degraded(message string) Degradation {
	return Degradation{Degraded: true, Error: message}
}

// SummaryPayload carries the language-model summary.
type SummaryPayload struct {
	Text string `json:"text,omitempty"`
	Degradation
}

func (SummaryPayload) cardType() Type { return TypeSummary }

// KeywordsPayload carries the ordered, de-duplicated keyword list.
type KeywordsPayload struct {
	Terms []string `json:"terms,omitempty"`
	Degradation
}

func (KeywordsPayload) cardType() Type { return TypeKeywords }

// Segment is a transcript segment as displayed; timestamps are copied untouched.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptPayload carries every transcript segment in source order.
type TranscriptPayload struct {
	Segments []Segment `json:"segments,omitempty"`
	Degradation
}

func (TranscriptPayload) cardType() Type { return TypeTranscript }

// ServiceReport is one upstream call as reported in diagnostics.
type ServiceReport struct {
	Name           string  `json:"name"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Succeeded      bool    `json:"succeeded"`
	Skipped        bool    `json:"skipped,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// DiagnosticsPayload reports timings and file metrics. It is never degraded.
type DiagnosticsPayload struct {
	Services             []ServiceReport `json:"services"`
	TotalElapsedSeconds  float64         `json:"total_elapsed_seconds"`
	FileSizeBytes        int64           `json:"file_size_bytes"`
	MediaDurationSeconds float64         `json:"media_duration_seconds"`
	SpeedMultiple        *float64        `json:"speed_multiple,omitempty"`
}

func (DiagnosticsPayload) cardType() Type { return TypeDiagnostics }

// Failure implements Payload.
func (DiagnosticsPayload) Failure() string { return "" }

// SucceededCount returns how many services succeeded.
func (p DiagnosticsPayload) SucceededCount() int {
	n := 0
	for _, s := range p.Services {
		if s.Succeeded {
			n++
		}
	}
	return n
}

// Card is one unit of display metadata.
type Card struct {
	Type    Type    `json:"type"`
	Order   int     `json:"order"`
	Payload Payload `json:"payload"`
}

// Degraded reports whether the card carries an error payload.
func (c Card) Degraded() bool {
	return c.Payload != nil && c.Payload.Failure() != ""
}

// CardBatch is the complete ordered card set for one request.
type CardBatch struct {
	Cards []Card `json:"cards"`
}

// Degraded returns the types of cards carrying an error payload, in order.
func (b CardBatch) Degraded() []Type {
	var out []Type
	for _, c := range b.Cards {
		if c.Degraded() {
			out = append(out, c.Type)
		}
	}
	return out
}

// Card returns the card of type t.
func (b CardBatch) Card(t Type) (Card, bool) {
	for _, c := range b.Cards {
		if c.Type == t {
			return c, true
		}
	}
	return Card{}, false
}

// Validate checks the batch against the card schema: exactly one card per
// type, in display order, with matching payloads.
func Validate(b CardBatch) error {
	if len(b.Cards) != len(Order) {
		return fmt.Errorf("batch has %d cards, want %d", len(b.Cards), len(Order))
	}
	for i, want := range Order {
		c := b.Cards[i]
		if c.Type != want {
			return fmt.Errorf("card %d has type %q, want %q", i, c.Type, want)
		}
		if c.Order != i {
			return fmt.Errorf("card %d has order %d", i, c.Order)
		}
		if c.Payload == nil {
			return fmt.Errorf("card %d (%s) has no payload", i, c.Type)
		}
		if c.Payload.cardType() != want {
			return fmt.Errorf("card %d (%s) carries a %s payload", i, c.Type, c.Payload.cardType())
		}
	}
	return nil
}
