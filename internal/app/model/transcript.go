package model

import (
	"math"
	"strings"
)

// TranscriptSegment is one timestamped piece of a transcript, in seconds.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Valid reports whether the segment timestamps are finite, non-negative and ordered.
func (s TranscriptSegment) Valid() bool {
	if math.IsNaN(s.Start) || math.IsNaN(s.End) || math.IsInf(s.Start, 0) || math.IsInf(s.End, 0) {
		return false
	}
	return s.Start >= 0 && s.End >= s.Start
}

// Transcript is the ordered output of the speech-to-text service.
type Transcript struct {
	Text     string
	Language string
	Duration float64
	Segments []TranscriptSegment
}

// FullText returns the service-provided text, or the segment texts joined in order.
func (t Transcript) FullText() string {
	if strings.TrimSpace(t.Text) != "" {
		return t.Text
	}
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// CheckOrder returns the index of the first segment breaking the transcript
// invariant (invalid timestamps or a start before the previous start), or -1.
func (t Transcript) CheckOrder() int {
	prevStart := 0.0
	for i, seg := range t.Segments {
		if !seg.Valid() {
			return i
		}
		if i > 0 && seg.Start < prevStart {
			return i
		}
		prevStart = seg.Start
	}
	return -1
}

// SummaryResult is the short prose summary produced by the language model.
type SummaryResult struct {
	Text string
}

// KeywordResult is the ordered keyword list produced by the language model.
type KeywordResult struct {
	Terms []string
}
