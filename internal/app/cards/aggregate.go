package cards

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/model"
)

// Input is everything the aggregator needs for one request.
type Input struct {
	Request    model.ProcessingRequest
	Transcript model.Outcome[model.Transcript]
	Summary    model.Outcome[model.SummaryResult]
	Keywords   model.Outcome[model.KeywordResult]
}

// Timings returns the service timings in diagnostics order.
func (in Input) Timings() []model.ServiceTiming {
	return []model.ServiceTiming{
		model.TimingOf(model.ServiceTranscription, in.Transcript),
		model.TimingOf(model.ServiceSummary, in.Summary),
		model.TimingOf(model.ServiceKeywords, in.Keywords),
	}
}

// Aggregate builds the card batch. It never fails: a failed or malformed
// upstream value becomes a degraded card in the same position.
func Aggregate(in Input) CardBatch {
	payloads := []Payload{
		summaryPayload(in.Summary),
		keywordsPayload(in.Keywords),
		transcriptPayload(in.Transcript),
		diagnosticsPayload(in),
	}

	batch := CardBatch{Cards: make([]Card, len(Order))}
	for i, t := range Order {
		batch.Cards[i] = Card{Type: t, Order: i, Payload: payloads[i]}
	}
	return batch
}

func summaryPayload(o model.Outcome[model.SummaryResult]) SummaryPayload {
	if !o.Succeeded() {
		return SummaryPayload{Degradation: degraded(failureMessage("Summary", o.Err))}
	}
	text := strings.TrimSpace(o.Value.Text)
	if text == "" {
		return SummaryPayload{Degradation: degraded("Summary unavailable: the language model returned no text")}
	}
	return SummaryPayload{Text: text}
}

func keywordsPayload(o model.Outcome[model.KeywordResult]) KeywordsPayload {
	if !o.Succeeded() {
		return KeywordsPayload{Degradation: degraded(failureMessage("Keyword extraction", o.Err))}
	}
	terms := DedupKeywords(o.Value.Terms)
	if len(terms) == 0 {
		return KeywordsPayload{Degradation: degraded("Keywords unavailable: the language model returned no keywords")}
	}
	return KeywordsPayload{Terms: terms}
}

// DedupKeywords trims terms, drops empty ones and removes case-insensitive
// duplicates, keeping the first occurrence's casing and the input order.
func DedupKeywords(terms []string) []string {
	trimmed := lo.FilterMap(terms, func(term string, _ int) (string, bool) {
		term = strings.TrimSpace(term)
		return term, term != ""
	})
	return lo.UniqBy(trimmed, strings.ToLower)
}

func transcriptPayload(o model.Outcome[model.Transcript]) TranscriptPayload {
	if !o.Succeeded() {
		return TranscriptPayload{Degradation: degraded(failureMessage("Transcription", o.Err))}
	}
	if len(o.Value.Segments) == 0 {
		return TranscriptPayload{Degradation: degraded("Transcript unavailable: no speech segments were returned")}
	}
	if i := o.Value.CheckOrder(); i >= 0 {
		return TranscriptPayload{Degradation: degraded(fmt.Sprintf("Transcript unavailable: segment %d has invalid timestamps", i+1))}
	}

	segments := make([]Segment, len(o.Value.Segments))
	for i, seg := range o.Value.Segments {
		segments[i] = Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	return TranscriptPayload{Segments: segments}
}

func diagnosticsPayload(in Input) DiagnosticsPayload {
	errs := []error{in.Transcript.Err, in.Summary.Err, in.Keywords.Err}

	var total float64
	services := make([]ServiceReport, 0, 3)
	for i, timing := range in.Timings() {
		elapsed := timing.Elapsed.Seconds()
		total += elapsed
		report := ServiceReport{
			Name:           timing.Name,
			ElapsedSeconds: elapsed,
			Succeeded:      timing.Succeeded,
			Skipped:        timing.Skipped,
		}
		if !timing.Succeeded {
			report.Error = apperrors.Cause(errs[i])
		}
		services = append(services, report)
	}

	duration := in.Request.DurationSeconds
	if duration < 0 {
		duration = 0
	}

	return DiagnosticsPayload{
		Services:             services,
		TotalElapsedSeconds:  total,
		FileSizeBytes:        in.Request.SizeBytes,
		MediaDurationSeconds: duration,
		SpeedMultiple:        SpeedMultiple(duration, total),
	}
}

// SpeedMultiple returns media duration divided by processing time, or nil
// when either is unknown or zero.
func SpeedMultiple(mediaSeconds, elapsedSeconds float64) *float64 {
	if mediaSeconds <= 0 || elapsedSeconds <= 0 {
		return nil
	}
	multiple := mediaSeconds / elapsedSeconds
	return &multiple
}

func failureMessage(label string, err error) string {
	if errors.Is(err, model.ErrSkipped) {
		return label + " skipped: transcript unavailable"
	}
	reason := apperrors.Cause(err)
	if reason == "" {
		reason = "unknown error"
	}
	return label + " failed: " + reason
}
