package box

import (
	"fmt"
	"strings"

	"box-skill-whisper/internal/app/cards"
)

// DefaultSkillID identifies the skill when the invocation carries none.
const DefaultSkillID = "box-skill-whisper"

// Box status card codes.
const (
	StatusSuccess          = "success"
	StatusPermanentFailure = "permanent_failure"
)

// SkillCard is one entry of the boxSkillsCards metadata instance.
type SkillCard struct {
	Type          string      `json:"type"`
	SkillCardType string      `json:"skill_card_type"`
	Title         CardTitle   `json:"skill_card_title"`
	Skill         Reference   `json:"skill"`
	Invocation    Reference   `json:"invocation"`
	Status        *CardStatus `json:"status,omitempty"`
	Entries       []CardEntry `json:"entries,omitempty"`
	Duration      *float64    `json:"duration,omitempty"`
}

// CardTitle is the title of a skill card.
type CardTitle struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Reference is a typed id, used for the skill and the invocation.
type Reference struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// CardStatus is the body of a status card.
type CardStatus struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CardEntry is a keyword or a transcript line.
type CardEntry struct {
	Text    string       `json:"text"`
	Appears []Appearance `json:"appears,omitempty"`
}

// Appearance locates a transcript line in the media, in seconds.
type Appearance struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Metadata is the boxSkillsCards metadata instance body.
type Metadata struct {
	Cards []SkillCard `json:"cards"`
}

// Invocation describes the skill run the cards belong to.
type Invocation struct {
	SkillID string
	ID      string
	// Models maps a service name to the model that served it, for diagnostics.
	Models map[string]string
}

var titles = map[cards.Type]CardTitle{
	cards.TypeSummary:     {Code: "summary", Message: "Summary"},
	cards.TypeKeywords:    {Code: "keywords", Message: "Keywords"},
	cards.TypeTranscript:  {Code: "transcript", Message: "Transcript"},
	cards.TypeDiagnostics: {Code: "processing_info", Message: "🤖 AI Processing Details"},
}

var skillCardTypes = map[cards.Type]string{
	cards.TypeSummary:     "status",
	cards.TypeKeywords:    "keyword",
	cards.TypeTranscript:  "transcript",
	cards.TypeDiagnostics: "status",
}

// ToMetadata converts a card batch into Box skill cards, keeping the batch
// order. A degraded card keeps its skill_card_type, carries a
// permanent_failure status and, for entry cards, the error as its only entry
// so Box still renders it.
func ToMetadata(batch cards.CardBatch, inv Invocation) Metadata {
	skillID := inv.SkillID
	if skillID == "" {
		skillID = DefaultSkillID
	}

	out := Metadata{Cards: make([]SkillCard, 0, len(batch.Cards))}
	for _, c := range batch.Cards {
		sc := SkillCard{
			Type:          "skill_card",
			SkillCardType: skillCardTypes[c.Type],
			Title:         titles[c.Type],
			Skill:         Reference{Type: "service", ID: skillID},
			Invocation:    Reference{Type: "skill_invocation", ID: inv.ID},
		}
		if c.Degraded() {
			msg := c.Payload.Failure()
			sc.Status = &CardStatus{Code: StatusPermanentFailure, Message: msg}
			if sc.SkillCardType != "status" {
				sc.Entries = []CardEntry{{Text: msg}}
			}
			out.Cards = append(out.Cards, sc)
			continue
		}

		switch p := c.Payload.(type) {
		case cards.SummaryPayload:
			sc.Status = &CardStatus{Code: StatusSuccess, Message: p.Text}
		case cards.KeywordsPayload:
			for _, term := range p.Terms {
				sc.Entries = append(sc.Entries, CardEntry{Text: term})
			}
		case cards.TranscriptPayload:
			var duration float64
			for _, seg := range p.Segments {
				sc.Entries = append(sc.Entries, CardEntry{
					Text:    strings.TrimSpace(seg.Text),
					Appears: []Appearance{{Start: seg.Start, End: seg.End}},
				})
				duration = max(duration, seg.End)
			}
			sc.Duration = &duration
		case cards.DiagnosticsPayload:
			sc.Status = &CardStatus{Code: StatusSuccess, Message: DiagnosticsMessage(p, inv.Models)}
		}
		out.Cards = append(out.Cards, sc)
	}
	return out
}

var serviceHeadings = map[string]string{
	"transcription": "🎤 TRANSCRIPTION",
	"summary":       "📝 SUMMARY GENERATION",
	"keywords":      "🏷️ KEYWORD EXTRACTION",
}

// DiagnosticsMessage renders the diagnostics payload as the text of a
// status card.
func DiagnosticsMessage(p cards.DiagnosticsPayload, models map[string]string) string {
	var lines []string
	for _, s := range p.Services {
		heading := serviceHeadings[s.Name]
		if heading == "" {
			heading = strings.ToUpper(s.Name)
		}
		lines = append(lines, heading)
		if m := models[s.Name]; m != "" {
			lines = append(lines, "  Model: "+m)
		}
		switch {
		case s.Skipped:
			lines = append(lines, "  Status: skipped")
		case s.Succeeded:
			lines = append(lines, "  Status: completed")
		default:
			lines = append(lines, "  Status: failed ("+s.Error+")")
		}
		lines = append(lines, fmt.Sprintf("  Processing time: %.2fs", s.ElapsedSeconds), "")
	}

	lines = append(lines, "📊 PERFORMANCE SUMMARY")
	lines = append(lines, fmt.Sprintf("  File size: %.2fMB", float64(p.FileSizeBytes)/1024/1024))
	if p.MediaDurationSeconds > 0 {
		seconds := int(p.MediaDurationSeconds)
		lines = append(lines, fmt.Sprintf("  Audio duration: %d:%02d", seconds/60, seconds%60))
	}
	lines = append(lines, fmt.Sprintf("  Total AI processing: %.2fs", p.TotalElapsedSeconds))
	if p.SpeedMultiple != nil {
		lines = append(lines, fmt.Sprintf("  Efficiency: %.1fx faster than real-time ⚡", *p.SpeedMultiple))
	}
	lines = append(lines, "", fmt.Sprintf("%d of %d services completed", p.SucceededCount(), len(p.Services)))
	return strings.Join(lines, "\n")
}
