// Package analysis defines the language-model contracts used after
// transcription and the prompts shared by every provider.
package analysis

import (
	"context"
	"regexp"
	"strings"

	"box-skill-whisper/internal/app/model"
)

// Summarizer produces a short summary of a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (model.SummaryResult, error)
}

// KeywordExtractor produces the most relevant terms of a transcript.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, transcript string) (model.KeywordResult, error)
}

// Analyzer is a provider able to do both.
type Analyzer interface {
	Summarizer
	KeywordExtractor
}

const (
	// Temperature keeps model output focused.
	Temperature = 0.3
	// MaxKeywords caps the parsed keyword list.
	MaxKeywords = 10
)

// Prompt is a provider-neutral system/user message pair.
type Prompt struct {
	System string
	User   string
}

const summarySystem = "You are a professional summarization expert. " +
	"Create clear, concise summaries that capture the essential information in 2-4 sentences."

const keywordSystem = "You are a keyword extraction specialist. " +
	"Extract only the most relevant and specific keywords or phrases. " +
	"Return them as a comma-separated list without explanations or additional text."

// SummaryPrompt returns the summary request for transcript.
func SummaryPrompt(transcript string) Prompt {
	return Prompt{
		System: summarySystem,
		User: "Please provide a concise 2-4 sentence summary of this transcript.\n" +
			"Focus on the main points and key information. Keep it clear and professional.\n\n" +
			"Transcript:\n" + transcript,
	}
}

// KeywordPrompt returns the keyword request for transcript.
func KeywordPrompt(transcript string) Prompt {
	return Prompt{
		System: keywordSystem,
		User: "Please analyze this transcript and extract 5-10 most relevant keywords or phrases.\n" +
			"Focus on specific, meaningful terms and proper nouns. Return only the keywords as a comma-separated list.\n\n" +
			"Transcript:\n" + transcript,
	}
}

// leading list markers: "1. ", "2) ", "-", "*", "•". A numeric marker needs
// trailing space so "1.5 billion" stays intact.
var listMarker = regexp.MustCompile(`^(?:\d+[.)]\s+|[-*•]\s*)`)

const quotes = "\"'`“” "

// ParseKeywords splits a model reply on commas, semicolons and newlines,
// strips list markers and quotes, drops empty and case-insensitively
// repeated terms and keeps at most max distinct terms (MaxKeywords when
// max <= 0). A period is only removed where it ends a line.
func ParseKeywords(reply string, max int) []string {
	if max <= 0 {
		max = MaxKeywords
	}

	terms := make([]string, 0, max)
	seen := make(map[string]bool)
	for _, line := range strings.Split(reply, "\n") {
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';'
		})
		for i, f := range fields {
			term := listMarker.ReplaceAllString(strings.TrimSpace(f), "")
			term = strings.Trim(term, quotes)
			if i == len(fields)-1 {
				term = strings.Trim(strings.TrimSuffix(term, "."), quotes)
			}
			key := strings.ToLower(term)
			if term == "" || seen[key] {
				continue
			}
			seen[key] = true
			terms = append(terms, term)
			if len(terms) == max {
				return terms
			}
		}
	}
	return terms
}
