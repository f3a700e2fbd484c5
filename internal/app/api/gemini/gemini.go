// Package gemini implements transcript analysis with Google Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"box-skill-whisper/internal/app/analysis"
	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/model"
)

// DefaultModel is used when no Gemini model is configured.
const DefaultModel = "gemini-2.0-flash"

var errEmptyResponse = errors.New("empty response from Gemini")

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Analyzer summarizes transcripts and extracts keywords with Gemini. Several
// API keys may be configured; a rate-limited key rotates to the next one.
type Analyzer struct {
	generators  []generateFunc
	model       string
	maxKeywords int
	logger      *zap.Logger

	mu      sync.Mutex
	current int
}

// NewAnalyzer creates one Gemini client per API key.
func NewAnalyzer(ctx context.Context, apiKeys []string, modelName string, maxKeywords int, logger *zap.Logger) (*Analyzer, error) {
	if len(apiKeys) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrMissingAPIKey, "GEMINI_API_KEY")
	}
	generators := make([]generateFunc, 0, len(apiKeys))
	for i, key := range apiKeys {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client %d: %w", i+1, err)
		}
		generators = append(generators, client.Models.GenerateContent)
	}
	return newAnalyzer(generators, modelName, maxKeywords, logger), nil
}

func newAnalyzer(generators []generateFunc, modelName string, maxKeywords int, logger *zap.Logger) *Analyzer {
	if modelName == "" {
		modelName = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{generators: generators, model: modelName, maxKeywords: maxKeywords, logger: logger}
}

// Model returns the Gemini model name.
func (a *Analyzer) Model() string { return a.model }

// Summarize implements analysis.Summarizer.
func (a *Analyzer) Summarize(ctx context.Context, transcript string) (model.SummaryResult, error) {
	reply, err := a.generate(ctx, analysis.SummaryPrompt(transcript))
	if err != nil {
		return model.SummaryResult{}, apperrors.Summarization(err)
	}
	return model.SummaryResult{Text: strings.TrimSpace(reply)}, nil
}

// ExtractKeywords implements analysis.KeywordExtractor.
func (a *Analyzer) ExtractKeywords(ctx context.Context, transcript string) (model.KeywordResult, error) {
	reply, err := a.generate(ctx, analysis.KeywordPrompt(transcript))
	if err != nil {
		return model.KeywordResult{}, apperrors.Extraction(err)
	}
	return model.KeywordResult{Terms: analysis.ParseKeywords(reply, a.maxKeywords)}, nil
}

func (a *Analyzer) generate(ctx context.Context, prompt analysis.Prompt) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr[float32](analysis.Temperature),
	}

	var lastErr error
	for range a.generators {
		idx := a.key()
		result, err := a.generators[idx](ctx, a.model, genai.Text(prompt.User), config)
		if err != nil {
			if isRateLimited(err) {
				a.logger.Warn("gemini key rate limited, rotating", zap.Int("key", idx+1))
				a.rotate(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}
		return responseText(result)
	}
	return "", fmt.Errorf("all gemini keys rate limited: %w", lastErr)
}

func (a *Analyzer) key() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// rotate advances past idx unless another caller already did.
func (a *Analyzer) rotate(idx int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == idx {
		a.current = (a.current + 1) % len(a.generators)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func responseText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errEmptyResponse
	}
	return sb.String(), nil
}
