package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"box-skill-whisper/internal/app/analysis"
	openaiapi "box-skill-whisper/internal/app/api/openai"
	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/model"
)

// DefaultModel is used when no chat model is configured.
const DefaultModel = "gpt-4-turbo-preview"

var errEmptyReply = errors.New("model returned no choices")

// Analyzer summarizes transcripts and extracts keywords with chat completions.
type Analyzer struct {
	client      *openai.Client
	model       string
	maxKeywords int
}

// NewAnalyzer creates an Analyzer. An empty model name selects DefaultModel.
func NewAnalyzer(client *openai.Client, modelName string, maxKeywords int) *Analyzer {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Analyzer{client: client, model: modelName, maxKeywords: maxKeywords}
}

// Model returns the chat model name.
func (a *Analyzer) Model() string { return a.model }

// Summarize implements analysis.Summarizer.
func (a *Analyzer) Summarize(ctx context.Context, transcript string) (model.SummaryResult, error) {
	reply, err := a.complete(ctx, analysis.SummaryPrompt(transcript))
	if err != nil {
		return model.SummaryResult{}, apperrors.Summarization(err)
	}
	return model.SummaryResult{Text: strings.TrimSpace(reply)}, nil
}

// ExtractKeywords implements analysis.KeywordExtractor.
func (a *Analyzer) ExtractKeywords(ctx context.Context, transcript string) (model.KeywordResult, error) {
	reply, err := a.complete(ctx, analysis.KeywordPrompt(transcript))
	if err != nil {
		return model.KeywordResult{}, apperrors.Extraction(err)
	}
	return model.KeywordResult{Terms: analysis.ParseKeywords(reply, a.maxKeywords)}, nil
}

func (a *Analyzer) complete(ctx context.Context, prompt analysis.Prompt) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: analysis.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
	}
	resp, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", openaiapi.ClassifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
