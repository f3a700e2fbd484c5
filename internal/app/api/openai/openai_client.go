package openai

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ClientConfig configures an OpenAI API client.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a client from cfg. An empty BaseURL uses the public API.
func NewClient(cfg ClientConfig) *openai.Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return openai.NewClientWithConfig(config)
}

// ClassifyError turns an API error into a short, displayable message while
// keeping the original error in the chain.
func ClassifyError(err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return fmt.Errorf("openai request failed with status %d: %w", reqErr.HTTPStatusCode, err)
		}
		return err
	}

	var reason string
	switch apiErr.HTTPStatusCode {
	case http.StatusUnauthorized:
		reason = "OpenAI API key is invalid or missing"
	case http.StatusTooManyRequests:
		reason = "OpenAI API rate limit exceeded"
	case http.StatusRequestEntityTooLarge:
		reason = "audio file is too large for the OpenAI API"
	case http.StatusBadRequest:
		reason = "OpenAI rejected the request"
	default:
		reason = "OpenAI API error"
	}
	return &APIFailure{StatusCode: apiErr.HTTPStatusCode, Reason: reason, Message: apiErr.Message, err: err}
}

// APIFailure is a classified OpenAI error response.
type APIFailure struct {
	StatusCode int
	Reason     string
	Message    string
	err        error
}

func (e *APIFailure) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Reason, e.StatusCode, e.Message)
}

func (e *APIFailure) Unwrap() error { return e.err }
