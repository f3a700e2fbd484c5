package openai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		contains string
	}{
		{"unauthorized", &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}, "invalid or missing (status 401): bad key"},
		{"rate limited", &openai.APIError{HTTPStatusCode: 429}, "rate limit exceeded (status 429)"},
		{"too large", &openai.APIError{HTTPStatusCode: 413}, "too large"},
		{"server", &openai.APIError{HTTPStatusCode: 500, Message: "oops"}, "OpenAI API error (status 500): oops"},
		{"request error", &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")}, "status 502"},
		{"other", errors.New("dial tcp: refused"), "dial tcp: refused"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ClassifyError(fmt.Errorf("wrapped: %w", tc.err))
			assert.Contains(t, err.Error(), tc.contains)
			assert.True(t, errors.Is(err, tc.err))
		})
	}
}
