package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateAPIKey(t *testing.T) {
	testCases := []struct {
		name          string
		key           string
		keyType       string
		errorContains string
	}{
		{name: "valid OpenAI key", key: testOpenAIKey, keyType: "OpenAI"},
		{name: "valid Gemini key", key: testGeminiKey, keyType: "Gemini"},
		{name: "empty key", key: "", keyType: "OpenAI", errorContains: "OpenAI API key is required"},
		{name: "invalid OpenAI key format", key: "invalid-key", keyType: "OpenAI", errorContains: "must start with 'sk-'"},
		{name: "OpenAI key too short", key: "sk-short", keyType: "OpenAI", errorContains: "too short"},
		{name: "invalid Gemini key format", key: "invalid-key", keyType: "Gemini", errorContains: "must start with 'AIza'"},
		{name: "Gemini key too short", key: "AIza-short", keyType: "Gemini", errorContains: "too short"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAPIKey(tc.key, tc.keyType)
			if tc.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.errorContains)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	assert.NoError(t, ValidateTimeout(30*time.Second, "fetch"))
	assert.EqualError(t, ValidateTimeout(0, "fetch"), "fetch timeout must be positive")
	assert.Error(t, ValidateTimeout(time.Hour, "fetch"))
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://api.box.com/2.0", "Box"))
	assert.Error(t, ValidateURL("", "Box"))
	assert.Error(t, ValidateURL("api.box.com", "Box"))
	assert.Error(t, ValidateURL("https://", "Box"))
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, ValidatePort("8080", "HTTP"))
	assert.Error(t, ValidatePort("", "HTTP"))
	assert.Error(t, ValidatePort("http", "HTTP"))
	assert.Error(t, ValidatePort("0", "HTTP"))
}
