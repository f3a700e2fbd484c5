package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MaxTimeout bounds every configured timeout.
const MaxTimeout = 30 * time.Minute

func ValidateTimeout(timeout time.Duration, name string) error {
	switch {
	case timeout <= 0:
		return fmt.Errorf("%s timeout must be positive", name)
	case timeout > MaxTimeout:
		return fmt.Errorf("%s timeout too large (max %s)", name, MaxTimeout)
	}
	return nil
}

type keyFormat struct {
	prefix string
	minLen int
}

var keyFormats = map[string]keyFormat{
	"OpenAI": {prefix: "sk-", minLen: 20},
	"Gemini": {prefix: "AIza", minLen: 30},
}

// ValidateAPIKey checks the key against the known format of keyType.
// Unknown key types only need to be non-empty.
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	format, ok := keyFormats[keyType]
	if !ok {
		return nil
	}
	if !strings.HasPrefix(apiKey, format.prefix) {
		return fmt.Errorf("invalid %s API key format: must start with '%s'", keyType, format.prefix)
	}
	if len(apiKey) < format.minLen {
		return fmt.Errorf("invalid %s API key format: too short", keyType)
	}
	return nil
}

// ValidateURL requires an absolute http(s) URL with a host.
func ValidateURL(rawURL string, name string) error {
	if rawURL == "" {
		return fmt.Errorf("%s URL is required", name)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s URL is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}
	if u.Host == "" {
		return fmt.Errorf("%s URL has no host", name)
	}
	return nil
}

func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s port invalid", name)
	}
	return nil
}
