package claude

import (
	"context"
	"strings"

	"github.com/joshuadavidthomas/vibequota/internal/fetch"
)

// APIKeyStrategy recognizes Anthropic API keys supplied via the fetch
// context's environment or settings. Claude consumer quota metrics still
// come from OAuth/session data, so this strategy only validates the key and
// defers to the rest of the chain.
type APIKeyStrategy struct{}

func (s *APIKeyStrategy) Kind() fetch.Kind { return fetch.KindAPIKey }
func (s *APIKeyStrategy) Name() string     { return "apikey" }

func (s *APIKeyStrategy) IsAvailable(fc fetch.Context) bool {
	return s.loadAPIKey(fc) != ""
}

func (s *APIKeyStrategy) Fetch(_ context.Context, fc fetch.Context) fetch.FetchResult {
	key := s.loadAPIKey(fc)
	if key == "" {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAuthRequired, "no API key found"))
	}

	if !strings.HasPrefix(key, "sk-ant-") {
		return fetch.ResultFatal(fetch.Errorf(fetch.ErrInvalidCredentials, "invalid Anthropic API key format"))
	}

	return fetch.ResultFail(fetch.Errorf(fetch.ErrAuthRequired, "Anthropic API keys are configured, but claude.ai plan usage requires Claude OAuth/session credentials"))
}

func (s *APIKeyStrategy) loadAPIKey(fc fetch.Context) string {
	if v := strings.TrimSpace(fc.Getenv("ANTHROPIC_API_KEY")); v != "" {
		return v
	}
	if fc.Settings != nil {
		return strings.TrimSpace(fc.Settings.APIToken)
	}
	return ""
}
