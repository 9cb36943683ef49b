package codex

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joshuadavidthomas/vibequota/internal/config"
	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/httpclient"
	"github.com/joshuadavidthomas/vibequota/internal/oauth"
	"github.com/joshuadavidthomas/vibequota/internal/provider"
)

const (
	// OAuth client ID extracted from the Codex CLI installation. Required to
	// refresh tokens stored in ~/.codex/auth.json.
	codexClientID = "app_EMoamEEZ73f0CkXaXp7hrann"
	codexTokenURL = "https://auth.openai.com/oauth/token"
	usageURL      = "https://chatgpt.com/backend-api/wham/usage"
)

// Codex is OpenAI's ChatGPT/Codex backend.
type Codex struct {
	httpTimeout float64
}

func New(httpTimeout float64) Codex {
	return Codex{httpTimeout: httpTimeout}
}

func (c Codex) Meta() provider.Metadata {
	return provider.Metadata{
		ID:           "codex",
		Name:         "Codex",
		Description:  "OpenAI's ChatGPT and Codex",
		Homepage:     "https://chatgpt.com",
		DashboardURL: "https://chatgpt.com/codex/settings/usage",
	}
}

func (c Codex) CredentialSources() provider.CredentialInfo {
	return provider.CredentialInfo{
		CLIPaths: []string{"~/.codex/auth.json"},
		EnvVars:  []string{"OPENAI_API_KEY"},
	}
}

func (c Codex) Strategies(fc fetch.Context) []fetch.Strategy {
	return []fetch.Strategy{&OAuthStrategy{HTTPTimeout: c.httpTimeout}}
}

// OAuthStrategy fetches Codex usage with OAuth tokens written by the Codex
// CLI.
type OAuthStrategy struct {
	HTTPTimeout float64
}

func (s *OAuthStrategy) Kind() fetch.Kind { return fetch.KindOAuth }
func (s *OAuthStrategy) Name() string     { return "oauth" }

func (s *OAuthStrategy) IsAvailable(fetch.Context) bool {
	for _, p := range s.credentialPaths() {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

func (s *OAuthStrategy) Fetch(ctx context.Context, fc fetch.Context) fetch.FetchResult {
	creds := s.loadCredentials()
	if creds == nil {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAuthRequired, "no OAuth credentials found"))
	}
	if creds.AccessToken == "" {
		return fetch.ResultFatal(fetch.Errorf(fetch.ErrInvalidCredentials, "invalid OAuth credentials: missing access_token"))
	}

	if creds.NeedsRefresh() {
		refreshed := oauth.Refresh(ctx, creds.RefreshToken, oauth.RefreshConfig{
			TokenURL:    codexTokenURL,
			FormFields:  map[string]string{"client_id": codexClientID},
			ProviderID:  "codex",
			HTTPTimeout: s.HTTPTimeout,
		})
		if refreshed != nil {
			creds = refreshed
		}
	}

	client := httpclient.NewFromConfig(s.HTTPTimeout)
	var usageResp UsageResponse
	resp, err := client.GetJSONCtx(ctx, usageURL, &usageResp,
		httpclient.WithBearer(creds.AccessToken),
	)
	if err != nil {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrNetwork, "request failed: "+err.Error()))
	}

	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return fetch.ResultFatal(fetch.Errorf(fetch.ErrInvalidCredentials, "OAuth token expired or invalid; run `codex login`"))
	case resp.StatusCode == 429:
		return fetch.ResultFail(fetch.RateLimitedError("usage endpoint rate limited", nil))
	case resp.StatusCode != 200:
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAPI, fmt.Sprintf("usage request failed: %d (%s)", resp.StatusCode, httpclient.SummarizeBody(resp.Body))))
	case resp.JSONErr != nil:
		return fetch.ResultFail(fetch.Errorf(fetch.ErrParse, fmt.Sprintf("invalid usage response: %v", resp.JSONErr)))
	}

	return fetch.ResultOK(*usageResp.Snapshot(), "Codex OAuth")
}

func (s *OAuthStrategy) credentialPaths() []string {
	return config.CredentialSearchPaths("codex", "oauth")
}

func (s *OAuthStrategy) loadCredentials() *oauth.Credentials {
	for _, path := range s.credentialPaths() {
		data, err := config.ReadCredential(path)
		if err != nil || data == nil {
			continue
		}

		// Codex CLI format first
		var authFile CodexAuthFile
		if err := json.Unmarshal(data, &authFile); err == nil && authFile.Tokens != nil && authFile.Tokens.AccessToken != "" {
			return &oauth.Credentials{
				AccessToken:  authFile.Tokens.AccessToken,
				RefreshToken: authFile.Tokens.RefreshToken,
			}
		}

		// Standard vibequota format
		var creds oauth.Credentials
		if err := json.Unmarshal(data, &creds); err == nil && creds.AccessToken != "" {
			return &creds
		}
	}
	return nil
}
