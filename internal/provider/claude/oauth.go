package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joshuadavidthomas/vibequota/internal/config"
	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/httpclient"
	"github.com/joshuadavidthomas/vibequota/internal/oauth"
)

const (
	oauthUsageURL    = "https://api.anthropic.com/api/oauth/usage"
	oauthTokenURL    = "https://api.anthropic.com/oauth/token"
	anthropicBetaTag = "oauth-2025-04-20"
)

// OAuthStrategy fetches Claude usage using OAuth credentials written by the
// Claude CLI or vibequota's own storage.
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
			TokenURL:    oauthTokenURL,
			Headers:     []httpclient.RequestOption{httpclient.WithHeader("anthropic-beta", anthropicBetaTag)},
			ProviderID:  "claude",
			HTTPTimeout: s.HTTPTimeout,
		})
		if refreshed == nil {
			return fetch.ResultFatal(fetch.Errorf(fetch.ErrAuthRequired, "OAuth token expired and could not be refreshed; re-authenticate with the Claude CLI"))
		}
		creds = refreshed
	}

	client := httpclient.NewFromConfig(s.HTTPTimeout)
	var usageResp OAuthUsageResponse
	resp, err := client.GetJSONCtx(ctx, oauthUsageURL, &usageResp,
		httpclient.WithBearer(creds.AccessToken),
		httpclient.WithHeader("anthropic-beta", anthropicBetaTag),
	)
	if err != nil {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrNetwork, "request failed: "+err.Error()))
	}

	switch {
	case resp.StatusCode == 401:
		return fetch.ResultFatal(fetch.Errorf(fetch.ErrInvalidCredentials, "OAuth token expired or invalid"))
	case resp.StatusCode == 403:
		return fetch.ResultFatal(fetch.Errorf(fetch.ErrInvalidCredentials, "not authorized to access usage"))
	case resp.StatusCode == 429:
		return fetch.ResultFail(fetch.RateLimitedError("usage endpoint rate limited", nil))
	case resp.StatusCode != 200:
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAPI, fmt.Sprintf("usage request failed: %d", resp.StatusCode)))
	case resp.JSONErr != nil:
		return fetch.ResultFail(fetch.Errorf(fetch.ErrParse, fmt.Sprintf("invalid response from usage endpoint: %v", resp.JSONErr)))
	}

	return fetch.ResultOK(*usageResp.Snapshot("oauth"), "Claude OAuth")
}

func (s *OAuthStrategy) credentialPaths() []string {
	return config.CredentialSearchPaths("claude", "oauth")
}

func (s *OAuthStrategy) loadCredentials() *OAuthCredentials {
	for _, path := range s.credentialPaths() {
		data, err := config.ReadCredential(path)
		if err != nil || data == nil {
			continue
		}

		// Claude CLI format first
		var cliCreds ClaudeCLICredentials
		if err := json.Unmarshal(data, &cliCreds); err == nil && cliCreds.ClaudeAiOauth != nil {
			creds := cliCreds.ClaudeAiOauth.ToOAuthCredentials()
			return &creds
		}

		// Standard vibequota format
		var creds OAuthCredentials
		if err := json.Unmarshal(data, &creds); err != nil {
			continue
		}
		if creds.AccessToken != "" {
			return &creds
		}
	}
	return nil
}
