package antigravity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/config"
	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/httpclient"
	"github.com/joshuadavidthomas/vibequota/internal/models"
	"github.com/joshuadavidthomas/vibequota/internal/oauth"
)

// OAuthStrategy fetches Antigravity quota from the cloud endpoint using
// Google OAuth credentials, as a fallback when the IDE is not running. The
// strategy holds no per-fetch state and is safe to share across calls.
type OAuthStrategy struct {
	HTTPTimeout float64
}

func (s *OAuthStrategy) Kind() fetch.Kind { return fetch.KindOAuth }
func (s *OAuthStrategy) Name() string     { return "oauth" }

func (s *OAuthStrategy) IsAvailable(fetch.Context) bool {
	for _, p := range config.CredentialSearchPaths("antigravity", "oauth") {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	_, err := os.Stat(vscdbPath())
	return err == nil
}

func (s *OAuthStrategy) Fetch(ctx context.Context, fc fetch.Context) fetch.FetchResult {
	creds, vscdb := loadCredentials()
	if creds == nil {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAuthRequired, "no OAuth credentials found"))
	}
	if creds.AccessToken == "" {
		return fetch.ResultFatal(fetch.Errorf(fetch.ErrInvalidCredentials, "invalid credentials: missing access_token"))
	}

	if creds.NeedsRefresh() {
		refreshed := oauth.Refresh(ctx, creds.RefreshToken, oauth.RefreshConfig{
			TokenURL: googleTokenURL,
			FormFields: map[string]string{
				"client_id":     antigravityClientID,
				"client_secret": antigravityClientSecret,
			},
			ProviderID:  "antigravity",
			HTTPTimeout: s.HTTPTimeout,
		})
		if refreshed == nil {
			return fetch.ResultFail(fetch.Errorf(fetch.ErrAuthRequired, "token refresh failed; sign in again in the Antigravity IDE"))
		}
		creds = refreshed
	}

	client := httpclient.NewFromConfig(s.HTTPTimeout)
	var modelsResp FetchModelsResponse
	resp, err := client.PostJSONCtx(ctx, fetchModelsURL, json.RawMessage("{}"), &modelsResp,
		httpclient.WithBearer(creds.AccessToken),
		httpclient.WithHeader("User-Agent", antigravityUserAgent),
	)
	if err != nil {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrNetwork, "request failed: "+err.Error()))
	}

	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return fetch.ResultFatal(fetch.Errorf(fetch.ErrInvalidCredentials, "token expired or invalid; sign in again in the Antigravity IDE"))
	case resp.StatusCode == 429:
		return fetch.ResultFail(fetch.RateLimitedError("quota endpoint rate limited", nil))
	case resp.StatusCode != 200:
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAPI, fmt.Sprintf("quota request failed: %d (%s)", resp.StatusCode, httpclient.SummarizeBody(resp.Body))))
	case resp.JSONErr != nil:
		return fetch.ResultFail(fetch.Errorf(fetch.ErrParse, fmt.Sprintf("invalid quota response: %v", resp.JSONErr)))
	}

	return fetch.ResultOK(buildOAuthSnapshot(modelsResp, vscdb), "Antigravity OAuth")
}

func buildOAuthSnapshot(modelsResp FetchModelsResponse, vscdb *vscdbState) models.UsageSnapshot {
	snap := models.UsageSnapshot{
		Provider:  "antigravity",
		FetchedAt: time.Now().UTC(),
		Windows:   selectWindows(modelsResp.ModelQuotas()),
	}
	if vscdb != nil {
		identity := models.Identity{Email: vscdb.email, AuthMethod: "oauth"}
		if vscdb.tier != nil {
			identity.Plan = vscdb.tier.Name
		}
		if identity.Email != "" || identity.Plan != "" {
			snap.Identity = &identity
		}
	}
	return snap
}

// loadCredentials resolves OAuth credentials, also returning the vscdb state
// when that was the source so the caller can build identity from it.
func loadCredentials() (*oauth.Credentials, *vscdbState) {
	for _, path := range config.CredentialSearchPaths("antigravity", "oauth") {
		data, err := config.ReadCredential(path)
		if err != nil || data == nil {
			continue
		}

		var ideCreds IDECredentials
		if err := json.Unmarshal(data, &ideCreds); err == nil {
			if creds := ideCreds.ToCredentials(); creds != nil {
				return creds, nil
			}
		}

		var creds oauth.Credentials
		if err := json.Unmarshal(data, &creds); err == nil && creds.AccessToken != "" {
			return &creds, nil
		}
	}

	if state := loadFromVSCDB(); state != nil {
		return state.creds, state
	}
	return nil, nil
}

// vscdbState holds credentials and subscription info read from the vscdb.
type vscdbState struct {
	creds *oauth.Credentials
	email string
	tier  *SubscriptionTier
}

func vscdbPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "Antigravity", "User", "globalStorage", "state.vscdb")
}

// loadFromVSCDB reads auth status from Antigravity's VS Code state database.
// The value is a JSON blob under the "antigravityAuthStatus" key; reading it
// with the sqlite3 CLI avoids a SQLite library dependency for one key.
func loadFromVSCDB() *vscdbState {
	dbPath := vscdbPath()
	if _, err := os.Stat(dbPath); err != nil {
		return nil
	}

	out, err := exec.Command(
		"sqlite3", dbPath,
		"SELECT value FROM ItemTable WHERE key = 'antigravityAuthStatus';",
	).Output()
	if err != nil || len(out) == 0 {
		return nil
	}

	var authStatus VscdbAuthStatus
	if err := json.Unmarshal(out, &authStatus); err != nil || authStatus.APIKey == "" {
		return nil
	}

	return &vscdbState{
		// No refresh token in the vscdb; the IDE refreshes internally.
		creds: &oauth.Credentials{AccessToken: authStatus.APIKey},
		email: authStatus.Email,
		tier:  parseSubscriptionTier(authStatus.UserStatusProtoBinaryBase64),
	}
}
