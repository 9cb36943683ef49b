package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joshuadavidthomas/vibequota/internal/config"
	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/httpclient"
)

const webBaseURL = "https://claude.ai/api/organizations"

// WebStrategy fetches Claude usage using a claude.ai session cookie. The
// cookie itself comes from the settings/cookie layer; this strategy only
// consumes its stored value.
type WebStrategy struct {
	HTTPTimeout float64
}

func (s *WebStrategy) Kind() fetch.Kind { return fetch.KindWeb }
func (s *WebStrategy) Name() string     { return "web" }

func (s *WebStrategy) IsAvailable(fc fetch.Context) bool {
	return s.loadSessionKey(fc) != ""
}

func (s *WebStrategy) Fetch(ctx context.Context, fc fetch.Context) fetch.FetchResult {
	sessionKey := s.loadSessionKey(fc)
	if sessionKey == "" {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAuthRequired, "no session key found"))
	}

	orgID := s.getOrgID(ctx, sessionKey)
	if orgID == "" {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAuthRequired, "failed to get organization ID"))
	}

	client := httpclient.NewFromConfig(s.HTTPTimeout)
	sessionCookie := httpclient.WithCookie("sessionKey", sessionKey)

	usageURL := webBaseURL + "/" + orgID + "/usage"
	var usageResp OAuthUsageResponse
	resp, err := client.GetJSONCtx(ctx, usageURL, &usageResp, sessionCookie)
	if err != nil {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrNetwork, "request failed: "+err.Error()))
	}

	switch {
	case resp.StatusCode == 401:
		return fetch.ResultFatal(fetch.Errorf(fetch.ErrInvalidCredentials, "session key expired or invalid"))
	case resp.StatusCode != 200:
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAPI, fmt.Sprintf("usage request failed: %d", resp.StatusCode)))
	case resp.JSONErr != nil:
		return fetch.ResultFail(fetch.Errorf(fetch.ErrParse, fmt.Sprintf("invalid usage response: %v", resp.JSONErr)))
	}

	return fetch.ResultOK(*usageResp.Snapshot("web"), "claude.ai session")
}

func (s *WebStrategy) loadSessionKey(fc fetch.Context) string {
	// Settings-provided cookie wins over the stored credential file.
	if v := strings.TrimSpace(fc.CustomSetting("claude_session_key")); strings.HasPrefix(v, "sk-ant-sid01-") {
		return v
	}

	data, err := config.ReadCredential(config.CredentialPath("claude", "session"))
	if err != nil || data == nil {
		return ""
	}

	value := ""
	var creds WebSessionCredentials
	if err := json.Unmarshal(data, &creds); err == nil {
		value = strings.TrimSpace(creds.SessionKey)
	} else {
		value = strings.TrimSpace(string(data))
	}

	if strings.HasPrefix(value, "sk-ant-sid01-") {
		return value
	}
	return ""
}

func (s *WebStrategy) getOrgID(ctx context.Context, sessionKey string) string {
	if cached := config.LoadCachedOrgID("claude"); cached != "" {
		return cached
	}

	client := httpclient.NewFromConfig(s.HTTPTimeout)
	var orgs []WebOrganization
	resp, err := client.GetJSONCtx(ctx, webBaseURL, &orgs,
		httpclient.WithCookie("sessionKey", sessionKey),
	)
	if err != nil || resp.StatusCode != 200 || resp.JSONErr != nil {
		return ""
	}

	orgID := findChatOrgID(orgs)
	if orgID != "" {
		_ = config.CacheOrgID("claude", orgID)
	}
	return orgID
}

// findChatOrgID finds the first organization with "chat" capability, falling
// back to the first organization if none have it.
func findChatOrgID(orgs []WebOrganization) string {
	for _, org := range orgs {
		if org.HasCapability("chat") {
			return org.OrgID()
		}
	}
	if len(orgs) > 0 {
		return orgs[0].OrgID()
	}
	return ""
}
