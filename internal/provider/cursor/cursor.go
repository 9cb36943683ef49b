package cursor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/config"
	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/httpclient"
	"github.com/joshuadavidthomas/vibequota/internal/models"
	"github.com/joshuadavidthomas/vibequota/internal/provider"
)

const (
	usageSummaryURL = "https://cursor.com/api/usage-summary"
	authMeURL       = "https://cursor.com/api/auth/me"

	sessionCookieName = "__Secure-next-auth.session-token"
)

// Cursor is the AI-powered code editor.
type Cursor struct {
	httpTimeout float64
}

func New(httpTimeout float64) Cursor {
	return Cursor{httpTimeout: httpTimeout}
}

func (c Cursor) Meta() provider.Metadata {
	return provider.Metadata{
		ID:           "cursor",
		Name:         "Cursor",
		Description:  "AI-powered code editor",
		Homepage:     "https://cursor.com",
		DashboardURL: "https://cursor.com/settings/usage",
	}
}

func (c Cursor) CredentialSources() provider.CredentialInfo {
	return provider.CredentialInfo{
		EnvVars: []string{"CURSOR_API_KEY"},
	}
}

func (c Cursor) Strategies(fc fetch.Context) []fetch.Strategy {
	return []fetch.Strategy{&WebStrategy{HTTPTimeout: c.httpTimeout}}
}

// WebStrategy fetches Cursor usage with a browser session token.
type WebStrategy struct {
	HTTPTimeout float64
}

func (s *WebStrategy) Kind() fetch.Kind { return fetch.KindWeb }
func (s *WebStrategy) Name() string     { return "web" }

func (s *WebStrategy) IsAvailable(fc fetch.Context) bool {
	if fc.CustomSetting("cursor_session_token") != "" {
		return true
	}
	_, err := os.Stat(config.CredentialPath("cursor", "session"))
	return err == nil
}

func (s *WebStrategy) Fetch(ctx context.Context, fc fetch.Context) fetch.FetchResult {
	sessionToken := s.loadSessionToken(fc)
	if sessionToken == "" {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAuthRequired, "no session token found"))
	}

	client := httpclient.NewFromConfig(s.HTTPTimeout)
	sessionCookie := httpclient.WithCookie(sessionCookieName, sessionToken)
	userAgent := httpclient.WithHeader("User-Agent", "Mozilla/5.0")

	var usageResp UsageSummaryResponse
	resp, err := client.PostJSONCtx(ctx, usageSummaryURL, nil, &usageResp,
		sessionCookie, userAgent,
	)
	if err != nil {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrNetwork, "request failed: "+err.Error()))
	}

	switch {
	case resp.StatusCode == 401:
		return fetch.ResultFatal(fetch.Errorf(fetch.ErrInvalidCredentials, "session token expired or invalid"))
	case resp.StatusCode == 404:
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAPI, "user not found or no active subscription"))
	case resp.StatusCode == 429:
		return fetch.ResultFail(fetch.RateLimitedError("usage endpoint rate limited", nil))
	case resp.StatusCode != 200:
		return fetch.ResultFail(fetch.Errorf(fetch.ErrAPI, fmt.Sprintf("usage request failed: %d", resp.StatusCode)))
	case resp.JSONErr != nil:
		return fetch.ResultFail(fetch.Errorf(fetch.ErrParse, fmt.Sprintf("invalid usage response: %v", resp.JSONErr)))
	}

	// The identity lookup is best-effort
	var userResp *UserMeResponse
	var u UserMeResponse
	uResp, err := client.GetJSONCtx(ctx, authMeURL, &u,
		sessionCookie, userAgent,
	)
	if err == nil && uResp.StatusCode == 200 && uResp.JSONErr == nil {
		userResp = &u
	}

	snapshot := buildSnapshot(usageResp, userResp)
	if snapshot == nil {
		return fetch.ResultFail(fetch.Errorf(fetch.ErrParse, "usage response contained no plan data"))
	}

	return fetch.ResultOK(*snapshot, "Cursor Web")
}

func (s *WebStrategy) loadSessionToken(fc fetch.Context) string {
	if tok := fc.CustomSetting("cursor_session_token"); tok != "" {
		return tok
	}
	data, err := config.ReadCredential(config.CredentialPath("cursor", "session"))
	if err != nil || data == nil {
		return ""
	}
	var creds SessionCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return strings.TrimSpace(string(data))
	}
	if tok := creds.EffectiveToken(); tok != "" {
		return tok
	}
	return strings.TrimSpace(string(data))
}

func buildSnapshot(usageResp UsageSummaryResponse, userResp *UserMeResponse) *models.UsageSnapshot {
	if usageResp.IndividualUsage == nil || usageResp.IndividualUsage.Plan == nil {
		return nil
	}

	windows := []models.RateWindow{{
		Label:       "Plan Usage",
		UsedPercent: models.ClampPct(int(usageResp.IndividualUsage.Plan.UsedPercent())),
		ResetsAt:    usageResp.BillingCycleEndTime(),
	}}

	// Identity: prefer email and plan from auth/me, fall back to the
	// membership type in the usage summary.
	var identity *models.Identity
	if userResp != nil && (userResp.Email != "" || userResp.MembershipType != "") {
		plan := userResp.MembershipType
		if plan == "" {
			plan = usageResp.MembershipType
		}
		identity = &models.Identity{Email: userResp.Email, Plan: plan, AuthMethod: "web"}
	} else if usageResp.MembershipType != "" {
		identity = &models.Identity{Plan: usageResp.MembershipType, AuthMethod: "web"}
	}

	return &models.UsageSnapshot{
		Provider:  "cursor",
		FetchedAt: time.Now().UTC(),
		Windows:   models.RankWindows(windows),
		Identity:  identity,
	}
}
