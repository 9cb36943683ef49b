package claude

import (
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/models"
	"github.com/joshuadavidthomas/vibequota/internal/oauth"
)

// UsagePeriodResponse represents a single usage period from the Claude OAuth API.
type UsagePeriodResponse struct {
	Utilization float64 `json:"utilization"`
	ResetsAt    string  `json:"resets_at,omitempty"`
}

// OAuthUsageResponse represents the usage response returned by both the
// OAuth endpoint (/api/oauth/usage) and the web session endpoint
// (/api/organizations/{orgID}/usage).
type OAuthUsageResponse struct {
	FiveHour     *UsagePeriodResponse `json:"five_hour,omitempty"`
	SevenDay     *UsagePeriodResponse `json:"seven_day,omitempty"`
	SevenDayOpus *UsagePeriodResponse `json:"seven_day_opus,omitempty"`
	Monthly      *UsagePeriodResponse `json:"monthly,omitempty"`
	Plan         string               `json:"plan,omitempty"`
}

// ToWindows maps the response periods onto the ranked window slots:
// session first, then the weekly window, then the Opus weekly or monthly
// window, whichever exists.
func (r OAuthUsageResponse) ToWindows() []models.RateWindow {
	var windows []models.RateWindow
	add := func(p *UsagePeriodResponse, label string) {
		if p == nil || len(windows) >= models.MaxWindows {
			return
		}
		windows = append(windows, models.RateWindow{
			Label:       label,
			UsedPercent: models.ClampPct(int(p.Utilization)),
			ResetsAt:    models.ParseRFC3339Ptr(p.ResetsAt),
		})
	}
	add(r.FiveHour, "Session (5h)")
	add(r.SevenDay, "Weekly")
	add(r.SevenDayOpus, "Weekly (Opus)")
	add(r.Monthly, "Monthly")
	return models.RankWindows(windows)
}

// Snapshot builds the canonical snapshot from a usage response.
func (r OAuthUsageResponse) Snapshot(authMethod string) *models.UsageSnapshot {
	snap := &models.UsageSnapshot{
		Provider:  "claude",
		FetchedAt: time.Now().UTC(),
		Windows:   r.ToWindows(),
	}
	if r.Plan != "" {
		snap.Identity = &models.Identity{Plan: r.Plan, AuthMethod: authMethod}
	}
	return snap
}

// OAuthCredentials is an alias for the shared OAuth credential type.
type OAuthCredentials = oauth.Credentials

// ClaudeCLIOAuth represents the nested OAuth data inside Claude CLI credentials.
type ClaudeCLIOAuth struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken,omitempty"`
	ExpiresAt    float64 `json:"expiresAt,omitempty"` // millisecond timestamp
}

// ToOAuthCredentials converts Claude CLI format to standard OAuthCredentials.
func (c *ClaudeCLIOAuth) ToOAuthCredentials() OAuthCredentials {
	creds := OAuthCredentials{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
	}
	if c.ExpiresAt > 0 {
		t := time.UnixMilli(int64(c.ExpiresAt))
		creds.ExpiresAt = t.UTC().Format(time.RFC3339)
	}
	return creds
}

// ClaudeCLICredentials represents the Claude CLI credentials file format.
type ClaudeCLICredentials struct {
	ClaudeAiOauth *ClaudeCLIOAuth `json:"claudeAiOauth,omitempty"`
}

// WebOrganization represents a single organization from /api/organizations.
type WebOrganization struct {
	UUID         string   `json:"uuid,omitempty"`
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// OrgID returns the best identifier for this organization, preferring UUID.
func (o *WebOrganization) OrgID() string {
	if o.UUID != "" {
		return o.UUID
	}
	return o.ID
}

// HasCapability reports whether the organization has the given capability.
func (o *WebOrganization) HasCapability(cap string) bool {
	for _, c := range o.Capabilities {
		if c == cap {
			return true
		}
	}
	return false
}

// WebSessionCredentials represents stored web session credentials.
type WebSessionCredentials struct {
	SessionKey string `json:"session_key"`
}
