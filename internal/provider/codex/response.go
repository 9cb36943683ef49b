package codex

import (
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/models"
)

// UsageResponse represents the response from the Codex/ChatGPT usage
// endpoint. The API uses alternate key names: "rate_limit" vs "rate_limits".
type UsageResponse struct {
	Email      string      `json:"email,omitempty"`
	PlanType   string      `json:"plan_type,omitempty"`
	RateLimit  *RateLimits `json:"rate_limit,omitempty"`
	RateLimits *RateLimits `json:"rate_limits,omitempty"`
}

// EffectiveRateLimits returns whichever rate limits field is populated.
func (r *UsageResponse) EffectiveRateLimits() *RateLimits {
	if r.RateLimit != nil {
		return r.RateLimit
	}
	return r.RateLimits
}

// RateLimits contains primary and secondary rate windows. The API uses
// alternate key names: "primary_window" vs "primary".
type RateLimits struct {
	PrimaryWindow   *RateWindow `json:"primary_window,omitempty"`
	Primary         *RateWindow `json:"primary,omitempty"`
	SecondaryWindow *RateWindow `json:"secondary_window,omitempty"`
	Secondary       *RateWindow `json:"secondary,omitempty"`
}

func (r *RateLimits) EffectivePrimary() *RateWindow {
	if r.PrimaryWindow != nil {
		return r.PrimaryWindow
	}
	return r.Primary
}

func (r *RateLimits) EffectiveSecondary() *RateWindow {
	if r.SecondaryWindow != nil {
		return r.SecondaryWindow
	}
	return r.Secondary
}

// RateWindow represents a single rate limit window. The API uses alternate
// key names: "reset_at" vs "reset_timestamp" (both epoch seconds).
type RateWindow struct {
	UsedPercent        float64 `json:"used_percent"`
	LimitWindowSeconds float64 `json:"limit_window_seconds,omitempty"`
	ResetAt            float64 `json:"reset_at,omitempty"`
	ResetTimestamp     float64 `json:"reset_timestamp,omitempty"`
}

func (w *RateWindow) EffectiveResetTimestamp() float64 {
	if w.ResetAt != 0 {
		return w.ResetAt
	}
	return w.ResetTimestamp
}

func (w *RateWindow) resetTime() *time.Time {
	ts := w.EffectiveResetTimestamp()
	if ts <= 0 {
		return nil
	}
	t := time.Unix(int64(ts), 0).UTC()
	return &t
}

// windowLabel names the window from its size: 5-hour windows are sessions,
// anything a day or longer is labeled by days.
func (w *RateWindow) windowLabel(fallback string) string {
	hours := int(w.LimitWindowSeconds / 3600)
	switch {
	case hours <= 0:
		return fallback
	case hours < 24:
		return "Session (5h)"
	default:
		return "Weekly"
	}
}

// Snapshot builds the canonical snapshot from a usage response.
func (r UsageResponse) Snapshot() *models.UsageSnapshot {
	var windows []models.RateWindow
	if limits := r.EffectiveRateLimits(); limits != nil {
		if p := limits.EffectivePrimary(); p != nil {
			windows = append(windows, models.RateWindow{
				Label:       p.windowLabel("Session (5h)"),
				UsedPercent: models.ClampPct(int(p.UsedPercent)),
				ResetsAt:    p.resetTime(),
			})
		}
		if sec := limits.EffectiveSecondary(); sec != nil {
			windows = append(windows, models.RateWindow{
				Label:       sec.windowLabel("Weekly"),
				UsedPercent: models.ClampPct(int(sec.UsedPercent)),
				ResetsAt:    sec.resetTime(),
			})
		}
	}

	snap := &models.UsageSnapshot{
		Provider:  "codex",
		FetchedAt: time.Now().UTC(),
		Windows:   models.RankWindows(windows),
	}
	if r.Email != "" || r.PlanType != "" {
		snap.Identity = &models.Identity{
			Email:      r.Email,
			Plan:       r.PlanType,
			AuthMethod: "oauth",
		}
	}
	return snap
}

// CodexAuthFile represents the ~/.codex/auth.json format written by the
// Codex CLI.
type CodexAuthFile struct {
	Tokens *struct {
		AccessToken  string `json:"access_token,omitempty"`
		RefreshToken string `json:"refresh_token,omitempty"`
	} `json:"tokens,omitempty"`
	LastRefresh string `json:"last_refresh,omitempty"`
}
