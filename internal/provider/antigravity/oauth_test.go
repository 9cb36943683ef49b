package antigravity

import (
	"testing"
)

func TestBuildOAuthSnapshot(t *testing.T) {
	resp := FetchModelsResponse{
		Models: map[string]CloudModelInfo{
			"claude-sonnet-4-5": {
				DisplayName: "Claude Sonnet 4.5",
				QuotaInfo:   &QuotaInfo{RemainingFraction: fraction(0.5), ResetTime: "2026-09-01T00:00:00Z"},
			},
		},
	}
	state := &vscdbState{
		email: "me@example.com",
		tier:  &SubscriptionTier{ID: "g1-pro-tier", Name: "Google AI Pro"},
	}

	snap := buildOAuthSnapshot(resp, state)
	if snap.Provider != "antigravity" {
		t.Errorf("provider = %q", snap.Provider)
	}
	if len(snap.Windows) != 1 || snap.Windows[0].UsedPercent != 50 {
		t.Errorf("windows = %+v", snap.Windows)
	}
	if snap.Identity == nil || snap.Identity.Email != "me@example.com" || snap.Identity.Plan != "Google AI Pro" {
		t.Errorf("identity = %+v", snap.Identity)
	}
	if snap.Identity.AuthMethod != "oauth" {
		t.Errorf("auth method = %q", snap.Identity.AuthMethod)
	}
}

func TestBuildOAuthSnapshotWithoutState(t *testing.T) {
	snap := buildOAuthSnapshot(FetchModelsResponse{}, nil)
	if snap.Identity != nil {
		t.Errorf("identity = %+v, want nil without vscdb state", snap.Identity)
	}
	// Empty model list still yields the placeholder window.
	if len(snap.Windows) != 1 || snap.Windows[0].Label != "No quotas" {
		t.Errorf("windows = %+v", snap.Windows)
	}
}

func TestOAuthStrategyIsStateless(t *testing.T) {
	// The strategy carries only static configuration; identical values stay
	// identical across use, so one instance is safe to share between
	// concurrent fetches.
	a := OAuthStrategy{HTTPTimeout: 5}
	b := OAuthStrategy{HTTPTimeout: 5}
	if a != b {
		t.Error("strategy values with equal configuration should be equal")
	}
}
