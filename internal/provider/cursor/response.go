package cursor

import (
	"encoding/json"
	"strings"
	"time"
)

// UsageSummaryResponse is the payload from the Cursor usage summary endpoint.
// Amounts are cents-based with individual and team breakdowns.
type UsageSummaryResponse struct {
	BillingCycleStart string           `json:"billingCycleStart,omitempty"`
	BillingCycleEnd   string           `json:"billingCycleEnd,omitempty"`
	MembershipType    string           `json:"membershipType,omitempty"`
	LimitType         string           `json:"limitType,omitempty"`
	IsUnlimited       *bool            `json:"isUnlimited,omitempty"`
	IndividualUsage   *IndividualUsage `json:"individualUsage,omitempty"`
	TeamUsage         *TeamUsage       `json:"teamUsage,omitempty"`
}

// BillingCycleEndTime parses the billing cycle end as a time. Handles both
// ISO 8601 strings and Unix millisecond timestamps sent as strings.
func (r *UsageSummaryResponse) BillingCycleEndTime() *time.Time {
	return parseFlexibleTime(r.BillingCycleEnd)
}

func parseFlexibleTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	if t, err := time.Parse("2006-01-02T15:04:05.999Z", raw); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}

	// Unix millisecond string (Connect RPC format)
	var ms float64
	if json.Unmarshal([]byte(raw), &ms) == nil && ms > 0 {
		t := time.UnixMilli(int64(ms)).UTC()
		return &t
	}

	return nil
}

// IndividualUsage is per-user usage data.
type IndividualUsage struct {
	Plan     *PlanUsage     `json:"plan,omitempty"`
	OnDemand *OnDemandUsage `json:"onDemand,omitempty"`
}

// PlanUsage is included plan usage (amounts in cents).
type PlanUsage struct {
	Enabled          *bool   `json:"enabled,omitempty"`
	Used             float64 `json:"used"`
	Limit            float64 `json:"limit"`
	Remaining        float64 `json:"remaining"`
	AutoPercentUsed  float64 `json:"autoPercentUsed"`
	APIPercentUsed   float64 `json:"apiPercentUsed"`
	TotalPercentUsed float64 `json:"totalPercentUsed"`
}

// UsedPercent derives the plan utilization, preferring the server-computed
// total over a used/limit ratio.
func (p *PlanUsage) UsedPercent() float64 {
	if p.TotalPercentUsed > 0 {
		return p.TotalPercentUsed
	}
	if p.Limit > 0 {
		return p.Used / p.Limit * 100
	}
	return 0
}

// OnDemandUsage is on-demand spending (amounts in cents). Limit and Remaining
// are nil when on-demand is disabled or unlimited.
type OnDemandUsage struct {
	Enabled   *bool    `json:"enabled,omitempty"`
	Used      float64  `json:"used"`
	Limit     *float64 `json:"limit"`
	Remaining *float64 `json:"remaining"`
}

// TeamUsage is team-level usage data.
type TeamUsage struct {
	OnDemand *OnDemandUsage `json:"onDemand,omitempty"`
}

// UserMeResponse is the payload from the Cursor auth/me endpoint.
type UserMeResponse struct {
	Email         string `json:"email,omitempty"`
	EmailVerified *bool  `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	Sub           string `json:"sub,omitempty"`

	// Some responses include membership_type here.
	MembershipType string `json:"membership_type,omitempty"`
}

// SessionCredentials are stored session credentials for Cursor. Multiple key
// names are supported for backward compatibility.
type SessionCredentials struct {
	SessionToken string `json:"session_token,omitempty"`
	Token        string `json:"token,omitempty"`
	SessionKey   string `json:"session_key,omitempty"`
	Session      string `json:"session,omitempty"`
}

// EffectiveToken returns the first non-empty session token found.
func (c *SessionCredentials) EffectiveToken() string {
	for _, v := range []string{c.SessionToken, c.Token, c.SessionKey, c.Session} {
		if v != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
