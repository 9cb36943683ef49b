package models

import (
	"strconv"
	"time"
)

// WindowRank orders the ranked usage windows inside a snapshot.
type WindowRank string

const (
	RankPrimary   WindowRank = "primary"
	RankSecondary WindowRank = "secondary"
	RankTertiary  WindowRank = "tertiary"
)

// MaxWindows is the number of ranked windows a snapshot can carry.
const MaxWindows = 3

// RateWindow is one ranked usage bucket inside a snapshot.
type RateWindow struct {
	Label       string     `json:"label"`
	UsedPercent int        `json:"used_percent"`
	Rank        WindowRank `json:"rank"`
	ResetsAt    *time.Time `json:"resets_at,omitempty"`
}

func (w RateWindow) Remaining() int {
	return 100 - w.UsedPercent
}

func (w RateWindow) TimeUntilReset() *time.Duration {
	if w.ResetsAt == nil {
		return nil
	}
	d := time.Until(*w.ResetsAt)
	if d < 0 {
		d = 0
	}
	return &d
}

// Identity describes the account a snapshot belongs to.
type Identity struct {
	Email      string `json:"email,omitempty"`
	Plan       string `json:"plan,omitempty"`
	AuthMethod string `json:"auth_method,omitempty"`
}

// UsageSnapshot is the canonical, timestamped usage result for one provider.
// It is immutable after construction; up to three ranked windows are kept in
// rank order (primary first).
type UsageSnapshot struct {
	Provider  string       `json:"provider"`
	FetchedAt time.Time    `json:"fetched_at"`
	Windows   []RateWindow `json:"windows"`
	Identity  *Identity    `json:"identity,omitempty"`
}

// Primary returns the primary window, or nil for an empty snapshot.
func (s UsageSnapshot) Primary() *RateWindow {
	if len(s.Windows) == 0 {
		return nil
	}
	return &s.Windows[0]
}

// Bottleneck returns the window with the least remaining headroom.
func (s UsageSnapshot) Bottleneck() *RateWindow {
	if len(s.Windows) == 0 {
		return nil
	}
	best := 0
	for i, w := range s.Windows {
		if w.UsedPercent > s.Windows[best].UsedPercent {
			best = i
		}
	}
	return &s.Windows[best]
}

func (s UsageSnapshot) IsStale(maxAge time.Duration) bool {
	return time.Since(s.FetchedAt) > maxAge
}

// RankWindows assigns primary/secondary/tertiary ranks positionally and
// truncates to MaxWindows.
func RankWindows(windows []RateWindow) []RateWindow {
	ranks := []WindowRank{RankPrimary, RankSecondary, RankTertiary}
	if len(windows) > MaxWindows {
		windows = windows[:MaxWindows]
	}
	for i := range windows {
		windows[i].Rank = ranks[i]
	}
	return windows
}

func FormatResetCountdown(d *time.Duration) string {
	if d == nil {
		return ""
	}
	total := int(d.Seconds())
	if total <= 0 {
		return "now"
	}
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	if hours > 0 {
		return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	}
	return strconv.Itoa(minutes) + "m"
}
