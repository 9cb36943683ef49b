package antigravity

import (
	"math"
	"sort"
	"strings"

	"github.com/joshuadavidthomas/vibequota/internal/models"
)

// ModelQuota is the per-model remaining-usage record extracted from a
// language server or cloud response, before normalization into rate windows.
type ModelQuota struct {
	Label             string
	Model             string
	RemainingFraction *float64
	ResetTime         string
}

// remaining returns the remaining fraction, treating an absent value as
// exhausted.
func (q ModelQuota) remaining() float64 {
	if q.RemainingFraction == nil {
		return 0
	}
	return *q.RemainingFraction
}

func (q ModelQuota) window() models.RateWindow {
	return models.RateWindow{
		Label:       q.Label,
		UsedPercent: models.ClampPct(100 - int(math.Round(q.remaining()*100))),
		ResetsAt:    models.ParseResetTime(q.ResetTime),
	}
}

// Keyword sets for the three window slots. The vendor's model labels are
// matched case-insensitively by inclusion; renamed models fall through to
// the ascending-remaining sort below.
func isBaselineLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "claude") && !strings.Contains(l, "thinking")
}

func isTierLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "pro") || strings.Contains(l, "low")
}

func isFastLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "flash") || strings.Contains(l, "lite") || strings.Contains(l, "fast")
}

// selectWindows picks up to three quotas to present as ranked windows:
// baseline model first, then the capable tier, then the fast tier. When no
// label matches any keyword, all quotas are sorted ascending by remaining
// fraction and fill the slots positionally. An empty quota list yields a
// single synthetic zero-usage window.
func selectWindows(quotas []ModelQuota) []models.RateWindow {
	if len(quotas) == 0 {
		return models.RankWindows([]models.RateWindow{{Label: "No quotas", UsedPercent: 0}})
	}

	taken := make([]bool, len(quotas))
	pick := func(match func(string) bool) *ModelQuota {
		for i, q := range quotas {
			if !taken[i] && match(q.Label) {
				taken[i] = true
				return &quotas[i]
			}
		}
		return nil
	}

	var selected []ModelQuota
	for _, match := range []func(string) bool{isBaselineLabel, isTierLabel, isFastLabel} {
		if q := pick(match); q != nil {
			selected = append(selected, *q)
		}
	}

	if len(selected) == 0 {
		selected = append(selected, quotas...)
		sort.SliceStable(selected, func(i, j int) bool {
			return selected[i].remaining() < selected[j].remaining()
		})
	}

	if len(selected) > models.MaxWindows {
		selected = selected[:models.MaxWindows]
	}

	windows := make([]models.RateWindow, 0, len(selected))
	for _, q := range selected {
		windows = append(windows, q.window())
	}
	return models.RankWindows(windows)
}
