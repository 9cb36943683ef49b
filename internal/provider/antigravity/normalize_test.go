package antigravity

import (
	"testing"

	"github.com/joshuadavidthomas/vibequota/internal/models"
)

func fraction(f float64) *float64 {
	return &f
}

func quota(label string, remaining float64) ModelQuota {
	return ModelQuota{Label: label, RemainingFraction: fraction(remaining)}
}

func TestSelectWindowsKeywordSlots(t *testing.T) {
	quotas := []ModelQuota{
		{Label: "Gemini 3 Flash", RemainingFraction: fraction(0.9)},
		{Label: "Claude Sonnet 4.5", RemainingFraction: fraction(0.5)},
		{Label: "Gemini 3 Pro (Low)", RemainingFraction: fraction(0.8)},
	}

	windows := selectWindows(quotas)
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}

	want := []struct {
		label string
		used  int
		rank  models.WindowRank
	}{
		{"Claude Sonnet 4.5", 50, models.RankPrimary},
		{"Gemini 3 Pro (Low)", 20, models.RankSecondary},
		{"Gemini 3 Flash", 10, models.RankTertiary},
	}
	for i, w := range want {
		if windows[i].Label != w.label {
			t.Errorf("window %d label = %q, want %q", i, windows[i].Label, w.label)
		}
		if windows[i].UsedPercent != w.used {
			t.Errorf("window %d used = %d%%, want %d%%", i, windows[i].UsedPercent, w.used)
		}
		if windows[i].Rank != w.rank {
			t.Errorf("window %d rank = %q, want %q", i, windows[i].Rank, w.rank)
		}
	}
}

func TestSelectWindowsExcludesThinkingFromBaseline(t *testing.T) {
	quotas := []ModelQuota{
		quota("Claude Sonnet 4.5 (Thinking)", 0.4),
		quota("Claude Sonnet 4.5", 0.5),
	}

	windows := selectWindows(quotas)
	if windows[0].Label != "Claude Sonnet 4.5" {
		t.Errorf("primary = %q, want the non-thinking variant", windows[0].Label)
	}
}

func TestSelectWindowsFallbackSortsByRemaining(t *testing.T) {
	quotas := []ModelQuota{
		quota("model-x", 0.3),
		quota("model-y", 0.1),
	}

	windows := selectWindows(quotas)
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].Label != "model-y" || windows[0].UsedPercent != 90 {
		t.Errorf("primary = %q at %d%%, want model-y at 90%%", windows[0].Label, windows[0].UsedPercent)
	}
	if windows[1].Label != "model-x" || windows[1].UsedPercent != 70 {
		t.Errorf("secondary = %q at %d%%, want model-x at 70%%", windows[1].Label, windows[1].UsedPercent)
	}
}

func TestSelectWindowsFallbackTruncatesToThree(t *testing.T) {
	quotas := []ModelQuota{
		quota("a", 0.8),
		quota("b", 0.2),
		quota("c", 0.6),
		quota("d", 0.4),
	}

	windows := selectWindows(quotas)
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	labels := []string{windows[0].Label, windows[1].Label, windows[2].Label}
	want := []string{"b", "d", "c"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("window %d = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestSelectWindowsPartialKeywordMatch(t *testing.T) {
	// One keyword hit is enough to skip the positional fallback.
	quotas := []ModelQuota{
		quota("Gemini 3 Flash", 0.1),
		quota("Claude Sonnet 4.5", 0.9),
	}

	windows := selectWindows(quotas)
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].Label != "Claude Sonnet 4.5" {
		t.Errorf("primary = %q, want the baseline model despite more remaining", windows[0].Label)
	}
	if windows[1].Label != "Gemini 3 Flash" {
		t.Errorf("secondary = %q, want the fast tier", windows[1].Label)
	}
}

func TestSelectWindowsEmpty(t *testing.T) {
	windows := selectWindows(nil)
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	if windows[0].Label != "No quotas" || windows[0].UsedPercent != 0 {
		t.Errorf("got %q at %d%%, want placeholder at 0%%", windows[0].Label, windows[0].UsedPercent)
	}
	if windows[0].Rank != models.RankPrimary {
		t.Errorf("rank = %q, want primary", windows[0].Rank)
	}
}

func TestModelQuotaAbsentRemaining(t *testing.T) {
	w := ModelQuota{Label: "Claude Sonnet 4.5"}.window()
	if w.UsedPercent != 100 {
		t.Errorf("used = %d%%, want 100%% when remaining is absent", w.UsedPercent)
	}
}

func TestModelQuotaRounding(t *testing.T) {
	// 0.3*100 is 29.999… in float64; the window must still read 70% used.
	w := quota("m", 0.3).window()
	if w.UsedPercent != 70 {
		t.Errorf("used = %d%%, want 70%%", w.UsedPercent)
	}
}
