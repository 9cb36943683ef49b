package config

import (
	"testing"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/models"
	"github.com/joshuadavidthomas/vibequota/internal/testenv"
)

func TestSnapshotCacheRoundTrip(t *testing.T) {
	testenv.ApplyVibequota(t.Setenv, t.TempDir())

	snap := models.UsageSnapshot{
		Provider:  "claude",
		FetchedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Windows: models.RankWindows([]models.RateWindow{
			{Label: "Session (5h)", UsedPercent: 45},
		}),
	}

	if err := CacheSnapshot(snap); err != nil {
		t.Fatalf("cache: %v", err)
	}

	loaded := LoadCachedSnapshot("claude")
	if loaded == nil {
		t.Fatal("got nil snapshot")
	}
	if loaded.Provider != "claude" || !loaded.FetchedAt.Equal(snap.FetchedAt) {
		t.Errorf("loaded = %+v", loaded)
	}
	if len(loaded.Windows) != 1 || loaded.Windows[0].UsedPercent != 45 {
		t.Errorf("windows = %+v", loaded.Windows)
	}
}

func TestLoadCachedSnapshotMissing(t *testing.T) {
	testenv.ApplyVibequota(t.Setenv, t.TempDir())
	if got := LoadCachedSnapshot("nope"); got != nil {
		t.Errorf("got %+v, want nil for missing cache entry", got)
	}
}

func TestClearSnapshotCache(t *testing.T) {
	testenv.ApplyVibequota(t.Setenv, t.TempDir())

	for _, id := range []string{"claude", "codex"} {
		if err := CacheSnapshot(models.UsageSnapshot{Provider: id, FetchedAt: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}

	ClearSnapshotCache("claude")
	if LoadCachedSnapshot("claude") != nil {
		t.Error("claude cache should be cleared")
	}
	if LoadCachedSnapshot("codex") == nil {
		t.Error("codex cache should survive a targeted clear")
	}

	ClearSnapshotCache("")
	if LoadCachedSnapshot("codex") != nil {
		t.Error("codex cache should be cleared by the full clear")
	}
}

func TestOrgIDCache(t *testing.T) {
	testenv.ApplyVibequota(t.Setenv, t.TempDir())

	if got := LoadCachedOrgID("claude"); got != "" {
		t.Errorf("got %q, want empty before caching", got)
	}
	if err := CacheOrgID("claude", "org-uuid-1"); err != nil {
		t.Fatal(err)
	}
	if got := LoadCachedOrgID("claude"); got != "org-uuid-1" {
		t.Errorf("got %q, want org-uuid-1", got)
	}
}

func TestFileCacheImplementsRoundTrip(t *testing.T) {
	testenv.ApplyVibequota(t.Setenv, t.TempDir())

	var fc FileCache
	snap := models.UsageSnapshot{Provider: "cursor", FetchedAt: time.Now().UTC()}
	if err := fc.Save(snap); err != nil {
		t.Fatal(err)
	}
	if loaded := fc.Load("cursor"); loaded == nil || loaded.Provider != "cursor" {
		t.Errorf("loaded = %+v", loaded)
	}
}
