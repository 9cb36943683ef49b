package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joshuadavidthomas/vibequota/internal/models"
)

func SnapshotPath(providerID string) string {
	return filepath.Join(SnapshotsDir(), providerID+".json")
}

func CacheSnapshot(snapshot models.UsageSnapshot) error {
	path := SnapshotPath(snapshot.Provider)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("caching snapshot for %s: %w", snapshot.Provider, err)
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("caching snapshot for %s: %w", snapshot.Provider, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("caching snapshot for %s: %w", snapshot.Provider, err)
	}
	return nil
}

func LoadCachedSnapshot(providerID string) *models.UsageSnapshot {
	data, err := os.ReadFile(SnapshotPath(providerID))
	if err != nil {
		return nil
	}
	var snap models.UsageSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}

func ClearSnapshotCache(providerID string) {
	if providerID != "" {
		_ = os.Remove(SnapshotPath(providerID))
		return
	}
	entries, _ := os.ReadDir(SnapshotsDir())
	for _, e := range entries {
		_ = os.Remove(filepath.Join(SnapshotsDir(), e.Name()))
	}
}

// Org ID caching for the web strategies.

func OrgIDPath(providerID string) string {
	return filepath.Join(OrgIDsDir(), providerID+".txt")
}

func CacheOrgID(providerID, orgID string) error {
	path := OrgIDPath(providerID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("caching org ID for %s: %w", providerID, err)
	}
	if err := os.WriteFile(path, []byte(orgID), 0o644); err != nil {
		return fmt.Errorf("caching org ID for %s: %w", providerID, err)
	}
	return nil
}

func LoadCachedOrgID(providerID string) string {
	data, err := os.ReadFile(OrgIDPath(providerID))
	if err != nil {
		return ""
	}
	return string(data)
}
