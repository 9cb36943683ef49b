package config

import (
	"github.com/joshuadavidthomas/vibequota/internal/models"
)

// FileCache implements fetch.Cache using the filesystem-based snapshot
// storage, enabling dependency injection in the fetch pipeline.
type FileCache struct{}

func (FileCache) Save(snapshot models.UsageSnapshot) error {
	return CacheSnapshot(snapshot)
}

func (FileCache) Load(providerID string) *models.UsageSnapshot {
	return LoadCachedSnapshot(providerID)
}
