package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "vibequota"

func ConfigDir() string {
	if v := os.Getenv("VIBEQUOTA_CONFIG_DIR"); v != "" {
		return v
	}
	return filepath.Join(xdg.ConfigHome, appName)
}

func CacheDir() string {
	if v := os.Getenv("VIBEQUOTA_CACHE_DIR"); v != "" {
		return v
	}
	return filepath.Join(xdg.CacheHome, appName)
}

func CredentialsDir() string { return filepath.Join(ConfigDir(), "credentials") }
func SnapshotsDir() string   { return filepath.Join(CacheDir(), "snapshots") }
func OrgIDsDir() string      { return filepath.Join(CacheDir(), "org-ids") }
func ConfigFile() string     { return filepath.Join(ConfigDir(), "config.toml") }
