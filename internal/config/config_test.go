package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuadavidthomas/vibequota/internal/testenv"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	testenv.ApplyVibequota(t.Setenv, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Fetch.Timeout != 30.0 {
		t.Errorf("timeout = %v, want 30", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxConcurrent != 5 {
		t.Errorf("max_concurrent = %v, want 5", cfg.Fetch.MaxConcurrent)
	}
	if cfg.Providers == nil {
		t.Error("providers map should be initialized")
	}
}

func TestLoadFromFile(t *testing.T) {
	dirs := testenv.ApplyVibequota(t.Setenv, t.TempDir())
	if err := os.MkdirAll(dirs.Config, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `
enabled_providers = ["claude", "codex"]

[fetch]
timeout = 10.0
max_concurrent = 2

[providers.cursor]
enabled = false
cookie_source = "browser"
`
	if err := os.WriteFile(filepath.Join(dirs.Config, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Fetch.Timeout != 10.0 || cfg.Fetch.MaxConcurrent != 2 {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}
	if len(cfg.EnabledProviders) != 2 {
		t.Errorf("enabled_providers = %v", cfg.EnabledProviders)
	}
	if pc := cfg.Providers["cursor"]; pc.Enabled || pc.CookieSource != "browser" {
		t.Errorf("cursor config = %+v", pc)
	}
}

func TestLoadMalformedFileReturnsError(t *testing.T) {
	dirs := testenv.ApplyVibequota(t.Setenv, t.TempDir())
	if err := os.MkdirAll(dirs.Config, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dirs.Config, "config.toml"), []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err == nil {
		t.Error("expected a parse error")
	}
	// Defaults still apply so the CLI stays usable.
	if cfg.Fetch.Timeout != 30.0 {
		t.Errorf("timeout = %v, want default 30", cfg.Fetch.Timeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	testenv.ApplyVibequota(t.Setenv, t.TempDir())
	t.Setenv("VIBEQUOTA_FETCH_TIMEOUT", "7.5")
	t.Setenv("VIBEQUOTA_MAX_CONCURRENT", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fetch.Timeout != 7.5 {
		t.Errorf("timeout = %v, want 7.5", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxConcurrent != 3 {
		t.Errorf("max_concurrent = %v, want 3", cfg.Fetch.MaxConcurrent)
	}

	t.Setenv("VIBEQUOTA_FETCH_TIMEOUT", "garbage")
	cfg, _ = Load("")
	if cfg.Fetch.Timeout != 30.0 {
		t.Errorf("invalid override should be ignored, got %v", cfg.Fetch.Timeout)
	}
}

func TestIsProviderEnabled(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.IsProviderEnabled("claude") {
		t.Error("everything enabled by default")
	}

	cfg.EnabledProviders = []string{"claude"}
	if !cfg.IsProviderEnabled("claude") || cfg.IsProviderEnabled("codex") {
		t.Error("allowlist should restrict to listed providers")
	}

	cfg = DefaultConfig()
	cfg.Providers["cursor"] = ProviderConfig{Enabled: false}
	if cfg.IsProviderEnabled("cursor") {
		t.Error("per-provider disable should win")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	testenv.ApplyVibequota(t.Setenv, t.TempDir())

	cfg := DefaultConfig()
	cfg.Fetch.Timeout = 15.0
	cfg.Providers["claude"] = ProviderConfig{Enabled: true, AuthSource: "cli"}

	if err := Save(cfg, ""); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Fetch.Timeout != 15.0 {
		t.Errorf("timeout = %v, want 15", loaded.Fetch.Timeout)
	}
	if loaded.Providers["claude"].AuthSource != "cli" {
		t.Errorf("claude config = %+v", loaded.Providers["claude"])
	}
}

func TestConfigDirEnvOverride(t *testing.T) {
	dirs := testenv.ApplyVibequota(t.Setenv, t.TempDir())
	if ConfigDir() != dirs.Config {
		t.Errorf("ConfigDir() = %q, want %q", ConfigDir(), dirs.Config)
	}
	if CacheDir() != dirs.Cache {
		t.Errorf("CacheDir() = %q, want %q", CacheDir(), dirs.Cache)
	}
	if got, want := ConfigFile(), filepath.Join(dirs.Config, "config.toml"); got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
}
