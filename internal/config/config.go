package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

type FetchConfig struct {
	Timeout       float64 `toml:"timeout" json:"timeout"`
	MaxConcurrent int     `toml:"max_concurrent" json:"max_concurrent"`
}

type ProviderConfig struct {
	AuthSource   string `toml:"auth_source,omitempty" json:"auth_source,omitempty"`
	CookieSource string `toml:"cookie_source,omitempty" json:"cookie_source,omitempty"`
	APIToken     string `toml:"api_token,omitempty" json:"api_token,omitempty"`
	Enabled      bool   `toml:"enabled" json:"enabled"`
}

type Config struct {
	EnabledProviders []string                  `toml:"enabled_providers" json:"enabled_providers"`
	Fetch            FetchConfig               `toml:"fetch" json:"fetch"`
	Providers        map[string]ProviderConfig `toml:"providers" json:"providers"`
}

func DefaultConfig() Config {
	return Config{
		EnabledProviders: nil,
		Fetch: FetchConfig{
			Timeout:       30.0,
			MaxConcurrent: 5,
		},
		Providers: make(map[string]ProviderConfig),
	}
}

func (c Config) clone() Config {
	out := c
	if c.EnabledProviders != nil {
		out.EnabledProviders = make([]string, len(c.EnabledProviders))
		copy(out.EnabledProviders, c.EnabledProviders)
	}
	out.Providers = make(map[string]ProviderConfig, len(c.Providers))
	for k, v := range c.Providers {
		out.Providers[k] = v
	}
	return out
}

func (c Config) IsProviderEnabled(providerID string) bool {
	if pc, ok := c.Providers[providerID]; ok && !pc.Enabled {
		return false
	}
	if len(c.EnabledProviders) == 0 {
		return true
	}
	for _, id := range c.EnabledProviders {
		if id == providerID {
			return true
		}
	}
	return false
}

var (
	globalConfig *Config
	configMu     sync.RWMutex
)

func Get() Config {
	configMu.RLock()
	if c := globalConfig; c != nil {
		configMu.RUnlock()
		return c.clone()
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()
	if globalConfig != nil {
		return globalConfig.clone()
	}
	c, _ := Load("")
	globalConfig = &c
	return c.clone()
}

func Reload() (Config, error) {
	configMu.Lock()
	defer configMu.Unlock()
	c, err := Load("")
	globalConfig = &c
	return c.clone(), err
}

func Load(path string) (Config, error) {
	if path == "" {
		path = ConfigFile()
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return applyEnvOverrides(cfg), nil
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return applyEnvOverrides(DefaultConfig()), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	return applyEnvOverrides(cfg), nil
}

func Save(cfg Config, path string) error {
	if path == "" {
		path = ConfigFile()
	}
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func applyEnvOverrides(cfg Config) Config {
	if v := os.Getenv("VIBEQUOTA_FETCH_TIMEOUT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Fetch.Timeout = f
		}
	}
	if v := os.Getenv("VIBEQUOTA_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Fetch.MaxConcurrent = n
		}
	}
	return cfg
}
