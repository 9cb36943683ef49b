// Package catalog holds the immutable provider registry and the fetch entry
// point. The catalog is constructed once at startup and passed by reference;
// nothing registers into it implicitly.
package catalog

import (
	"context"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/config"
	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/provider"
	"github.com/joshuadavidthomas/vibequota/internal/provider/antigravity"
	"github.com/joshuadavidthomas/vibequota/internal/provider/claude"
	"github.com/joshuadavidthomas/vibequota/internal/provider/codex"
	"github.com/joshuadavidthomas/vibequota/internal/provider/cursor"
)

// Catalog is the immutable set of supported providers plus the fetch
// configuration they run under. Safe for concurrent use.
type Catalog struct {
	providers map[string]provider.Provider
	order     []string
	cfg       config.Config
	cache     fetch.Cache
}

// New builds the catalog for all supported providers.
func New(cfg config.Config) *Catalog {
	return NewWithCache(cfg, config.FileCache{})
}

// NewWithCache builds the catalog with an explicit snapshot cache. Pass nil
// to disable caching entirely.
func NewWithCache(cfg config.Config, cache fetch.Cache) *Catalog {
	timeout := cfg.Fetch.Timeout
	c := &Catalog{
		providers: make(map[string]provider.Provider),
		cfg:       cfg,
		cache:     cache,
	}
	for _, p := range []provider.Provider{
		claude.New(timeout),
		codex.New(timeout),
		cursor.New(timeout),
		antigravity.New(timeout),
	} {
		id := p.Meta().ID
		c.providers[id] = p
		c.order = append(c.order, id)
	}
	return c
}

// Get returns the provider registered under id.
func (c *Catalog) Get(id string) (provider.Provider, bool) {
	p, ok := c.providers[id]
	return p, ok
}

// IDs returns provider IDs in registration order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// DisplayName returns the human-readable name for a provider ID, falling
// back to the ID itself when unregistered.
func (c *Catalog) DisplayName(id string) string {
	p, ok := c.providers[id]
	if !ok {
		return id
	}
	return p.Meta().Name
}

// StrategiesFor resolves the ordered strategy list for a provider under the
// given fetch context.
func (c *Catalog) StrategiesFor(fc fetch.Context, providerID string) []fetch.Strategy {
	p, ok := c.providers[providerID]
	if !ok {
		return nil
	}
	return p.Strategies(fc)
}

func (c *Catalog) pipelineConfig() fetch.PipelineConfig {
	timeout := time.Duration(c.cfg.Fetch.Timeout * float64(time.Second))
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return fetch.PipelineConfig{Timeout: timeout, Cache: c.cache}
}

// Fetch runs the strategy pipeline for one provider. This is the sole fetch
// entry point; callers render the snapshot or surface the error plus the
// attempt trail.
func (c *Catalog) Fetch(ctx context.Context, fc fetch.Context, providerID string) fetch.Outcome {
	strategies := c.StrategiesFor(fc, providerID)
	useCache := fc.Mode == fetch.ModeAuto || fc.Mode == ""
	return fetch.ExecutePipeline(ctx, fc, providerID, strategies, useCache, c.pipelineConfig())
}

// FetchAll runs pipelines for every enabled provider concurrently.
func (c *Catalog) FetchAll(ctx context.Context, fc fetch.Context, onComplete func(fetch.Outcome)) map[string]fetch.Outcome {
	providerMap := make(map[string][]fetch.Strategy)
	for id := range c.providers {
		providerMap[id] = c.StrategiesFor(fc, id)
	}
	useCache := fc.Mode == fetch.ModeAuto || fc.Mode == ""
	cfg := fetch.OrchestratorConfig{
		MaxConcurrent: c.cfg.Fetch.MaxConcurrent,
		Pipeline:      c.pipelineConfig(),
	}
	return fetch.FetchEnabledProviders(ctx, fc, providerMap, useCache, cfg, c.cfg.IsProviderEnabled, onComplete)
}

// ConfiguredIDs filters provider IDs to those with at least one available
// strategy under the given context.
func (c *Catalog) ConfiguredIDs(fc fetch.Context, providerIDs []string) []string {
	var result []string
	for _, pid := range providerIDs {
		for _, s := range c.StrategiesFor(fc, pid) {
			if s.IsAvailable(fc) {
				result = append(result, pid)
				break
			}
		}
	}
	return result
}
