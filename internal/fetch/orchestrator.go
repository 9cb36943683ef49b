package fetch

import (
	"context"
	"sync"
)

// FetchAllProviders fetches usage from all providers concurrently. Each
// provider runs one independent pipeline; a bounded semaphore caps the
// fan-out. When useCache is true, stale cached data is served if all
// strategies fail.
func FetchAllProviders(ctx context.Context, fc Context, providerMap map[string][]Strategy, useCache bool, cfg OrchestratorConfig, onComplete func(Outcome)) map[string]Outcome {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}

	outcomes := make(map[string]Outcome)
	var mu sync.Mutex
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for pid, strategies := range providerMap {
		wg.Add(1)
		go func(providerID string, strats []Strategy) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcome := ExecutePipeline(ctx, fc, providerID, strats, useCache, cfg.Pipeline)

			mu.Lock()
			outcomes[providerID] = outcome
			mu.Unlock()

			if onComplete != nil {
				onComplete(outcome)
			}
		}(pid, strategies)
	}

	wg.Wait()
	return outcomes
}

// FetchEnabledProviders fetches only providers the isEnabled predicate
// accepts.
func FetchEnabledProviders(ctx context.Context, fc Context, providerMap map[string][]Strategy, useCache bool, cfg OrchestratorConfig, isEnabled func(string) bool, onComplete func(Outcome)) map[string]Outcome {
	enabledMap := make(map[string][]Strategy)
	for pid, strategies := range providerMap {
		if isEnabled(pid) {
			enabledMap[pid] = strategies
		}
	}
	return FetchAllProviders(ctx, fc, enabledMap, useCache, cfg, onComplete)
}
