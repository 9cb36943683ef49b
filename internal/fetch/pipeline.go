package fetch

import (
	"context"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/logging"
)

// ExecutePipeline tries each strategy in order until one succeeds.
//
// Strategies whose kind is excluded by the context's source mode are skipped
// entirely and leave no attempt record. A strategy that reports itself
// unavailable is recorded but not attempted. The first success wins; later
// strategies are never tried. A failing strategy decides itself whether the
// pipeline may fall back to the next one.
func ExecutePipeline(ctx context.Context, fc Context, providerID string, strategies []Strategy, useCache bool, cfg PipelineConfig) Outcome {
	logger := logging.FromContext(ctx)

	attempts := []Attempt{}
	var lastErr *Error

	for _, strategy := range strategies {
		if !fc.Mode.Allows(strategy.Kind()) {
			continue
		}

		if !strategy.IsAvailable(fc) {
			attempts = append(attempts, Attempt{
				Strategy: strategy.Name(),
				Kind:     strategy.Kind(),
			})
			continue
		}

		resultCh := make(chan FetchResult, 1)
		go func() {
			resultCh <- strategy.Fetch(ctx, fc)
		}()

		var result FetchResult

		select {
		case <-ctx.Done():
			return Outcome{
				ProviderID: providerID,
				Err:        Errorf(ErrCancelled, "fetch cancelled"),
				Attempts:   attempts,
			}
		case <-time.After(cfg.Timeout):
			timeoutErr := Errorf(ErrTimeout, strategy.Name()+" timed out")
			attempts = append(attempts, Attempt{
				Strategy:  strategy.Name(),
				Kind:      strategy.Kind(),
				Available: true,
				Err:       timeoutErr,
			})
			lastErr = timeoutErr
			logger.Debug("strategy timed out", "provider", providerID, "strategy", strategy.Name())
			continue
		case result = <-resultCh:
		}

		if result.Success() {
			if cfg.Cache != nil {
				_ = cfg.Cache.Save(*result.Snapshot)
			}
			source := result.SourceLabel
			if source == "" {
				source = strategy.Name()
			}
			return Outcome{
				ProviderID: providerID,
				Success:    true,
				Snapshot:   result.Snapshot,
				Source:     source,
				Attempts:   attempts,
			}
		}

		err := result.Err
		if err == nil {
			err = Errorf(ErrAPI, strategy.Name()+" returned no snapshot")
		}
		attempts = append(attempts, Attempt{
			Strategy:  strategy.Name(),
			Kind:      strategy.Kind(),
			Available: true,
			Err:       err,
		})
		logger.Debug("strategy failed", "provider", providerID, "strategy", strategy.Name(), "kind", err.Kind)

		if !result.ShouldFallback {
			return Outcome{
				ProviderID: providerID,
				Err:        err,
				Attempts:   attempts,
			}
		}
		lastErr = err
	}

	// All strategies failed; try cache fallback. Only serve cache when at
	// least one strategy was actually attempted; never mislead unconfigured
	// users with old data.
	if useCache && cfg.Cache != nil && anyAttempted(attempts) {
		if cached := cfg.Cache.Load(providerID); cached != nil {
			return Outcome{
				ProviderID: providerID,
				Success:    true,
				Snapshot:   cached,
				Source:     "cache",
				Attempts:   attempts,
				Cached:     true,
			}
		}
	}

	// Exhaustion is terminal regardless of how strategies failed along the
	// way; the per-strategy errors live in the attempt trail.
	msg := "no available strategy for provider " + providerID
	if lastErr != nil {
		msg += " (last error: " + lastErr.Error() + ")"
	}
	return Outcome{
		ProviderID: providerID,
		Err:        Errorf(ErrNoStrategy, msg),
		Attempts:   attempts,
	}
}

func anyAttempted(attempts []Attempt) bool {
	for _, a := range attempts {
		if a.Available {
			return true
		}
	}
	return false
}
