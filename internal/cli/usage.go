package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/vibequota/internal/display"
	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/logging"
)

// staleCacheAge is the snapshot age past which cached data gets a warning.
const staleCacheAge = 24 * time.Hour

var usageCmd = &cobra.Command{
	Use:   "usage [provider]",
	Short: "Fetch and show usage for one provider or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return fetchAndDisplayProvider(cmd.Context(), args[0])
		}
		return fetchAndDisplayAll(cmd.Context())
	},
}

func fetchAndDisplayAll(ctx context.Context) error {
	start := time.Now()

	cat := newCatalog()
	fc := buildFetchContext("")
	outcomes := cat.FetchAll(ctx, fc, nil)

	durationMs := time.Since(start).Milliseconds()

	if jsonOutput || !isTerminal() {
		return display.OutputMultiProviderJSON(outWriter, outcomes)
	}

	displayOutcomes(ctx, cat.IDs(), outcomes, durationMs)
	return nil
}

func displayOutcomes(ctx context.Context, order []string, outcomes map[string]fetch.Outcome, durationMs int64) {
	logger := logging.FromContext(ctx)
	cat := newCatalog()

	hasData := false
	for _, o := range outcomes {
		if o.Success && o.Snapshot != nil {
			hasData = true
			break
		}
	}

	type providerError struct{ id, msg string }
	var failures []providerError
	for _, pid := range order {
		o, ok := outcomes[pid]
		if !ok || o.Success {
			continue
		}
		// Skip unconfigured providers; only show real fetch errors.
		if o.Err != nil && fetch.KindOf(o.Err) != fetch.ErrNoStrategy {
			failures = append(failures, providerError{pid, o.Err.Error()})
		}
		if o.Err != nil {
			logger.Debug("provider error", "provider", pid, "kind", o.Err.Kind, "error", o.Err.Message)
		}
	}

	if !hasData {
		if !quiet {
			outln("No usage data available")
			for _, f := range failures {
				outln(display.RenderProviderError(cat.DisplayName(f.id), f.msg, noColor))
			}
		}
		return
	}

	for _, pid := range order {
		o, ok := outcomes[pid]
		if !ok || !o.Success || o.Snapshot == nil {
			continue
		}
		snap := *o.Snapshot
		if o.Cached && snap.IsStale(staleCacheAge) {
			logger.Warn("serving stale cached data", "provider", pid, "fetched_at", snap.FetchedAt)
		}

		if quiet {
			// One line per provider: the window with the least headroom.
			if w := snap.Bottleneck(); w != nil {
				out("%s %s: %d%%\n", pid, w.Label, w.UsedPercent)
			}
			continue
		}
		outln(display.RenderSnapshot(cat.DisplayName(pid), snap, o.Source, o.Cached, noColor))
	}

	if !quiet {
		for _, f := range failures {
			outln(display.RenderProviderError(cat.DisplayName(f.id), f.msg, noColor))
		}
	}

	if durationMs > 0 {
		logger.Debug("fetch complete", "total_duration_ms", durationMs)
	}
}

func fetchAndDisplayProvider(ctx context.Context, providerID string) error {
	logger := logging.FromContext(ctx)

	cat := newCatalog()
	if _, ok := cat.Get(providerID); !ok {
		ids := cat.IDs()
		sort.Strings(ids)
		return fmt.Errorf("unknown provider: %s. Available: %s", providerID, strings.Join(ids, ", "))
	}

	start := time.Now()
	fc := buildFetchContext(providerID)
	outcome := cat.Fetch(ctx, fc, providerID)
	durationMs := time.Since(start).Milliseconds()

	if jsonOutput || !isTerminal() {
		return display.OutputJSON(outWriter, display.OutcomeToJSON(outcome))
	}

	if !outcome.Success || outcome.Snapshot == nil {
		for _, a := range outcome.Attempts {
			logger.Debug("attempt", "strategy", a.Strategy, "kind", a.Kind, "available", a.Available, "err", a.Err)
		}
		if outcome.Err != nil {
			return fmt.Errorf("%s", outcome.Err.Error())
		}
		return fmt.Errorf("fetch failed")
	}

	snap := *outcome.Snapshot
	if outcome.Cached && snap.IsStale(staleCacheAge) {
		logger.Warn("serving stale cached data", "provider", providerID, "fetched_at", snap.FetchedAt)
	}

	if quiet {
		if w := snap.Bottleneck(); w != nil {
			out("%s %s: %d%%\n", providerID, w.Label, w.UsedPercent)
		}
		return nil
	}

	logFields := []any{"provider", providerID}
	if durationMs > 0 {
		logFields = append(logFields, "duration_ms", durationMs)
	}
	if snap.Identity != nil && snap.Identity.Email != "" {
		logFields = append(logFields, "account", snap.Identity.Email)
	}
	if outcome.Source != "" {
		logFields = append(logFields, "source", outcome.Source)
	}
	logger.Debug("fetch complete", logFields...)

	outln(display.RenderSnapshot(cat.DisplayName(providerID), snap, outcome.Source, outcome.Cached, noColor))
	return nil
}
