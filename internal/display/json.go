package display

import (
	"encoding/json"
	"io"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/models"
)

// OutputJSON writes pretty-printed JSON to the given writer.
func OutputJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

type snapshotJSON struct {
	Provider string              `json:"provider"`
	Source   string              `json:"source,omitempty"`
	Cached   bool                `json:"cached,omitempty"`
	Identity *models.Identity    `json:"identity,omitempty"`
	Windows  []models.RateWindow `json:"windows"`
	Attempts []fetch.Attempt     `json:"attempts,omitempty"`
}

type outcomeErrorJSON struct {
	Error    *fetch.Error    `json:"error"`
	Provider string          `json:"provider"`
	Attempts []fetch.Attempt `json:"attempts,omitempty"`
}

type multiProviderJSON struct {
	Providers map[string]snapshotJSON     `json:"providers"`
	Errors    map[string]outcomeErrorJSON `json:"errors,omitempty"`
	FetchedAt string                      `json:"fetched_at"`
}

// OutcomeToJSON converts a fetch outcome to a JSON-serializable value,
// keeping the attempt trail in both the success and failure shapes.
func OutcomeToJSON(outcome fetch.Outcome) any {
	if !outcome.Success || outcome.Snapshot == nil {
		return outcomeErrorJSON{
			Error:    outcome.Err,
			Provider: outcome.ProviderID,
			Attempts: outcome.Attempts,
		}
	}
	return buildSnapshotJSON(outcome)
}

func buildSnapshotJSON(outcome fetch.Outcome) snapshotJSON {
	snap := outcome.Snapshot
	return snapshotJSON{
		Provider: snap.Provider,
		Source:   outcome.Source,
		Cached:   outcome.Cached,
		Identity: snap.Identity,
		Windows:  snap.Windows,
		Attempts: outcome.Attempts,
	}
}

// OutputMultiProviderJSON outputs all outcomes as one JSON document.
func OutputMultiProviderJSON(w io.Writer, outcomes map[string]fetch.Outcome) error {
	data := multiProviderJSON{
		Providers: make(map[string]snapshotJSON),
		Errors:    make(map[string]outcomeErrorJSON),
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for pid, outcome := range outcomes {
		if outcome.Success && outcome.Snapshot != nil {
			data.Providers[pid] = buildSnapshotJSON(outcome)
		} else {
			data.Errors[pid] = outcomeErrorJSON{
				Error:    outcome.Err,
				Provider: pid,
				Attempts: outcome.Attempts,
			}
		}
	}

	return OutputJSON(w, data)
}
