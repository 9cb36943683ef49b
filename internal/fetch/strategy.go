package fetch

import (
	"context"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/models"
)

// Kind tags a strategy with its acquisition method. The pipeline filters on
// kind when a source mode is forced.
type Kind string

const (
	KindCLI        Kind = "cli"
	KindWeb        Kind = "web"
	KindOAuth      Kind = "oauth"
	KindAPIKey     Kind = "api"
	KindLocalProbe Kind = "local"
)

// Strategy is one acquisition method for a provider. Implementations are
// stateless or hold only static configuration and are safe to share across
// concurrent fetches.
type Strategy interface {
	Kind() Kind
	Name() string
	IsAvailable(fc Context) bool
	Fetch(ctx context.Context, fc Context) FetchResult
}

// FetchResult is the outcome of a single strategy attempt. The strategy owns
// the fallback decision for its own errors: ResultFail permits trying the
// next strategy, ResultFatal stops the pipeline.
type FetchResult struct {
	Snapshot       *models.UsageSnapshot
	SourceLabel    string
	Err            *Error
	ShouldFallback bool
}

func (r FetchResult) Success() bool { return r.Err == nil && r.Snapshot != nil }

func ResultOK(snapshot models.UsageSnapshot, sourceLabel string) FetchResult {
	return FetchResult{Snapshot: &snapshot, SourceLabel: sourceLabel}
}

func ResultFail(err *Error) FetchResult {
	return FetchResult{Err: err, ShouldFallback: true}
}

func ResultFatal(err *Error) FetchResult {
	return FetchResult{Err: err, ShouldFallback: false}
}

// Attempt records one strategy considered by the pipeline, in iteration
// order. An unavailable strategy has Available=false and no error; an
// attempted failure carries the error.
type Attempt struct {
	Strategy  string `json:"strategy"`
	Kind      Kind   `json:"kind"`
	Available bool   `json:"available"`
	Err       *Error `json:"error,omitempty"`
}

// Outcome is the complete result of one fetch invocation: either a snapshot
// with its source label, or a terminal error, always with the full ordered
// attempt trail. A success can still carry earlier failed attempts.
type Outcome struct {
	ProviderID string                `json:"provider_id"`
	Success    bool                  `json:"success"`
	Snapshot   *models.UsageSnapshot `json:"snapshot,omitempty"`
	Source     string                `json:"source,omitempty"`
	Err        *Error                `json:"error,omitempty"`
	Attempts   []Attempt             `json:"attempts"`
	Cached     bool                  `json:"cached"`
}

// Cache abstracts snapshot persistence so the pipeline doesn't depend on the
// filesystem directly. The store layer implements it.
type Cache interface {
	Save(snapshot models.UsageSnapshot) error
	Load(providerID string) *models.UsageSnapshot
}

// PipelineConfig holds the parameters one pipeline run needs.
type PipelineConfig struct {
	Timeout time.Duration
	Cache   Cache
}

// OrchestratorConfig holds parameters for multi-provider fetches.
type OrchestratorConfig struct {
	MaxConcurrent int
	Pipeline      PipelineConfig
}
