package provider

import (
	"github.com/joshuadavidthomas/vibequota/internal/fetch"
)

// Metadata is immutable display information for a provider.
type Metadata struct {
	ID           string
	Name         string
	Description  string
	Homepage     string
	DashboardURL string
}

// CredentialInfo describes where a provider's credentials can be found
// outside of vibequota's own storage.
type CredentialInfo struct {
	// CLIPaths are external CLI credential file paths (e.g. ~/.claude/.credentials.json).
	CLIPaths []string
	// EnvVars are environment variable names (e.g. ANTHROPIC_API_KEY).
	EnvVars []string
}

// Provider is one supported backend. Strategies builds the ordered
// acquisition chain for a fetch; the list may depend on the fetch context
// (settings, account) and is rebuilt per call.
type Provider interface {
	Meta() Metadata
	CredentialSources() CredentialInfo
	Strategies(fc fetch.Context) []fetch.Strategy
}
