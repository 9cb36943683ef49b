package antigravity

import (
	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/provider"
)

const (
	// OAuth client credentials from the Antigravity IDE.
	antigravityClientID     = "1071006060591-tmhssin2h21lcre235vtolojh4g403ep.apps.googleusercontent.com"
	antigravityClientSecret = "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"

	googleTokenURL       = "https://oauth2.googleapis.com/token"
	fetchModelsURL       = "https://cloudcode-pa.googleapis.com/v1internal:fetchAvailableModels"
	antigravityUserAgent = "antigravity"
)

// Antigravity is the Google Antigravity AI IDE. Usage comes from the IDE's
// local language server when it is running, with a Google OAuth fallback.
type Antigravity struct {
	httpTimeout float64
}

func New(httpTimeout float64) Antigravity {
	return Antigravity{httpTimeout: httpTimeout}
}

func (a Antigravity) Meta() provider.Metadata {
	return provider.Metadata{
		ID:           "antigravity",
		Name:         "Antigravity",
		Description:  "Google Antigravity AI IDE",
		Homepage:     "https://antigravity.google",
		DashboardURL: "https://one.google.com/ai",
	}
}

func (a Antigravity) CredentialSources() provider.CredentialInfo {
	return provider.CredentialInfo{
		CLIPaths: []string{"~/.config/Antigravity/credentials.json"},
		EnvVars:  []string{"ANTIGRAVITY_API_KEY"},
	}
}

func (a Antigravity) Strategies(fc fetch.Context) []fetch.Strategy {
	return []fetch.Strategy{
		&ProbeStrategy{HTTPTimeout: a.httpTimeout},
		&OAuthStrategy{HTTPTimeout: a.httpTimeout},
	}
}
