package claude

import (
	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/provider"
)

// Claude is Anthropic's consumer Claude backend.
type Claude struct {
	httpTimeout float64
}

func New(httpTimeout float64) Claude {
	return Claude{httpTimeout: httpTimeout}
}

func (c Claude) Meta() provider.Metadata {
	return provider.Metadata{
		ID:           "claude",
		Name:         "Claude",
		Description:  "Anthropic's Claude AI assistant",
		Homepage:     "https://claude.ai",
		DashboardURL: "https://claude.ai/settings/usage",
	}
}

func (c Claude) CredentialSources() provider.CredentialInfo {
	return provider.CredentialInfo{
		CLIPaths: []string{"~/.claude/.credentials.json"},
		EnvVars:  []string{"ANTHROPIC_API_KEY"},
	}
}

func (c Claude) Strategies(fc fetch.Context) []fetch.Strategy {
	return []fetch.Strategy{
		&OAuthStrategy{HTTPTimeout: c.httpTimeout},
		&APIKeyStrategy{},
		&CLIStrategy{},
		&WebStrategy{HTTPTimeout: c.httpTimeout},
	}
}
