package fetch

// Origin identifies where a fetch was initiated from.
type Origin string

const (
	OriginApp Origin = "app"
	OriginCLI Origin = "cli"
)

// SourceMode restricts which strategy kinds the pipeline may attempt.
// ModeAuto keeps every configured strategy; a forced mode keeps only the
// matching kind. The local-probe kind has no forced mode and therefore only
// runs under ModeAuto.
type SourceMode string

const (
	ModeAuto  SourceMode = "auto"
	ModeCLI   SourceMode = "cli"
	ModeWeb   SourceMode = "web"
	ModeOAuth SourceMode = "oauth"
	ModeAPI   SourceMode = "api"
)

// Allows reports whether a strategy of the given kind may be attempted
// under this mode.
func (m SourceMode) Allows(k Kind) bool {
	switch m {
	case ModeAuto, "":
		return true
	case ModeCLI:
		return k == KindCLI
	case ModeWeb:
		return k == KindWeb
	case ModeOAuth:
		return k == KindOAuth
	case ModeAPI:
		return k == KindAPIKey
	default:
		return false
	}
}

// Settings is the slice of user settings the fetch core consumes. It is an
// opaque snapshot from the settings layer, read-only.
type Settings struct {
	CookieSource string
	APIToken     string
	Custom       map[string]string
}

// Account identifies an already-selected account. Selection policy lives
// outside the core.
type Account struct {
	ID    string
	Email string
}

// BrowserInfo is detection output from the browser/cookie layer.
type BrowserInfo struct {
	Name    string
	Profile string
}

// Context carries everything one fetch invocation needs. It is constructed
// once per call and never mutated; strategies read from it only.
type Context struct {
	Origin   Origin
	Mode     SourceMode
	Env      map[string]string
	Settings *Settings
	Account  *Account
	Browser  *BrowserInfo
}

// Getenv looks up a variable in the context's environment mapping.
func (c Context) Getenv(key string) string {
	return c.Env[key]
}

// CustomSetting returns a free-form setting value, or "" when settings are
// absent.
func (c Context) CustomSetting(key string) string {
	if c.Settings == nil {
		return ""
	}
	return c.Settings.Custom[key]
}
