package antigravity

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/oauth"
)

// StatusCode is the application-level status field in language server
// responses. The server sends it as either an integer or a string depending
// on the endpoint.
type StatusCode struct {
	raw   string
	isInt bool
	num   int64
}

func (c *StatusCode) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		c.isInt = true
		c.num = n
		c.raw = strconv.FormatInt(n, 10)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	c.raw = s
	return nil
}

// IsSuccess reports whether the code means success: integer 0, or one of
// "ok", "success", "0" case-insensitively.
func (c *StatusCode) IsSuccess() bool {
	if c.isInt {
		return c.num == 0
	}
	switch strings.ToLower(c.raw) {
	case "ok", "success", "0":
		return true
	}
	return false
}

func (c *StatusCode) String() string { return c.raw }

// Envelope is the response wrapper for language server RPCs. GetUserStatus
// populates UserStatus; GetClientModelConfigs returns the model list
// directly. A missing code means success.
type Envelope struct {
	Code               *StatusCode   `json:"code,omitempty"`
	UserStatus         *UserStatus   `json:"userStatus,omitempty"`
	ClientModelConfigs []ModelConfig `json:"clientModelConfigs,omitempty"`
}

// UserStatus is the rich status payload from GetUserStatus.
type UserStatus struct {
	Name                   string `json:"name,omitempty"`
	Email                  string `json:"email,omitempty"`
	CascadeModelConfigData struct {
		CascadeConfigList []struct {
			ClientModelConfigs []ModelConfig `json:"clientModelConfigs,omitempty"`
		} `json:"cascadeConfigList,omitempty"`
	} `json:"cascadeModelConfigData,omitempty"`
}

// ModelConfig is one model entry in the server's configuration list.
type ModelConfig struct {
	Label        string `json:"label,omitempty"`
	ModelOrAlias struct {
		Model string `json:"model,omitempty"`
	} `json:"modelOrAlias,omitempty"`
	QuotaInfo *QuotaInfo `json:"quotaInfo,omitempty"`
}

// QuotaInfo carries per-model remaining quota. RemainingFraction is nil when
// the server omits it, which is treated as exhausted.
type QuotaInfo struct {
	RemainingFraction *float64 `json:"remainingFraction,omitempty"`
	ResetTime         string   `json:"resetTime,omitempty"`
}

// ModelQuotas flattens the envelope into the intermediate quota records used
// by window selection, preferring the rich user status list.
func (e *Envelope) ModelQuotas() []ModelQuota {
	var quotas []ModelQuota
	if e.UserStatus != nil {
		for _, cfg := range e.UserStatus.CascadeModelConfigData.CascadeConfigList {
			quotas = append(quotas, modelQuotas(cfg.ClientModelConfigs)...)
		}
	}
	if len(quotas) == 0 {
		quotas = modelQuotas(e.ClientModelConfigs)
	}
	return quotas
}

func modelQuotas(configs []ModelConfig) []ModelQuota {
	var quotas []ModelQuota
	for _, cfg := range configs {
		if cfg.QuotaInfo == nil {
			continue
		}
		quotas = append(quotas, ModelQuota{
			Label:             cfg.Label,
			Model:             cfg.ModelOrAlias.Model,
			RemainingFraction: cfg.QuotaInfo.RemainingFraction,
			ResetTime:         cfg.QuotaInfo.ResetTime,
		})
	}
	return quotas
}

// FetchModelsResponse is the payload from the cloud fetchAvailableModels
// endpoint used by the OAuth fallback strategy.
type FetchModelsResponse struct {
	Models map[string]CloudModelInfo `json:"models,omitempty"`
}

// CloudModelInfo is one model entry from the cloud endpoint.
type CloudModelInfo struct {
	DisplayName string     `json:"displayName,omitempty"`
	QuotaInfo   *QuotaInfo `json:"quotaInfo,omitempty"`
}

// ModelQuotas converts the cloud model map into quota records. Models
// without quota tracking (tab completion, internal) are skipped.
func (r *FetchModelsResponse) ModelQuotas() []ModelQuota {
	var quotas []ModelQuota
	for modelID, info := range r.Models {
		if info.QuotaInfo == nil || info.QuotaInfo.ResetTime == "" {
			continue
		}
		label := info.DisplayName
		if label == "" {
			label = strings.ReplaceAll(strings.ReplaceAll(modelID, "-", " "), "_", " ")
		}
		quotas = append(quotas, ModelQuota{
			Label:             label,
			Model:             modelID,
			RemainingFraction: info.QuotaInfo.RemainingFraction,
			ResetTime:         info.QuotaInfo.ResetTime,
		})
	}
	return quotas
}

// VscdbAuthStatus is the JSON blob Antigravity stores under the
// "antigravityAuthStatus" key in its VS Code state database. The apiKey
// field holds a Google OAuth access token.
type VscdbAuthStatus struct {
	APIKey                      string `json:"apiKey,omitempty"`
	Email                       string `json:"email,omitempty"`
	UserStatusProtoBinaryBase64 string `json:"userStatusProtoBinaryBase64,omitempty"`
}

// IDECredentials is the credential file format written by the Antigravity
// IDE, which follows the Google OAuth pattern used by Gemini CLI.
type IDECredentials struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    string `json:"expires_at,omitempty"`
	ExpiryDate   any    `json:"expiry_date,omitempty"` // float64 ms or string
	Token        string `json:"token,omitempty"`
}

// ToCredentials converts the IDE credential format to the canonical one.
func (c *IDECredentials) ToCredentials() *oauth.Credentials {
	accessToken := c.AccessToken
	if accessToken == "" {
		accessToken = c.Token
	}
	if accessToken == "" {
		return nil
	}
	creds := &oauth.Credentials{
		AccessToken:  accessToken,
		RefreshToken: c.RefreshToken,
		ExpiresAt:    c.ExpiresAt,
	}
	if creds.ExpiresAt == "" {
		creds.ExpiresAt = parseExpiryDate(c.ExpiryDate)
	}
	return creds
}

func parseExpiryDate(v any) string {
	switch val := v.(type) {
	case float64:
		if val > 0 {
			return time.UnixMilli(int64(val)).UTC().Format(time.RFC3339)
		}
	case string:
		return val
	}
	return ""
}
