package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProviderCLIPaths maps provider IDs to external CLI credential file paths
// that can be reused when vibequota has no credential of its own.
var ProviderCLIPaths = map[string][]string{
	"claude":      {"~/.claude/.credentials.json"},
	"codex":       {"~/.codex/auth.json"},
	"cursor":      {},
	"antigravity": {"~/.config/Antigravity/credentials.json"},
}

// ProviderEnvVars maps provider IDs to their API-key environment variables.
var ProviderEnvVars = map[string]string{
	"claude":      "ANTHROPIC_API_KEY",
	"codex":       "OPENAI_API_KEY",
	"cursor":      "CURSOR_API_KEY",
	"antigravity": "ANTIGRAVITY_API_KEY",
}

func CredentialPath(providerID, credType string) string {
	return filepath.Join(CredentialsDir(), providerID, credType+".json")
}

// CredentialSearchPaths returns vibequota's own credential path for the
// provider followed by any external fallback paths.
func CredentialSearchPaths(providerID, credType string, extra ...string) []string {
	paths := []string{CredentialPath(providerID, credType)}
	for _, raw := range ProviderCLIPaths[providerID] {
		paths = append(paths, ExpandPath(raw))
	}
	paths = append(paths, extra...)
	return paths
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(p string) string {
	if len(p) > 1 && p[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

func WriteCredential(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("writing credential: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o600); err != nil {
		return fmt.Errorf("writing credential: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing credential: %w", err)
	}
	return nil
}

// ReadCredential reads a credential file, returning (nil, nil) when the file
// does not exist.
func ReadCredential(path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return os.ReadFile(path)
}
