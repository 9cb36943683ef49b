package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/config"
	"github.com/joshuadavidthomas/vibequota/internal/testenv"
)

func TestNeedsRefresh(t *testing.T) {
	future := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	past := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	soon := time.Now().UTC().Add(time.Minute).Format(time.RFC3339)

	tests := []struct {
		name      string
		expiresAt string
		want      bool
	}{
		{"empty means non-expiring", "", false},
		{"future", future, false},
		{"past", past, true},
		{"within buffer", soon, true},
		{"unparseable", "tomorrow", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Credentials{AccessToken: "at", ExpiresAt: tt.expiresAt}
			if got := c.NeedsRefresh(); got != tt.want {
				t.Errorf("NeedsRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	testenv.ApplyVibequota(t.Setenv, t.TempDir())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("grant_type") != "refresh_token" || r.PostForm.Get("refresh_token") != "rt" {
			t.Errorf("form = %v", r.PostForm)
		}
		if r.PostForm.Get("client_id") != "cid" {
			t.Errorf("client_id = %q", r.PostForm.Get("client_id"))
		}
		w.Write([]byte(`{"access_token": "new-at", "expires_in": 3600}`))
	}))
	defer ts.Close()

	creds := Refresh(context.Background(), "rt", RefreshConfig{
		TokenURL:   ts.URL,
		FormFields: map[string]string{"client_id": "cid"},
		ProviderID: "claude",
	})
	if creds == nil {
		t.Fatal("got nil credentials")
	}
	if creds.AccessToken != "new-at" {
		t.Errorf("access token = %q", creds.AccessToken)
	}
	// Old refresh token preserved when the server doesn't rotate it.
	if creds.RefreshToken != "rt" {
		t.Errorf("refresh token = %q", creds.RefreshToken)
	}
	if creds.ExpiresAt == "" {
		t.Error("expiry should be set from expires_in")
	}

	// Refreshed credentials are persisted.
	data, err := config.ReadCredential(config.CredentialPath("claude", "oauth"))
	if err != nil || data == nil {
		t.Fatalf("saved credentials missing: %v", err)
	}
}

func TestRefreshFailures(t *testing.T) {
	testenv.ApplyVibequota(t.Setenv, t.TempDir())

	if Refresh(context.Background(), "", RefreshConfig{TokenURL: "http://127.0.0.1:1"}) != nil {
		t.Error("empty refresh token should not attempt a refresh")
	}

	denied := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer denied.Close()
	if Refresh(context.Background(), "rt", RefreshConfig{TokenURL: denied.URL}) != nil {
		t.Error("non-200 should return nil")
	}

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer empty.Close()
	if Refresh(context.Background(), "rt", RefreshConfig{TokenURL: empty.URL}) != nil {
		t.Error("response without access_token should return nil")
	}
}
