package antigravity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/fetch"
)

func serverPort(t *testing.T, ts *httptest.Server) int {
	t.Helper()
	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return port
}

func testRPCClient() *rpcClient {
	return newRPCClient("test-token", 0, 5*time.Second)
}

func TestRPCClientHeaders(t *testing.T) {
	var gotCSRF, gotProto string
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCSRF = r.Header.Get("X-Csrf-Token")
		gotProto = r.Header.Get("Connect-Protocol-Version")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"clientModelConfigs": []}`))
	}))
	defer ts.Close()

	client := testRPCClient()
	_, ferr := client.callEnvelope(context.Background(), serverPort(t, ts), rpcModelConfigs)
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if gotCSRF != "test-token" {
		t.Errorf("X-Csrf-Token = %q, want %q", gotCSRF, "test-token")
	}
	if gotProto != "1" {
		t.Errorf("Connect-Protocol-Version = %q, want %q", gotProto, "1")
	}
}

func TestFindWorkingPort(t *testing.T) {
	bad := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	good := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != rpcModelConfigs {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"clientModelConfigs": []}`))
	}))
	defer good.Close()

	client := testRPCClient()
	wantPort := serverPort(t, good)
	port, ferr := client.findWorkingPort(context.Background(), []int{serverPort(t, bad), wantPort})
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if port != wantPort {
		t.Errorf("port = %d, want %d", port, wantPort)
	}
}

func TestFindWorkingPortSkipsMalformed(t *testing.T) {
	garbage := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer garbage.Close()

	client := testRPCClient()
	_, ferr := client.findWorkingPort(context.Background(), []int{serverPort(t, garbage)})
	if ferr == nil {
		t.Fatal("expected error")
	}
	if ferr.Kind != fetch.ErrPortDetection {
		t.Errorf("kind = %q, want %q", ferr.Kind, fetch.ErrPortDetection)
	}
}

func TestFindWorkingPortNoCandidates(t *testing.T) {
	client := testRPCClient()
	_, ferr := client.findWorkingPort(context.Background(), nil)
	if ferr == nil || ferr.Kind != fetch.ErrPortDetection {
		t.Errorf("got %v, want port detection error", ferr)
	}
}

func TestFetchStatus(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != rpcUserStatus {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"userStatus": {"email": "me@example.com"}}`))
	}))
	defer ts.Close()

	client := testRPCClient()
	env, ferr := client.fetchStatus(context.Background(), serverPort(t, ts))
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if env.UserStatus == nil || env.UserStatus.Email != "me@example.com" {
		t.Errorf("env = %+v, want user status payload", env)
	}
}

func TestFetchStatusFallsBackToModelConfigs(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case rpcUserStatus:
			w.WriteHeader(http.StatusInternalServerError)
		case rpcModelConfigs:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"clientModelConfigs": [{"label": "Claude Sonnet 4.5", "quotaInfo": {"remainingFraction": 0.5}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client := testRPCClient()
	env, ferr := client.fetchStatus(context.Background(), serverPort(t, ts))
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	quotas := env.ModelQuotas()
	if len(quotas) != 1 || quotas[0].Label != "Claude Sonnet 4.5" {
		t.Errorf("quotas = %+v, want the fallback config list", quotas)
	}
}

func TestFetchStatusBothFailReportsPrimary(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case rpcUserStatus:
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer ts.Close()

	client := testRPCClient()
	_, ferr := client.fetchStatus(context.Background(), serverPort(t, ts))
	if ferr == nil {
		t.Fatal("expected error")
	}
	if ferr.Kind != fetch.ErrAPI {
		t.Errorf("kind = %q, want %q", ferr.Kind, fetch.ErrAPI)
	}
	if want := "HTTP 401"; !strings.Contains(ferr.Message, want) {
		t.Errorf("message = %q, want the GetUserStatus failure (%s)", ferr.Message, want)
	}
}

func TestCallEnvelopeApplicationCode(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code": "PERMISSION_DENIED"}`))
	}))
	defer ts.Close()

	client := testRPCClient()
	_, ferr := client.callEnvelope(context.Background(), serverPort(t, ts), rpcUserStatus)
	if ferr == nil {
		t.Fatal("expected error")
	}
	if ferr.Kind != fetch.ErrAPI || ferr.Message != "PERMISSION_DENIED" {
		t.Errorf("got %q/%q, want api_error with the server's code", ferr.Kind, ferr.Message)
	}
}

func TestCallEnvelopeNetworkError(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	port := serverPort(t, ts)
	ts.Close()

	client := testRPCClient()
	_, ferr := client.callEnvelope(context.Background(), port, rpcUserStatus)
	if ferr == nil || ferr.Kind != fetch.ErrNetwork {
		t.Errorf("got %v, want network error against a closed port", ferr)
	}
}
