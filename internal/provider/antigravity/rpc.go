package antigravity

import (
	"context"
	"fmt"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/httpclient"
)

const (
	rpcServicePath  = "/exa.language_server_pb.LanguageServerService/"
	rpcUserStatus   = rpcServicePath + "GetUserStatus"
	rpcModelConfigs = rpcServicePath + "GetClientModelConfigs"
)

// rpcRequest is the metadata block every language server RPC requires.
type rpcRequest struct {
	Metadata rpcMetadata `json:"metadata"`
}

type rpcMetadata struct {
	IDEName       string `json:"ideName"`
	IDEVersion    string `json:"ideVersion"`
	ExtensionName string `json:"extensionName"`
	Locale        string `json:"locale"`
}

func newRPCRequest() rpcRequest {
	return rpcRequest{Metadata: rpcMetadata{
		IDEName:       "antigravity",
		IDEVersion:    "1.0.0",
		ExtensionName: "antigravity",
		Locale:        "en",
	}}
}

// rpcClient talks to the language server over loopback. The server uses a
// self-signed certificate, so each call goes through the insecure loopback
// client; some builds serve plain HTTP, handled by the per-call retry.
type rpcClient struct {
	secure      *httpclient.Client
	plain       *httpclient.Client
	host        string
	csrfToken   string
	commandPort int
}

func newRPCClient(csrfToken string, commandPort int, timeout time.Duration) *rpcClient {
	return &rpcClient{
		secure:      httpclient.NewInsecureLoopback(timeout),
		plain:       httpclient.NewWithTimeout(timeout),
		host:        "127.0.0.1",
		csrfToken:   csrfToken,
		commandPort: commandPort,
	}
}

func (c *rpcClient) headers() []httpclient.RequestOption {
	return []httpclient.RequestOption{
		httpclient.WithHeader("Connect-Protocol-Version", "1"),
		httpclient.WithHeader("X-Csrf-Token", c.csrfToken),
	}
}

// call posts one RPC to the given port. When the secure transport fails at
// the network level and the command line carried a distinct port flag, the
// same port is retried over plain HTTP.
func (c *rpcClient) call(ctx context.Context, port int, path string, out any) (*httpclient.Response, error) {
	body := newRPCRequest()
	resp, err := c.secure.PostJSONCtx(ctx,
		fmt.Sprintf("https://%s:%d%s", c.host, port, path), body, out, c.headers()...)
	if err != nil && c.commandPort != 0 && c.commandPort != port {
		resp, err = c.plain.PostJSONCtx(ctx,
			fmt.Sprintf("http://%s:%d%s", c.host, port, path), body, out, c.headers()...)
	}
	return resp, err
}

// findWorkingPort probes candidate ports ascending with a minimal
// authenticated request and returns the first that answers with a
// well-formed response.
func (c *rpcClient) findWorkingPort(ctx context.Context, ports []int) (int, *fetch.Error) {
	for _, port := range ports {
		var env Envelope
		resp, err := c.call(ctx, port, rpcModelConfigs, &env)
		if err != nil || resp.StatusCode != 200 || resp.JSONErr != nil {
			continue
		}
		return port, nil
	}
	return 0, fetch.Errorf(fetch.ErrPortDetection, "no working API port found")
}

// fetchStatus issues the rich GetUserStatus RPC, falling back to
// GetClientModelConfigs for reduced but still-useful data when it fails.
func (c *rpcClient) fetchStatus(ctx context.Context, port int) (*Envelope, *fetch.Error) {
	env, ferr := c.callEnvelope(ctx, port, rpcUserStatus)
	if ferr == nil {
		return env, nil
	}

	env, fallbackErr := c.callEnvelope(ctx, port, rpcModelConfigs)
	if fallbackErr != nil {
		return nil, ferr
	}
	return env, nil
}

func (c *rpcClient) callEnvelope(ctx context.Context, port int, path string) (*Envelope, *fetch.Error) {
	var env Envelope
	resp, err := c.call(ctx, port, path, &env)
	if err != nil {
		return nil, fetch.Errorf(fetch.ErrNetwork, fmt.Sprintf("request to %s failed: %v", path, err))
	}
	if resp.StatusCode != 200 {
		return nil, fetch.Errorf(fetch.ErrAPI, fmt.Sprintf("%s returned HTTP %d", path, resp.StatusCode))
	}
	if resp.JSONErr != nil {
		return nil, fetch.Errorf(fetch.ErrParse, fmt.Sprintf("invalid response from %s: %v", path, resp.JSONErr))
	}
	if env.Code != nil && !env.Code.IsSuccess() {
		return nil, fetch.Errorf(fetch.ErrAPI, env.Code.String())
	}
	return &env, nil
}
