package httpclient

import (
	"crypto/tls"
	"net/http"
	"time"
)

// NewInsecureLoopback creates a Client for talking to a local service that
// serves a self-signed certificate on 127.0.0.1. Certificate verification is
// skipped and connections are not reused: each call gets a fresh session and
// releases it on return.
//
// Only ever point this client at loopback addresses.
func NewInsecureLoopback(timeout time.Duration) *Client {
	transport := &http.Transport{
		TLSClientConfig:   &tls.Config{InsecureSkipVerify: true},
		DisableKeepAlives: true,
	}
	return &Client{http: &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}}
}
