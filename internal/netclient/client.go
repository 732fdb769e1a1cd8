// Package netclient provides the HTTP client used for portal probes. It never
// follows redirects so that a portal's 3xx response reaches the classifier
// intact.
package netclient

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/kazu728/reauthfi/internal/errors"
)

// MaxConnectTimeout caps the dial phase of every probe.
const MaxConnectTimeout = 2 * time.Second

// userAgent is sent with every probe. Some portals only intercept
// browser-looking requests.
const userAgent = "Mozilla/5.0 (compatible; reauthfi)"

// NetworkClient issues a single GET and returns the raw response.
type NetworkClient interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Client is the real NetworkClient.
type Client struct {
	http *http.Client
}

// New builds a Client whose requests time out after timeout and whose
// connections must be established within min(timeout, MaxConnectTimeout).
func New(timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		return nil, errors.NewSetupError("timeout must be positive", nil).WithComponent("netclient")
	}

	dialer := &net.Dialer{
		Timeout:   min(timeout, MaxConnectTimeout),
		KeepAlive: -1,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		DisableKeepAlives:     true,
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// Get performs an unauthenticated GET. The caller closes the body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	return c.http.Do(req)
}

// Close releases idle connections held by the transport.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
