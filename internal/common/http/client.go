// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// CredentialSource yields the bearer token attached to outbound requests.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	httpClient  *http.Client
	credentials CredentialSource
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithBearer returns a copy of c that authenticates every JSON request with src.
func (c *Client) WithBearer(src CredentialSource) *Client {
	return &Client{httpClient: c.httpClient, credentials: src}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}

// PostJSON sends body to url as application/json.
func (c *Client) PostJSON(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.credentials != nil {
		token, err := c.credentials.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("obtain credential: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.httpClient.Do(req)
}

// IsTransientStatus reports whether a response status is worth retrying later.
func IsTransientStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
