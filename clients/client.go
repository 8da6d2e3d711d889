// Package clients talks to the hosted backend. The base Client wraps
// the transport and attaches the credentials every call needs: the
// static anon API key on all requests and, when the session holds one,
// the bearer token. The typed operations live in the subpackages.
package clients

import (
	"fmt"
	"net/http"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// TokenSource reports the current bearer token, if any. The session
// store satisfies it.
type TokenSource interface {
	AccessToken() (string, bool)
}

// StaticToken is a TokenSource holding a fixed token. Empty means no
// token.
type StaticToken string

func (t StaticToken) AccessToken() (string, bool) {
	return string(t), t != ""
}

type Client struct {
	apiKey string
	tokens TokenSource
	client HTTPClient
}

func NewClient(c HTTPClient, apiKey string, tokens TokenSource) *Client {
	if c == nil {
		c = http.DefaultClient
	}

	return &Client{
		apiKey: apiKey,
		tokens: tokens,
		client: c,
	}
}

// Do completes the request headers and performs a single round trip.
// No retry, no coalescing: transient failures are the caller's problem.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("apikey", c.apiKey)
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if req.Header.Get("Authorization") == "" && c.tokens != nil {
		if token, ok := c.tokens.AccessToken(); ok {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}

	return c.client.Do(req)
}
