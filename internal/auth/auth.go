// Package auth provides OAuth2 client-credentials authentication for the
// Proofpoint ITM tenant API.
package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Credentials holds the OAuth2 client credentials issued for an ITM tenant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Scope        string
	TokenURL     string
}

// Valid reports whether credentials are configured.
func (c *Credentials) Valid() bool {
	return c != nil && c.ClientID != "" && c.ClientSecret != ""
}

// TokenSource returns a self-refreshing token source for the tenant token
// endpoint. Token requests are sent through base so that its timeout and
// transport settings apply.
func (c *Credentials) TokenSource(ctx context.Context, base *http.Client) oauth2.TokenSource {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	return c.config().TokenSource(ctx)
}

// NewClient wraps base with a transport that injects a Bearer token from
// source into every request. The base client's timeout is preserved.
func NewClient(base *http.Client, source oauth2.TokenSource) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: source,
			Base:   base.Transport,
		},
		Timeout: base.Timeout,
	}
}

func (c *Credentials) config() *clientcredentials.Config {
	cfg := &clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
		// The token endpoint expects credentials in the form body, not
		// in a Basic auth header.
		AuthStyle: oauth2.AuthStyleInParams,
	}
	if c.Scope != "" {
		cfg.Scopes = []string{c.Scope}
	}
	return cfg
}
