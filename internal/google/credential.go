package google

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTokenURL is Google's OAuth2 token endpoint, used to refresh
// credentials that don't carry an explicit endpoint.
const DefaultTokenURL = "https://oauth2.googleapis.com/token"

// Credential is one user's stored OAuth2 grant as persisted after the web
// flow. The access token may be long expired; the refresh token is what
// keeps the credential usable.
type Credential struct {
	AccessToken  string
	RefreshToken string
	TokenURL     string
}

// TokenSource wraps a stored credential in a self-refreshing token source.
// The expiry is backdated so the first use always refreshes, which both
// validates the refresh token and avoids trusting a stale access token.
func (c Config) TokenSource(ctx context.Context, cred Credential) (oauth2.TokenSource, error) {
	if cred.RefreshToken == "" && cred.AccessToken == "" {
		return nil, errors.New("credential has no tokens")
	}

	conf := c.oauth2Config()
	if cred.TokenURL != "" {
		conf.Endpoint.TokenURL = cred.TokenURL
	} else {
		conf.Endpoint.TokenURL = DefaultTokenURL
	}

	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: cred.RefreshToken,
	}
	if cred.RefreshToken != "" {
		token.Expiry = time.Unix(1, 0)
	}

	return conf.TokenSource(ctx, token), nil
}

// HTTPClient returns an HTTP client that authenticates requests with the
// credential. The client is pinned to HTTP/1.1 to avoid HTTP/2 protocol
// errors seen against some Google API frontends.
func (c Config) HTTPClient(ctx context.Context, cred Credential) (*http.Client, error) {
	ts, err := c.TokenSource(ctx, cred)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			ForceAttemptHTTP2: false,
		}
	}
	return client, nil
}
