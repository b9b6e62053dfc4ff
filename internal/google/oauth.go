package google

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Config carries the OAuth2 application settings used for both the web
// authorization flow and credential refresh.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

func (c Config) oauth2Config() *oauth2.Config {
	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = DefaultOAuthScopes
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  c.RedirectURL,
		Scopes:       scopes,
	}
}

// AuthCodeURL returns the consent page URL to send the user to. Offline
// access with a forced consent prompt guarantees a refresh token on every
// grant, not just the first one.
func (c Config) AuthCodeURL(state string) string {
	return c.oauth2Config().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code from the callback for tokens.
func (c Config) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return c.oauth2Config().Exchange(ctx, code)
}
