package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// userInfoURL is a var so tests can point it at a local server.
var userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// UserInfo is the identity reported by Google for an authenticated user.
type UserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// FetchUserInfo asks Google who the authenticated client belongs to. The
// client must already carry OAuth credentials, e.g. from Config.HTTPClient.
func FetchUserInfo(ctx context.Context, client *http.Client) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch user info: unexpected status %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("user info response missing email")
	}
	return &info, nil
}
