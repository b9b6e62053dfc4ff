package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/inboxsift/inboxsift/internal/google"
	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/logging"
	"github.com/inboxsift/inboxsift/internal/store"
)

// stateCookie carries the OAuth state between login and callback.
const stateCookie = "inboxsift_oauth_state"

// userInfo is the wire shape of GET /oauth/me. Tokens never leave the store.
type userInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// handleOAuthLogin starts the Google authorization-code flow. The random
// state round-trips through a short-lived cookie.
func (s *Server) handleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/oauth",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, s.oauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// handleOAuthCallback finishes the flow: verifies state, exchanges the
// code, asks Google who the tokens belong to, and stores the credential.
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		s.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		s.writeErrorStatus(w, http.StatusBadRequest, "state mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		s.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		s.writeErrorStatus(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		s.logger.Error("oauth code exchange failed",
			logging.Operation("server.oauth_callback"),
			logging.Err(err))
		s.writeErrorStatus(w, http.StatusBadGateway, "code exchange failed")
		return
	}

	// The access token is fresh from the exchange; omitting the refresh
	// token avoids an immediate refresh round-trip.
	client, err := s.oauth.HTTPClient(ctx, google.Credential{AccessToken: token.AccessToken})
	if err != nil {
		s.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		s.writeError(w, err)
		return
	}

	info, err := google.FetchUserInfo(ctx, client)
	if err != nil {
		s.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		s.logger.Error("oauth user info fetch failed",
			logging.Operation("server.oauth_callback"),
			logging.Err(err))
		s.writeErrorStatus(w, http.StatusBadGateway, "user info fetch failed")
		return
	}

	user, err := s.store.UpsertUser(ctx, store.User{
		Email:        info.Email,
		Name:         info.Name,
		Picture:      info.Picture,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenURL:     google.DefaultTokenURL,
	})
	if err != nil {
		s.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		s.writeError(w, err)
		return
	}

	s.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
	s.logger.Info("user authorized",
		logging.Operation("server.oauth_callback"),
		logging.Sender(user.Email))

	s.writeJSON(w, http.StatusOK, userInfo{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
	})
}

// handleOAuthMe reports the stored identity of the configured owner.
func (s *Server) handleOAuthMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByEmail(r.Context(), s.settings.OwnerEmail)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, errUnauthenticated)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, userInfo{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
	})
}
