package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inboxsift/inboxsift/internal/config"
	"github.com/inboxsift/inboxsift/internal/gmail"
	"github.com/inboxsift/inboxsift/internal/google"
	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/logging"
	"github.com/inboxsift/inboxsift/internal/scanner"
	"github.com/inboxsift/inboxsift/internal/store"
)

// ErrNotAuthenticated is returned by one-shot commands when the owner has
// not completed the OAuth flow yet.
var ErrNotAuthenticated = errors.New("no stored credential; run 'inboxsift serve' and complete the OAuth flow at /oauth/login")

// app bundles the dependencies every command boots: settings, logger,
// store, and the Google OAuth application config. metrics is nil until a
// command initializes instrumentation.
type app struct {
	settings *config.Settings
	logger   *slog.Logger
	store    *store.SQLiteStore
	oauth    google.Config
	metrics  *instrumentation.Metrics
}

func newApp() (*app, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.Setup(settings.Logging.Level, settings.Logging.Format)
	slog.SetDefault(logger)

	st, err := store.NewSQLiteStore(settings.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &app{
		settings: settings,
		logger:   logger,
		store:    st,
		oauth: google.Config{
			ClientID:     settings.Google.ClientID,
			ClientSecret: settings.Google.ClientSecret,
			RedirectURL:  settings.Google.RedirectURL,
			Scopes:       settings.Google.Scopes,
		},
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// newMailbox builds a Gmail-backed mailbox for a stored credential.
func (a *app) newMailbox(ctx context.Context, cred google.Credential) (scanner.Mailbox, error) {
	client, err := a.oauth.HTTPClient(ctx, cred)
	if err != nil {
		return nil, err
	}
	mailbox, err := gmail.NewClient(ctx, client)
	if err != nil {
		return nil, err
	}
	if a.metrics != nil {
		mailbox = mailbox.WithMetrics(a.metrics)
	}
	return mailbox, nil
}

// ownerScanner resolves the configured owner's stored credential into a
// ready Scanner for one-shot commands.
func (a *app) ownerScanner(ctx context.Context) (*scanner.Scanner, *store.User, error) {
	user, err := a.store.GetUserByEmail(ctx, a.settings.OwnerEmail)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load owner credential: %w", err)
	}
	if user.AccessToken == "" && user.RefreshToken == "" {
		return nil, nil, ErrNotAuthenticated
	}

	mailbox, err := a.newMailbox(ctx, google.Credential{
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
		TokenURL:     user.TokenURL,
	})
	if err != nil {
		return nil, nil, err
	}

	return scanner.New(mailbox, a.logger), user, nil
}
