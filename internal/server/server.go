package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/inboxsift/inboxsift/internal/config"
	"github.com/inboxsift/inboxsift/internal/google"
	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/scanner"
	"github.com/inboxsift/inboxsift/internal/store"
)

const (
	// DefaultReadHeaderTimeout bounds how long a client may take to send headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultWriteTimeout bounds handler execution; bulk mutations against a
	// large mailbox can take a while.
	DefaultWriteTimeout = 120 * time.Second

	// DefaultIdleTimeout is the keep-alive idle timeout.
	DefaultIdleTimeout = 60 * time.Second
)

// errUnauthenticated marks requests that need a completed OAuth flow.
var errUnauthenticated = errors.New("user not authenticated")

// UserStore is the subset of the persistence layer the server needs.
type UserStore interface {
	UpsertUser(ctx context.Context, u store.User) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	AppendAudit(ctx context.Context, entry store.AuditLog) (*store.AuditLog, error)
	ListAudit(ctx context.Context, userID string, limit int) ([]store.AuditLog, error)
}

// MailboxFactory builds a Mailbox for a user's stored credential. Indirection
// here keeps the handlers testable without a live Gmail backend.
type MailboxFactory func(ctx context.Context, cred google.Credential) (scanner.Mailbox, error)

// Server is the HTTP API for the inbox assistant.
type Server struct {
	settings   *config.Settings
	store      UserStore
	oauth      google.Config
	newMailbox MailboxFactory
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	health     *HealthChecker

	httpServer *http.Server
}

// Options carries the dependencies for New.
type Options struct {
	Settings   *config.Settings
	Store      UserStore
	OAuth      google.Config
	NewMailbox MailboxFactory
	Logger     *slog.Logger
	Metrics    *instrumentation.Metrics
}

// New assembles the API server. Logger and Metrics may be nil; the zero
// values are safe.
func New(opts Options) (*Server, error) {
	if opts.Settings == nil {
		return nil, errors.New("settings are required")
	}
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.NewMailbox == nil {
		return nil, errors.New("mailbox factory is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}

	return &Server{
		settings:   opts.Settings,
		store:      opts.Store,
		oauth:      opts.OAuth,
		newMailbox: opts.NewMailbox,
		logger:     logger,
		metrics:    metrics,
		health:     NewHealthChecker(),
	}, nil
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /scan/summary", s.instrument("/scan/summary", s.handleScanSummary))
	mux.Handle("GET /senders", s.instrument("/senders", s.handleListSenders))
	mux.Handle("GET /senders/{sender_id}", s.instrument("/senders/{sender_id}", s.handleGetSender))
	mux.Handle("POST /plan/generate", s.instrument("/plan/generate", s.handlePlanGenerate))
	mux.Handle("GET /plan/{id}", s.instrument("/plan/{id}", s.handlePlanGet))
	mux.Handle("POST /plan/execute", s.instrument("/plan/execute", s.handlePlanExecute))
	mux.Handle("DELETE /categories/{category}", s.instrument("/categories/{category}", s.handleCategoryWipe))
	mux.Handle("POST /action/undo/{action_id}", s.instrument("/action/undo/{action_id}", s.handleUndoAction))
	mux.Handle("GET /undo/status/{action_id}", s.instrument("/undo/status/{action_id}", s.handleUndoStatus))
	mux.Handle("GET /audit/logs", s.instrument("/audit/logs", s.handleAuditLogs))
	mux.Handle("GET /insights/unsubscribe-candidates", s.instrument("/insights/unsubscribe-candidates", s.handleUnsubscribeCandidates))

	mux.Handle("GET /oauth/login", s.instrument("/oauth/login", s.handleOAuthLogin))
	mux.Handle("GET /oauth/callback", s.instrument("/oauth/callback", s.handleOAuthCallback))
	mux.Handle("GET /oauth/me", s.instrument("/oauth/me", s.handleOAuthMe))

	s.health.RegisterHealthEndpoints(mux)

	return mux
}

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.settings.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	s.logger.Info("starting api server", slog.String("addr", s.settings.Server.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer != nil {
		s.logger.Info("shutting down api server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// ownerScanner resolves the configured owner's stored credential into a
// ready Scanner. Every data route is scoped to this single user.
func (s *Server) ownerScanner(ctx context.Context) (*scanner.Scanner, *store.User, error) {
	user, err := s.store.GetUserByEmail(ctx, s.settings.OwnerEmail)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, errUnauthenticated
	}
	if err != nil {
		return nil, nil, err
	}
	if user.AccessToken == "" && user.RefreshToken == "" {
		return nil, nil, errUnauthenticated
	}

	mailbox, err := s.newMailbox(ctx, google.Credential{
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
		TokenURL:     user.TokenURL,
	})
	if err != nil {
		return nil, nil, err
	}

	return scanner.New(mailbox, s.logger).WithMetrics(s.metrics), user, nil
}
