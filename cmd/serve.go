package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/logging"
	"github.com/inboxsift/inboxsift/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr        string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server for the inbox assistant.

The server exposes the scan summary, sender aggregation, cleanup plan
generation and execution, category wipes, the audit log, and the Google
OAuth flow that stores the owner's credential. Prometheus metrics are
served on a separate port.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "API listen address (overrides config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics listen address (overrides config)")

	return cmd
}

func runServe(addr, metricsAddr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	if addr != "" {
		application.settings.Server.Addr = addr
	}
	if metricsAddr != "" {
		application.settings.Server.MetricsAddr = metricsAddr
	}

	instrConfig := instrumentation.DefaultConfig()
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("initialize instrumentation: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			application.logger.Error("instrumentation shutdown failed", "error", err)
		}
	}()
	application.metrics = provider.Metrics()

	apiServer, err := server.New(server.Options{
		Settings:   application.settings,
		Store:      application.store,
		OAuth:      application.oauth,
		NewMailbox: application.newMailbox,
		Logger:     application.logger,
		Metrics:    provider.Metrics(),
	})
	if err != nil {
		return fmt.Errorf("build api server: %w", err)
	}

	errCh := make(chan error, 2)

	var metricsServer *server.MetricsServer
	if provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(application.settings.Server.MetricsAddr, provider,
			logging.WithOperation(application.logger, "server.metrics"))
		if err != nil {
			return fmt.Errorf("build metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	go func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		application.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer shutdownCancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			application.logger.Error("metrics server shutdown failed", "error", err)
		}
	}
	return apiServer.Shutdown(shutdownCtx)
}
