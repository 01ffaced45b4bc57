package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-auth-frontend/authclient"
	"github.com/jrsteele09/go-auth-frontend/internal/config"
	"github.com/jrsteele09/go-auth-frontend/internal/metrics"
	"github.com/jrsteele09/go-auth-frontend/server"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the login, forgot-password and landing pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) (returnError error) {
	displayAppname(cfg.GetAppName())

	provider, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Close(); err != nil {
			log.Err(err).Msg("Failed to close session storage")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(reg)

	handler, err := server.New(cfg, server.Deps{
		Storage:  provider,
		NewAPI:   apiFactory(cfg, recorder),
		Metrics:  recorder,
		Gatherer: reg,
	})
	if err != nil {
		return err
	}

	log.Info().Str("api", cfg.GetAPIBaseURL()).Str("storage", cfg.GetStorageBackend()).Msg("Frontend configured")
	return serveUntilStopped(ctx, &http.Server{Addr: cfg.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second})
}

// apiFactory gives each client scope an API client that reads its bearer token from that scope's session.
func apiFactory(cfg config.Config, recorder *metrics.Recorder) server.APIFactory {
	return func(store sessions.Store) server.AuthAPI {
		return authclient.New(cfg.GetAPIBaseURL(),
			authclient.WithTimeout(cfg.GetAPITimeout()),
			authclient.WithTokenSource(authclient.SessionTokenSource{Store: store}),
			authclient.WithMetrics(recorder))
	}
}

// serveUntilStopped runs srv until SIGINT/SIGTERM or ctx ends, then shuts it down.
func serveUntilStopped(ctx context.Context, srv *http.Server) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(srv) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return shutdown(srv)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Str("addr", server.Addr).Msg("Server stopped")
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
