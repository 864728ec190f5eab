package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/logging"
	"wizkid-challenge/internal/metrics"
	transport "wizkid-challenge/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Serve the challenge over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, logger, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	ctx = logging.IntoContext(ctx, logger)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg.Postgres.URL); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	registry := metrics.NewRegistry()
	rt, err := buildRuntime(ctx, cfg, logger, runtimeOptions{
		countdown: app.TickerCountdown{},
		registry:  registry,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(rt.service, metrics.Handler(registry), logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("port", finalPort).Str("progress", cfg.Progress.Backend).Msg("starting challenge service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info().Msg("shutting down server")
	case <-ctx.Done():
		logger.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

