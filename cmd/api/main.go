package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bikeflow.bluebikes.org/internal/appconf"
	"bikeflow.bluebikes.org/internal/logging"
)

func main() {
	if err := appconf.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.NewLoggerForEnv(os.Stdout, cfg.App.Env.String(), cfg.App.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then shuts everything down in order:
// listener, live sessions, data refresher.
func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	application, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownApplication(application)

	snapshot := application.BikeshareManager.Snapshot()
	logger.Info("bikeshare data loaded",
		slog.Int("stations", len(snapshot.Stations)),
		slog.Int("trips", len(snapshot.Trips)),
		slog.Int("skipped_trips", snapshot.SkippedTrips))

	s := newServer(application)
	defer s.close()

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.App.Port),
		Handler:     s.handler,
		IdleTimeout: time.Minute,
		ReadTimeout: 5 * time.Second,
		// No WriteTimeout: it would end websocket sessions.
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", srv.Addr), slog.String("env", cfg.App.Env.String()))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.hub.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
