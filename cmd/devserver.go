package cmd

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

	"github.com/urfave/cli/v3"

	"dashsearch/internal/devserver"
)

const shutdownTimeout = 5 * time.Second

// DevServerCommand creates the devserver command
func DevServerCommand() *cli.Command {
	return &cli.Command{
		Name:  "devserver",
		Usage: "Serve the search API from fixture data for local development",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address",
				Value: "localhost:5000",
			},
			&cli.StringFlag{
				Name:  "fixtures",
				Usage: "YAML fixture file; the built-in sample data when empty",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "Bearer token clients must send; auth is off when empty",
			},
			&cli.DurationFlag{
				Name:  "latency",
				Usage: "Delay added to every search response",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := newLogger(os.Stderr, "info", c.Bool("debug"))
			return serveDev(ctx, logger, c.String("addr"), c.String("fixtures"), c.String("token"), c.Duration("latency"))
		},
	}
}

func serveDev(ctx context.Context, logger *slog.Logger, addr, fixtures, token string, latency time.Duration) error {
	data := devserver.SampleFixtures()
	if fixtures != "" {
		var err error
		data, err = devserver.LoadFixtures(fixtures)
		if err != nil {
			return fmt.Errorf("loading fixtures: %w", err)
		}
	}
	store := devserver.NewStore(data)

	server := &http.Server{
		Addr: addr,
		Handler: devserver.NewServer(store, devserver.Options{
			Token:   token,
			Latency: latency,
			Logger:  logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dev server listening", "addr", addr, "todos", len(data.Todos), "notes", len(data.Notes), "auth", token != "")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("dev server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
