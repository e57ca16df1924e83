package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanshika/fedfinger/internal/discovery"
	"github.com/vanshika/fedfinger/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the discovery HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := loadRuntime(true)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				env.cfg.HTTP.Host = addr
			}
			if cmd.Flags().Changed("port") {
				if port <= 0 || port > 65535 {
					return fmt.Errorf("port %d is out of range", port)
				}
				env.cfg.HTTP.Port = port
			}
			return runServer(cmd.Context(), env)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (default SERVER_HOST or 0.0.0.0)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default SERVER_PORT or 8080)")
	return cmd
}

func runServer(ctx context.Context, env runtimeEnv) error {
	logger := env.logger

	resolver, closeStore, err := buildResolver(ctx, env)
	if err != nil {
		logger.Error("failed to open identity store", "error", err)
		return err
	}
	defer closeStore()

	svc := discovery.NewService(logger, resolver)
	router := server.NewRouter(logger, server.RouterDependencies{
		Health:         resolver,
		Discovery:      server.NewDiscoveryHandlers(logger, svc, env.cfg.HTTP.RedirectStatus),
		AllowedOrigins: env.cfg.HTTP.AllowedOrigins(),
	})

	srv := server.New(logger, env.cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
