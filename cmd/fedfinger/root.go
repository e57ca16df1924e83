package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanshika/fedfinger/internal/config"
	"github.com/vanshika/fedfinger/internal/graph"
	"github.com/vanshika/fedfinger/internal/identity"
	"github.com/vanshika/fedfinger/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "fedfinger",
	Short: "WebFinger and ActivityPub actor discovery",
	Long: `fedfinger lets federated servers and browsers find local accounts.

WebFinger clients query /.well-known/webfinger, ActivityPub clients fetch
/users/{username} with Accept: application/activity+json, and everyone else
is redirected to the account's profile page.

Configuration is read from the environment and from .env / .env.local.`,
	SilenceUsage: true,
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd(), newIngestCmd(), newResolveCmd(), newGenerateCmd(), newVersionCmd())
}

type runtimeEnv struct {
	cfg    config.Config
	logger *slog.Logger
}

func loadRuntime(validate bool) (runtimeEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return runtimeEnv{}, fmt.Errorf("load config: %w", err)
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return runtimeEnv{}, fmt.Errorf("invalid config: %w", err)
		}
	}
	return runtimeEnv{cfg: cfg, logger: logging.New(cfg.Logging)}, nil
}

// buildResolver opens the configured identity backend. The returned close
// function releases the backend and is never nil.
func buildResolver(ctx context.Context, env runtimeEnv) (*identity.Resolver, func(), error) {
	settings := identity.Settings{
		Domain:  env.cfg.Identity.Domain,
		BaseURL: env.cfg.Identity.BaseURL,
	}

	switch env.cfg.Identity.Backend {
	case config.BackendGraph:
		client, err := buildGraphClient(ctx, env)
		if err != nil {
			return nil, func() {}, err
		}
		closeFn := func() {
			if err := client.Close(context.Background()); err != nil {
				env.logger.Warn("closing graph client failed", "error", err)
			}
		}
		return identity.NewResolver(identity.NewGraphStore(client), settings), closeFn, nil
	default:
		store, err := identity.LoadStaticStore(env.cfg.Identity.SeedFile)
		if err != nil {
			return nil, func() {}, err
		}
		env.logger.Info("loaded identity seed file", "path", env.cfg.Identity.SeedFile, "identities", store.Len())
		return identity.NewResolver(store, settings), func() {}, nil
	}
}

func buildGraphClient(ctx context.Context, env runtimeEnv) (graph.Client, error) {
	if env.cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}
	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            env.cfg.Graph.URI,
		Database:       env.cfg.Graph.Database,
		Username:       env.cfg.Graph.Username,
		Password:       env.cfg.Graph.Password,
		MaxConnections: env.cfg.Graph.MaxConnections,
	})
	if err != nil {
		return nil, err
	}
	env.logger.Info("connected to graph", "uri", env.cfg.Graph.URI, "database", env.cfg.Graph.Database)
	return client, nil
}
