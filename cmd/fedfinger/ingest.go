package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/fedfinger/internal/identity"
)

func newIngestCmd() *cobra.Command {
	var (
		file    string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Import identities from a seed file into the graph store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := loadRuntime(false)
			if err != nil {
				return err
			}
			logger := env.logger.With("component", "ingest")
			ctx := cmd.Context()

			if file == "" {
				file = env.cfg.Identity.SeedFile
			}
			identities, err := identity.LoadSeed(file)
			if err != nil {
				logger.Error("failed to load seed file", "error", err, "path", file)
				return err
			}

			client, err := buildGraphClient(ctx, env)
			if err != nil {
				logger.Error("failed to create graph client", "error", err)
				return err
			}
			defer func() {
				if err := client.Close(ctx); err != nil {
					logger.Warn("closing graph client failed", "error", err)
				}
			}()

			store := identity.NewGraphStore(client)
			if err := store.EnsureSchema(ctx); err != nil {
				logger.Error("schema setup failed", "error", err)
				return err
			}

			start := time.Now()
			logger.Info("ingesting identities", "count", len(identities), "workers", workers)
			if err := identity.NewImporter(store, workers).Import(ctx, identities); err != nil {
				logger.Error("identity ingestion failed", "error", err)
				return err
			}

			total, err := store.Count(ctx)
			if err != nil {
				logger.Warn("counting identities failed", "error", err)
			}
			logger.Info("ingestion complete", "duration", time.Since(start).String(), "identities", len(identities), "stored", total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Seed file (.yaml, .yml, .json, .jsonc); defaults to IDENTITY_SEED_FILE")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of concurrent workers")
	return cmd
}
