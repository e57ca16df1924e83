package main

import (
	"github.com/spf13/cobra"

	"github.com/vanshika/fedfinger/internal/generator"
)

func newGenerateCmd() *cobra.Command {
	cfg := generator.DefaultConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic identity seed file for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := loadRuntime(false)
			if err != nil {
				return err
			}
			logger := env.logger.With("component", "generate")

			identities, err := generator.New(cfg, env.cfg.Identity.BaseURL).Generate(cmd.Context())
			if err != nil {
				return err
			}
			if err := generator.WriteSeed(identities, out); err != nil {
				logger.Error("failed to write seed file", "error", err, "path", out)
				return err
			}
			logger.Info("seed file written", "path", out, "identities", len(identities))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "identities.yaml", "Output seed file (.yaml, .yml, .json, .jsonc)")
	cmd.Flags().IntVarP(&cfg.Count, "count", "n", cfg.Count, "Number of identities")
	cmd.Flags().Float64Var(&cfg.SummaryChance, "summary-chance", cfg.SummaryChance, "Probability an identity has a summary")
	cmd.Flags().Float64Var(&cfg.ExplicitURLPct, "explicit-url-chance", cfg.ExplicitURLPct, "Probability an identity carries explicit actor and profile URLs")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	return cmd
}
