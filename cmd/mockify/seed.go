package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/iamtinsae/mockify/internal/config"
	"github.com/iamtinsae/mockify/internal/seed"
	"github.com/iamtinsae/mockify/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load project definitions from a YAML file into the database",
	Long: `Load project definitions from a YAML file into the configured database.

Projects whose slug already exists are skipped. The server applies the same
format at startup when MOCKIFY_SEED_FILE is set.`,
	GroupID: "system",
	Args:    cobra.ExactArgs(1),
	// Seeding talks to the store directly.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("MOCKIFY_DATABASE_URL is required to seed")
		}
		s, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		return applySeedFile(cmd.Context(), s, args[0], logger)
	},
}

func applySeedFile(ctx context.Context, s store.Store, path string, logger *slog.Logger) error {
	f, err := seed.Load(path)
	if err != nil {
		return err
	}
	sum, err := seed.Apply(ctx, s, f)
	if err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	logger.Info("seed applied",
		"file", path,
		"projects", sum.Projects,
		"resources", sum.Resources,
		"endpoints", sum.Endpoints,
		"skipped", sum.Skipped,
	)
	return nil
}
