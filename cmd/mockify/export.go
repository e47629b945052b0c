package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/iamtinsae/mockify/internal/config"
	mocksync "github.com/iamtinsae/mockify/internal/sync"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every project as JSONL",
	Long: `Export every project, with its resources and endpoints, as JSONL.

With --push the export is written once to the sync destinations configured
through the MOCKIFY_SYNC_* variables instead of a file.`,
	GroupID: "system",
	Args:    cobra.NoArgs,
	// Exporting reads the store directly.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		push, _ := cmd.Flags().GetBool("push")
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("MOCKIFY_DATABASE_URL is required to export")
		}
		s, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		if push {
			dests := syncDestinations(cfg, logger)
			if len(dests) == 0 {
				return fmt.Errorf("no sync destinations configured")
			}
			return mocksync.NewScheduler(s, dests, cfg.SyncInterval, logger).SyncNow(cmd.Context())
		}

		var w io.Writer = cmd.OutOrStdout()
		if output != "" && output != "-" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return mocksync.ExportJSONL(cmd.Context(), s, w)
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().Bool("push", false, "write once to the configured sync destinations")
}
