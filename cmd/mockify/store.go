package main

import (
	"context"
	"log/slog"

	"github.com/iamtinsae/mockify/internal/config"
	"github.com/iamtinsae/mockify/internal/store"
	"github.com/iamtinsae/mockify/internal/store/memory"
	"github.com/iamtinsae/mockify/internal/store/postgres"
	mocksync "github.com/iamtinsae/mockify/internal/sync"
)

// openStore connects to Postgres when a database URL is configured and
// falls back to an empty in-memory store otherwise.
func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("using in-memory store (MOCKIFY_DATABASE_URL not set)")
		return memory.New(), nil
	}
	s, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("using postgres store")
	return s, nil
}

// syncDestinations builds the export destinations enabled in cfg. A
// destination that fails to initialise is logged and skipped.
func syncDestinations(cfg *config.Config, logger *slog.Logger) []mocksync.Destination {
	var dests []mocksync.Destination

	if cfg.SyncS3Bucket != "" {
		s3Dest, err := mocksync.NewS3Destination(
			context.Background(),
			cfg.SyncS3Bucket,
			cfg.SyncS3Key,
			cfg.SyncS3Region,
			cfg.SyncS3Endpoint,
		)
		if err != nil {
			logger.Error("failed to create S3 sync destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("sync S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key)
		}
	}

	if cfg.SyncGitRepo != "" {
		dests = append(dests, mocksync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch))
		logger.Info("sync git destination enabled", "repo", cfg.SyncGitRepo, "file", cfg.SyncGitFile)
	}
	return dests
}
