package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string // MOCKIFY_HTTP_ADDR (default ":8080")
	GRPCAddr    string // MOCKIFY_GRPC_ADDR (optional, empty = no gRPC health listener)
	DatabaseURL string // MOCKIFY_DATABASE_URL (optional, empty = in-memory store)
	NATSURL     string // MOCKIFY_NATS_URL (optional, empty = no events)
	AuthToken   string // MOCKIFY_AUTH_TOKEN (optional, empty = admin auth disabled)
	ListSize    int    // MOCKIFY_LIST_SIZE (default 10)
	SeedFile    string // MOCKIFY_SEED_FILE (optional YAML definitions applied at startup)

	// Sync settings
	SyncInterval   time.Duration // MOCKIFY_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // MOCKIFY_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // MOCKIFY_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // MOCKIFY_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // MOCKIFY_SYNC_S3_KEY (default "mockify/export.jsonl")
	SyncGitRepo    string        // MOCKIFY_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // MOCKIFY_SYNC_GIT_FILE (default "mockify.jsonl")
	SyncGitBranch  string        // MOCKIFY_SYNC_GIT_BRANCH (default "main")
}

// DefaultListSize is the number of records a list endpoint returns.
const DefaultListSize = 10

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:       envOrDefault("MOCKIFY_HTTP_ADDR", ":8080"),
		GRPCAddr:       os.Getenv("MOCKIFY_GRPC_ADDR"),
		DatabaseURL:    os.Getenv("MOCKIFY_DATABASE_URL"),
		NATSURL:        os.Getenv("MOCKIFY_NATS_URL"),
		AuthToken:      os.Getenv("MOCKIFY_AUTH_TOKEN"),
		SeedFile:       os.Getenv("MOCKIFY_SEED_FILE"),
		SyncS3Bucket:   os.Getenv("MOCKIFY_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("MOCKIFY_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("MOCKIFY_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("MOCKIFY_SYNC_S3_KEY", "mockify/export.jsonl"),
		SyncGitRepo:    os.Getenv("MOCKIFY_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("MOCKIFY_SYNC_GIT_FILE", "mockify.jsonl"),
		SyncGitBranch:  envOrDefault("MOCKIFY_SYNC_GIT_BRANCH", "main"),
	}

	n, err := strconv.Atoi(envOrDefault("MOCKIFY_LIST_SIZE", strconv.Itoa(DefaultListSize)))
	if err != nil {
		return nil, fmt.Errorf("MOCKIFY_LIST_SIZE: %w", err)
	}
	if n < 1 {
		return nil, fmt.Errorf("MOCKIFY_LIST_SIZE must be positive, got %d", n)
	}
	c.ListSize = n

	intervalStr := envOrDefault("MOCKIFY_SYNC_INTERVAL", "3m")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("MOCKIFY_SYNC_INTERVAL: %w", err)
	}
	c.SyncInterval = d

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
