package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // FFS_DATABASE_URL (required)
	HTTPAddr    string // FFS_HTTP_ADDR (default ":8080")
	GRPCAddr    string // FFS_GRPC_ADDR (default ":9090")
	NATSURL     string // FFS_NATS_URL (optional, empty = no events)
	AuthToken   string // FFS_AUTH_TOKEN (optional, empty = auth disabled)

	// HealthInterval is how often the store is pinged to refresh the gRPC
	// health status. FFS_HEALTH_INTERVAL (default 10s).
	HealthInterval time.Duration

	// Catalog export settings
	SyncInterval   time.Duration // FFS_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // FFS_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // FFS_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // FFS_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // FFS_SYNC_S3_KEY (default "ffs/catalog.jsonl")
	SyncGitRepo    string        // FFS_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // FFS_SYNC_GIT_FILE (default "catalog.jsonl")
	SyncGitBranch  string        // FFS_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("FFS_DATABASE_URL"),
		HTTPAddr:       envOrDefault("FFS_HTTP_ADDR", ":8080"),
		GRPCAddr:       envOrDefault("FFS_GRPC_ADDR", ":9090"),
		NATSURL:        os.Getenv("FFS_NATS_URL"),
		AuthToken:      os.Getenv("FFS_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("FFS_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("FFS_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("FFS_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("FFS_SYNC_S3_KEY", "ffs/catalog.jsonl"),
		SyncGitRepo:    os.Getenv("FFS_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("FFS_SYNC_GIT_FILE", "catalog.jsonl"),
		SyncGitBranch:  envOrDefault("FFS_SYNC_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("FFS_DATABASE_URL is required")
	}

	var err error
	if c.HealthInterval, err = durationEnv("FFS_HEALTH_INTERVAL", "10s"); err != nil {
		return nil, err
	}
	if c.HealthInterval <= 0 {
		return nil, fmt.Errorf("FFS_HEALTH_INTERVAL must be positive")
	}
	if c.SyncInterval, err = durationEnv("FFS_SYNC_INTERVAL", "3m"); err != nil {
		return nil, err
	}

	return c, nil
}

func durationEnv(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
