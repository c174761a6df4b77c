package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qa-forum/server/src/server/config"
	"github.com/qa-forum/server/src/server/storage"
	"github.com/qa-forum/server/src/server/store"
	"github.com/qa-forum/server/src/server/store/postgres"
	"github.com/qa-forum/server/src/server/store/redisstore"
	"github.com/qa-forum/server/src/server/store/sqlite"
)

// backend is the opened document store plus whatever must be released on exit.
type backend struct {
	store   store.Backend
	objects storage.ObjectStorage // set for the file and s3 backends
	close   func() error
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case "memory":
		slog.Warn("Using in-memory store; data is lost on restart")
		return &backend{store: store.NewMemoryStore(), close: noop}, nil

	case "file":
		local, err := storage.NewLocal(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening data dir: %w", err)
		}
		slog.Info("Using file store", "dir", cfg.DataDir)
		return &backend{store: store.NewDocumentStore(local), objects: local, close: noop}, nil

	case "s3":
		s3, err := storage.NewS3(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to S3: %w", err)
		}
		if err := s3.Ping(ctx); err != nil {
			return nil, fmt.Errorf("checking S3 bucket: %w", err)
		}
		slog.Info("Using S3 store", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return &backend{store: store.NewDocumentStore(s3), objects: s3, close: noop}, nil

	case "sqlite":
		s, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("connecting to SQLite: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, err
		}
		slog.Info("Using SQLite store", "path", cfg.DatabasePath)
		return &backend{store: s, close: s.Close}, nil

	case "postgres":
		s, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, err
		}
		slog.Info("Using PostgreSQL store")
		return &backend{store: s, close: s.Close}, nil

	case "redis":
		s, err := redisstore.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		slog.Info("Using Redis store")
		return &backend{store: s, close: s.Close}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
