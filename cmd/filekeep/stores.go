package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sagarc03/filekeep"
	"github.com/sagarc03/filekeep/auth"
	"github.com/sagarc03/filekeep/config"
	"github.com/sagarc03/filekeep/database"
	"github.com/sagarc03/filekeep/filesystem"
	"github.com/sagarc03/filekeep/s3store"
)

// openBlobStore returns the configured blob store and a function releasing it.
func openBlobStore(ctx context.Context, cfg config.StorageConfig) (filekeep.BlobStore, func(), error) {
	switch cfg.Type {
	case "filesystem":
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, nil, fmt.Errorf("create storage directory: %w", err)
		}

		root, err := os.OpenRoot(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage root: %w", err)
		}

		slog.Info("using filesystem storage", "path", cfg.Path)
		return filesystem.NewStore(root), func() { _ = root.Close() }, nil

	case "s3":
		store, err := s3store.Connect(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(ctx); err != nil {
			return nil, nil, err
		}

		slog.Info("using s3 storage", "bucket", cfg.S3.Bucket, "endpoint", cfg.S3.Endpoint)
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// newFileService opens the metadata and blob backends and builds the service.
// The returned cleanup closes both backends.
func newFileService(ctx context.Context, cfg *config.Config) (*filekeep.FileService, func(), error) {
	db, err := database.Open(ctx, cfg.Database, cfg.Database.AutoMigrate)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("connected to database", "type", cfg.Database.Type)

	blobs, closeBlobs, err := openBlobStore(ctx, cfg.Storage)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		closeBlobs()
		_ = db.Close()
	}

	admins, err := auth.LoadAdmins(cfg.Auth.Admins)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("load admins: %w", err)
	}
	policy := filekeep.NewAccessPolicy(admins)
	slog.Info("loaded admin allow-list", "admins", policy.Admins())

	service, err := filekeep.NewFileService(db.GetStore(), blobs, filekeep.ServiceConfig{
		Policy:    policy,
		Validator: filekeep.NewFileValidator(cfg.Files.AllowedExtensions),
		Logger:    slog.Default(),
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create service: %w", err)
	}

	return service, cleanup, nil
}
