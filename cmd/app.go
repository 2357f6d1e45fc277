package cmd

import (
	"context"
	"fmt"

	"cms-sync/core/cms"
	"cms-sync/core/config"
	"cms-sync/core/database"
	"cms-sync/core/logger"
	"cms-sync/core/metrics"
	"cms-sync/core/nodestore"
	"cms-sync/core/storage"
	"cms-sync/feature/ingest"
	"cms-sync/feature/media"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	storage  storage.Client
	nodes    nodestore.NodeStore
	cache    nodestore.Cache
	service  *ingest.Service
}

// bootstrap loads configuration and wires the ingest service.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	l.Info("Connected to node store database", zap.String("driver", cfg.Database.Driver))

	nodes, err := nodestore.NewGormStore(db)
	if err != nil {
		return nil, err
	}

	cache, err := nodestore.NewCache(cfg.Cache, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create media cache: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	svc := ingest.NewService(cfg.Source, cfg.Media, ingest.Dependencies{
		Source:     cms.NewClient(cfg.Source, l),
		Nodes:      nodes,
		Cache:      cache,
		Downloader: media.NewHTTPDownloader(cfg.Media, client, cfg.Storage.Bucket, nodes, cfg.Source.Owner),
		Logger:     l,
		Metrics:    m,
	})

	return &app{
		cfg:      cfg,
		logger:   l,
		registry: registry,
		storage:  client,
		nodes:    nodes,
		cache:    cache,
		service:  svc,
	}, nil
}

// close releases the connections opened by bootstrap.
func (a *app) close() {
	if err := nodestore.CloseCache(a.cache); err != nil {
		a.logger.Warn("Failed to close media cache", zap.Error(err))
	}
}
