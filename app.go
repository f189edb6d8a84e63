package main

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"nostr-search/internal/cache"
	"nostr-search/internal/config"
	"nostr-search/internal/directory"
	"nostr-search/internal/metrics"
	"nostr-search/internal/relay"
	"nostr-search/internal/search"
)

// app wires the search stack shared by the serve and search commands
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	registry     *prometheus.Registry
	metrics      *metrics.Metrics
	store        cache.Store
	storeBackend string
	engine       *relay.Engine
	directory    *directory.Directory
	search       *search.Service
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) *app {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	store, backend := cache.Open(ctx, cache.Config{RedisURL: cfg.RedisURL}, logger)

	engine := relay.NewEngine(&relay.WebsocketDialer{Logger: logger},
		relay.WithTimeout(cfg.QueryTimeout),
		relay.WithLogger(logger),
		relay.WithMetrics(m),
	)

	dir := directory.New(engine, store, directory.Config{
		RelayListRelays:  cfg.Relays.DirectoryRelays,
		FollowListRelays: cfg.Relays.FollowRelays,
		Logger:           logger,
		Metrics:          m,
	})

	svc := search.NewService(engine, dir, search.Config{
		BackupRelays: cfg.Relays.BackupRelays,
		SearchRelays: cfg.Relays.SearchRelays,
		ChunkSize:    cfg.ChunkSize,
		Logger:       logger,
		Metrics:      m,
	})

	return &app{
		cfg:          cfg,
		logger:       logger,
		registry:     registry,
		metrics:      m,
		store:        store,
		storeBackend: backend,
		engine:       engine,
		directory:    dir,
		search:       svc,
	}
}

// Close releases the directory store
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing directory store", "error", err)
	}
}
