package cache

import (
	"context"
	"log/slog"
)

// DefaultPrefix namespaces keys in shared backends
const DefaultPrefix = "nostr-search:"

// Config selects the store backend
type Config struct {
	// RedisURL selects Redis when set; otherwise the store is in memory
	RedisURL string
	Prefix   string
}

// Open returns a Redis store when configured and reachable, otherwise a memory store.
// The second return value names the backend for health reporting.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, string) {
	if cfg.RedisURL != "" {
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = DefaultPrefix
		}
		logger.Info("initializing Redis directory store")
		store, err := NewRedisStore(ctx, cfg.RedisURL, prefix)
		if err == nil {
			return store, "redis"
		}
		logger.Warn("Redis connection failed, using memory store", "error", err)
	}

	logger.Info("initializing in-memory directory store")
	return NewMemoryStore(), "memory"
}
