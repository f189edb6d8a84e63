// Package cache provides the get/put stores behind the directory cache.
// Entries never expire: directory data is treated as valid for the process lifetime.
package cache

import "context"

// Store defines the interface for directory cache implementations
type Store interface {
	// Get retrieves a value from the store
	// Returns (value, found, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the store's resources
	Close() error
}
