package config

import (
	"encoding/json"
	"log/slog"
	"os"
)

// DefaultRelaysPath is read when no relays config path is given
const DefaultRelaysPath = "config/relays.json"

// Relays holds the relay sets used by the search service
type Relays struct {
	// DirectoryRelays are asked for relay lists (kind 10002)
	DirectoryRelays []string `json:"directoryRelays"`
	// FollowRelays are asked for contact lists (kind 3)
	FollowRelays []string `json:"followRelays"`
	// BackupRelays replace an identity's relays when it has none
	BackupRelays []string `json:"backupRelays"`
	// SearchRelays support NIP-50 text search
	SearchRelays []string `json:"searchRelays"`
}

// DefaultRelays returns the built-in relay sets
func DefaultRelays() *Relays {
	return &Relays{
		DirectoryRelays: []string{
			"wss://relay.nostr.band",
			"wss://purplepag.es",
			"wss://nostr.wine",
			"wss://relay.damus.io",
		},
		FollowRelays: []string{
			"wss://relay.nostr.band",
			"wss://nostr.wine",
			"wss://relay.damus.io",
		},
		BackupRelays: []string{
			"wss://relay.nostr.band",
			"wss://nostr.wine",
			"wss://relay.damus.io",
		},
		SearchRelays: []string{
			"wss://relay.nostr.band",
		},
	}
}

// LoadRelays reads relay sets from a JSON file. A missing or unreadable file yields the
// defaults, and any set left empty in the file falls back to its default.
func LoadRelays(path string, logger *slog.Logger) *Relays {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = DefaultRelaysPath
	}

	defaults := DefaultRelays()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("relays config not found, using defaults", "path", path)
		} else {
			logger.Warn("could not read relays config, using defaults", "path", path, "error", err)
		}
		return defaults
	}

	var cfg Relays
	if err := json.Unmarshal(data, &cfg); err != nil {
		logger.Error("invalid JSON in relays config, using defaults", "path", path, "error", err)
		return defaults
	}

	fillEmpty(&cfg.DirectoryRelays, defaults.DirectoryRelays)
	fillEmpty(&cfg.FollowRelays, defaults.FollowRelays)
	fillEmpty(&cfg.BackupRelays, defaults.BackupRelays)
	fillEmpty(&cfg.SearchRelays, defaults.SearchRelays)

	logger.Info("loaded relays configuration",
		"path", path,
		"directory", len(cfg.DirectoryRelays),
		"follow", len(cfg.FollowRelays),
		"backup", len(cfg.BackupRelays),
		"search", len(cfg.SearchRelays))
	return &cfg
}

func fillEmpty(dst *[]string, fallback []string) {
	if len(*dst) == 0 {
		*dst = fallback
	}
}
