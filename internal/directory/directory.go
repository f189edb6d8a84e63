// Package directory resolves per-identity metadata published on relays: the relays a
// pubkey prefers (NIP-65) and the pubkeys it follows (NIP-02).
//
// Non-empty results are kept for the life of the store and never refreshed. Empty or
// failed lookups are not stored, so the next call asks the relays again.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"golang.org/x/sync/singleflight"

	"nostr-search/internal/cache"
	"nostr-search/internal/metrics"
	"nostr-search/internal/nips"
	"nostr-search/internal/relay"
	"nostr-search/internal/types"
	"nostr-search/internal/util"
)

// Finder looks up the newest event matching a filter
type Finder interface {
	QueryOne(ctx context.Context, relays []string, filter nostr.Filter) (*nostr.Event, error)
}

// Directory resolves relay lists and follow lists through bootstrap relays
type Directory struct {
	finder          Finder
	store           cache.Store
	relayBootstrap  []string
	followBootstrap []string
	group           singleflight.Group
	logger          *slog.Logger
	metrics         *metrics.Metrics
}

// Config names the bootstrap relays used for each lookup
type Config struct {
	RelayListRelays  []string
	FollowListRelays []string
	Logger           *slog.Logger
	Metrics          *metrics.Metrics
}

// New creates a Directory backed by store
func New(finder Finder, store cache.Store, cfg Config) *Directory {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		finder:          finder,
		store:           store,
		relayBootstrap:  cfg.RelayListRelays,
		followBootstrap: cfg.FollowListRelays,
		logger:          logger,
		metrics:         cfg.Metrics,
	}
}

type lookup struct {
	kind      string
	eventKind int
	bootstrap []string
	extract   func(nostr.Tags) []string
}

// Relays returns the relay URLs from pubkey's newest relay list (kind 10002).
// An error means the lookup could not be completed; no relay list yields (nil, nil).
func (d *Directory) Relays(ctx context.Context, pubkey string) ([]string, error) {
	return d.resolve(ctx, pubkey, lookup{
		kind:      "relays",
		eventKind: nostr.KindRelayListMetadata,
		bootstrap: d.relayBootstrap,
		extract:   relayURLsFromTags,
	})
}

// Followed returns the pubkeys from pubkey's newest contact list (kind 3).
func (d *Directory) Followed(ctx context.Context, pubkey string) ([]string, error) {
	return d.resolve(ctx, pubkey, lookup{
		kind:      "followed",
		eventKind: nostr.KindContactList,
		bootstrap: d.followBootstrap,
		extract:   pubkeysFromTags,
	})
}

func (d *Directory) resolve(ctx context.Context, pubkey string, l lookup) ([]string, error) {
	key := l.kind + ":" + pubkey

	if values, ok := d.load(ctx, key); ok {
		d.metrics.ObserveDirectoryLookup(l.kind, "hit")
		return values, nil
	}

	result, err, shared := d.group.Do(key, func() (any, error) {
		return d.fetch(ctx, pubkey, key, l)
	})
	if shared {
		d.logger.Debug("singleflight: shared directory lookup", "kind", l.kind, "pubkey", util.ShortID(pubkey))
	}
	if err != nil {
		d.metrics.ObserveDirectoryLookup(l.kind, "error")
		return nil, err
	}

	values := result.([]string)
	if len(values) == 0 {
		d.metrics.ObserveDirectoryLookup(l.kind, "empty")
	} else {
		d.metrics.ObserveDirectoryLookup(l.kind, "miss")
	}
	return values, nil
}

func (d *Directory) fetch(ctx context.Context, pubkey, key string, l lookup) ([]string, error) {
	evt, err := d.finder.QueryOne(ctx, l.bootstrap, nostr.Filter{
		Kinds:   []int{l.eventKind},
		Authors: []string{pubkey},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("%s lookup for %s: %w", l.kind, util.ShortID(pubkey), err)
	}
	if evt == nil {
		d.logger.Debug("no directory entry found", "kind", l.kind, "pubkey", util.ShortID(pubkey))
		return []string(nil), nil
	}

	values := l.extract(evt.Tags)
	if len(values) > 0 {
		d.save(ctx, key, values)
	}
	d.logger.Debug("resolved directory entry", "kind", l.kind, "pubkey", util.ShortID(pubkey), "count", len(values))
	return values, nil
}

func (d *Directory) load(ctx context.Context, key string) ([]string, bool) {
	data, found, err := d.store.Get(ctx, key)
	if err != nil {
		d.logger.Warn("directory store read failed", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var cached types.CachedDirectoryEntry
	if err := json.Unmarshal(data, &cached); err != nil || len(cached.Values) == 0 {
		return nil, false
	}
	return cached.Values, true
}

func (d *Directory) save(ctx context.Context, key string, values []string) {
	data, err := json.Marshal(types.CachedDirectoryEntry{
		Values:    values,
		FetchedAt: time.Now().Unix(),
	})
	if err != nil {
		return
	}
	if err := d.store.Set(ctx, key, data); err != nil {
		d.logger.Warn("directory store write failed", "key", key, "error", err)
	}
}

// relayURLsFromTags collects websocket URLs from "r" tags, without duplicates
func relayURLsFromTags(tags nostr.Tags) []string {
	var urls []string
	for _, tag := range tags {
		if len(tag) < 2 || tag[0] != "r" {
			continue
		}
		u := strings.TrimSpace(tag[1])
		if relay.IsRelayURL(u) {
			urls = append(urls, u)
		}
	}
	return util.Dedupe(urls)
}

// pubkeysFromTags collects well-formed pubkeys from "p" tags, without duplicates
func pubkeysFromTags(tags nostr.Tags) []string {
	var pubkeys []string
	for _, tag := range tags {
		if len(tag) < 2 || tag[0] != "p" {
			continue
		}
		pk := strings.ToLower(strings.TrimSpace(tag[1]))
		if nips.IsHexKey(pk) {
			pubkeys = append(pubkeys, pk)
		}
	}
	return util.Dedupe(pubkeys)
}
