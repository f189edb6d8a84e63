// Package search turns a search request into relay queries and merges what comes back.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"golang.org/x/sync/errgroup"

	"nostr-search/internal/aggregate"
	"nostr-search/internal/metrics"
	"nostr-search/internal/nips"
	"nostr-search/internal/relay"
	"nostr-search/internal/types"
	"nostr-search/internal/util"
)

// DefaultChunkSize caps the authors or ids carried by one relay query
const DefaultChunkSize = 256

// Querier fans one filter out to a set of relays
type Querier interface {
	Query(ctx context.Context, relays []string, filter nostr.Filter) ([]nostr.Event, error)
}

// Directory resolves the relays and follows of a pubkey
type Directory interface {
	Relays(ctx context.Context, pubkey string) ([]string, error)
	Followed(ctx context.Context, pubkey string) ([]string, error)
}

// Config holds the relay sets and limits used by a Service
type Config struct {
	// BackupRelays are queried when an identity has no usable relay list
	BackupRelays []string
	// SearchRelays serve text-only searches (NIP-50)
	SearchRelays []string
	ChunkSize    int
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
}

// Service runs searches
type Service struct {
	querier   Querier
	directory Directory
	backup    []string
	search    []string
	chunkSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Result is the merged outcome of one search
type Result struct {
	Pubkey string
	Mode   types.Mode
	Relays []string
	Events []nostr.Event
}

// NewService creates a search service
func NewService(q Querier, dir Directory, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Service{
		querier:   q,
		directory: dir,
		backup:    cfg.BackupRelays,
		search:    cfg.SearchRelays,
		chunkSize: chunkSize,
		logger:    logger,
		metrics:   cfg.Metrics,
	}
}

// Search validates req, resolves the identity and runs the query for its mode.
// An empty result is not an error.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	req = req.Normalize()
	mode, ok := types.ParseMode(string(req.Mode))
	if !ok {
		mode = req.Mode
	}

	start := time.Now()
	res, err := s.run(ctx, req, mode)
	s.metrics.ObserveSearch(string(mode), outcome(res, err))
	if err != nil {
		s.logger.Info("search failed", "mode", mode, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	s.logger.Info("search completed",
		"mode", res.Mode,
		"pubkey", util.ShortID(res.Pubkey),
		"relays", len(res.Relays),
		"events", len(res.Events),
		"duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

func (s *Service) run(ctx context.Context, req Request, mode types.Mode) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	since, until, err := req.Bounds()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	base := nostr.Filter{
		Kinds:  []int{nostr.KindTextNote},
		Search: req.SearchText,
		Since:  since,
		Until:  until,
	}

	if req.Identity == "" {
		events, err := s.querier.Query(ctx, s.search, base)
		if err != nil {
			return nil, err
		}
		return &Result{Mode: mode, Relays: s.search, Events: aggregate.Merge(events)}, nil
	}

	pubkey, err := nips.DecodePubkey(req.Identity)
	if err != nil {
		return nil, err
	}
	relays := s.relaysFor(ctx, pubkey)
	res := &Result{Pubkey: pubkey, Mode: mode, Relays: relays}

	switch mode {
	case types.ModeFollowing:
		authors := append([]string{pubkey}, s.followedBy(ctx, pubkey)...)
		res.Events, err = s.byAuthors(ctx, relays, util.Dedupe(authors), base)
	case types.ModeReactions:
		res.Events, err = s.reactedTo(ctx, relays, pubkey, since, until)
	default:
		res.Events, err = s.byAuthors(ctx, relays, []string{pubkey}, base)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// relaysFor returns the identity's own relays, or the backup set when there are none
func (s *Service) relaysFor(ctx context.Context, pubkey string) []string {
	relays, err := s.directory.Relays(ctx, pubkey)
	if err != nil {
		s.logger.Warn("relay list lookup failed, using backup relays", "pubkey", util.ShortID(pubkey), "error", err)
		return s.backup
	}
	if len(relays) == 0 {
		s.logger.Debug("no relay list, using backup relays", "pubkey", util.ShortID(pubkey))
		return s.backup
	}
	return relays
}

func (s *Service) followedBy(ctx context.Context, pubkey string) []string {
	followed, err := s.directory.Followed(ctx, pubkey)
	if err != nil {
		s.logger.Warn("follow list lookup failed, searching identity only", "pubkey", util.ShortID(pubkey), "error", err)
		return nil
	}
	return followed
}

func (s *Service) byAuthors(ctx context.Context, relays, authors []string, base nostr.Filter) ([]nostr.Event, error) {
	return s.chunked(ctx, relays, authors, func(chunk []string) nostr.Filter {
		f := base
		f.Authors = chunk
		return f
	})
}

// reactedTo fetches the identity's reactions, then the notes they point at
func (s *Service) reactedTo(ctx context.Context, relays []string, pubkey string, since, until *nostr.Timestamp) ([]nostr.Event, error) {
	reactions, err := s.querier.Query(ctx, relays, nostr.Filter{
		Kinds:   []int{nostr.KindReaction},
		Authors: []string{pubkey},
		Since:   since,
		Until:   until,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch reactions: %w", err)
	}

	ids := aggregate.ReactionTargets(reactions)
	if len(ids) == 0 {
		return []nostr.Event{}, nil
	}
	s.logger.Debug("fetching reacted notes", "reactions", len(reactions), "targets", len(ids))

	return s.chunked(ctx, relays, ids, func(chunk []string) nostr.Filter {
		return nostr.Filter{IDs: chunk}
	})
}

// chunked splits keys into chunks, runs one fan-out per chunk concurrently and merges
// the batches once every chunk has finished. Any failed chunk fails the whole search.
func (s *Service) chunked(ctx context.Context, relays, keys []string, filterFor func([]string) nostr.Filter) ([]nostr.Event, error) {
	chunks := util.Chunk(keys, s.chunkSize)
	batches := make([][]nostr.Event, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			events, err := s.querier.Query(gctx, relays, filterFor(chunk))
			if err != nil {
				return err
			}
			batches[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return aggregate.Merge(batches...), nil
}

func outcome(res *Result, err error) string {
	switch {
	case err == nil && len(res.Events) == 0:
		return "empty"
	case err == nil:
		return "ok"
	case errors.Is(err, nips.ErrInvalidIdentity), errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrNoCriteria):
		return "invalid"
	case errors.Is(err, relay.ErrNoReachableRelay):
		return "unreachable"
	default:
		return "error"
	}
}
