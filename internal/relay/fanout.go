package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"nostr-search/internal/metrics"
	"nostr-search/internal/util"
)

// ErrNoReachableRelay is returned when no relay of a fan-out answered
var ErrNoReachableRelay = errors.New("no reachable relay")

// DefaultTimeout bounds one fan-out call
const DefaultTimeout = 4 * time.Second

// Engine sends the same filter to many relays and collects the distinct replies
type Engine struct {
	dialer  Dialer
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine
type Option func(*Engine)

// WithTimeout bounds each fan-out call
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the engine logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records fan-out metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates a fan-out engine dialing through d
func NewEngine(d Dialer, opts ...Option) *Engine {
	e := &Engine{
		dialer:  d,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type relayOutcome struct {
	relayURL string
	received int
	err      error
}

// Query sends filter to every relay concurrently over a fresh pool and returns every
// distinct event, in arrival order. It fails with ErrNoReachableRelay only when no relay
// reached end of stored events or delivered at least one event.
func (e *Engine) Query(ctx context.Context, relays []string, filter nostr.Filter) ([]nostr.Event, error) {
	relays = util.Dedupe(relays)
	if len(relays) == 0 {
		return nil, fmt.Errorf("%w: no relays given", ErrNoReachableRelay)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	pool := NewPool(e.dialer)
	defer func() {
		if err := pool.Close(); err != nil {
			e.metrics.IncrementPoolCloseErrors()
			e.logger.Warn("relay pool teardown failed", "error", err)
		}
	}()

	var wg sync.WaitGroup
	eventChan := make(chan nostr.Event, 256)
	outcomes := make(chan relayOutcome, len(relays))

	for _, relayURL := range relays {
		wg.Add(1)
		go func(relayURL string) {
			defer wg.Done()
			received, err := e.queryRelay(ctx, pool, relayURL, filter, eventChan)
			outcomes <- relayOutcome{relayURL: relayURL, received: received, err: err}
		}(relayURL)
	}

	go func() {
		wg.Wait()
		close(eventChan)
		close(outcomes)
	}()

	seenIDs := make(map[string]struct{})
	events := []nostr.Event{}
	for evt := range eventChan {
		if _, ok := seenIDs[evt.ID]; ok {
			continue
		}
		seenIDs[evt.ID] = struct{}{}
		events = append(events, evt)
	}

	answered := 0
	var errs []error
	for outcome := range outcomes {
		if outcome.err == nil || outcome.received > 0 {
			answered++
			if outcome.err != nil {
				e.logger.Debug("relay ended early", "relay", outcome.relayURL,
					"received", outcome.received, "error", outcome.err)
			}
			continue
		}
		e.logger.Warn("relay query failed", "relay", outcome.relayURL, "error", outcome.err)
		errs = append(errs, outcome.err)
	}

	e.metrics.ObserveFanout(time.Since(start), len(errs), len(events))
	e.logger.Debug("fan-out complete",
		"relays", len(relays),
		"answered", answered,
		"events", len(events),
		"duration_ms", time.Since(start).Milliseconds())

	if answered == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoReachableRelay, errors.Join(errs...))
	}
	return events, nil
}

// QueryOne returns the newest matching event across relays, or nil when none matched.
func (e *Engine) QueryOne(ctx context.Context, relays []string, filter nostr.Filter) (*nostr.Event, error) {
	events, err := e.Query(ctx, relays, filter)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	newest := events[0]
	for _, evt := range events[1:] {
		if evt.CreatedAt > newest.CreatedAt {
			newest = evt
		}
	}
	return &newest, nil
}

func (e *Engine) queryRelay(ctx context.Context, pool *Pool, relayURL string, filter nostr.Filter, out chan<- nostr.Event) (int, error) {
	conn, err := pool.Connect(ctx, relayURL)
	if err != nil {
		return 0, err
	}

	received := 0
	err = conn.Query(ctx, filter, func(evt nostr.Event) {
		received++
		out <- evt
	})
	return received, err
}
