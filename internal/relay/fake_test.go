package relay

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nbd-wtf/go-nostr"
)

// fakeRelay scripts how one relay answers a query
type fakeRelay struct {
	events   []nostr.Event
	dialErr  error
	queryErr error
	closeErr error
	// block waits for ctx to end before returning, after sending events
	block bool
}

type fakeDialer struct {
	relays map[string]*fakeRelay

	mu      sync.Mutex
	dialed  []string
	filters []nostr.Filter
	opened  atomic.Int32
	closed  atomic.Int32
}

func (d *fakeDialer) Dial(ctx context.Context, relayURL string) (Conn, error) {
	d.mu.Lock()
	d.dialed = append(d.dialed, relayURL)
	d.mu.Unlock()

	r, ok := d.relays[relayURL]
	if !ok {
		return nil, errors.New("unknown relay " + relayURL)
	}
	if r.dialErr != nil {
		return nil, r.dialErr
	}
	d.opened.Add(1)
	return &fakeConn{relay: r, dialer: d}, nil
}

type fakeConn struct {
	relay  *fakeRelay
	dialer *fakeDialer
}

func (c *fakeConn) Query(ctx context.Context, filter nostr.Filter, fn func(nostr.Event)) error {
	c.dialer.mu.Lock()
	c.dialer.filters = append(c.dialer.filters, filter)
	c.dialer.mu.Unlock()

	for _, evt := range c.relay.events {
		fn(evt)
	}
	if c.relay.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return c.relay.queryErr
}

func (c *fakeConn) Close() error {
	c.dialer.closed.Add(1)
	return c.relay.closeErr
}

func note(id string, createdAt int64) nostr.Event {
	return nostr.Event{ID: id, CreatedAt: nostr.Timestamp(createdAt), Kind: 1}
}

func eventIDs(events []nostr.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
