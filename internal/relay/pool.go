package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed is returned by Connect after Close
var ErrPoolClosed = errors.New("relay pool closed")

// Pool holds the connections opened for a single fan-out call.
// It is not reused: Close tears every connection down.
type Pool struct {
	dialer Dialer

	mu     sync.Mutex
	conns  map[string]Conn
	closed bool
}

// NewPool creates an empty pool dialing through d
func NewPool(d Dialer) *Pool {
	return &Pool{
		dialer: d,
		conns:  make(map[string]Conn),
	}
}

// Connect gets an existing connection or creates a new one
func (p *Pool) Connect(ctx context.Context, relayURL string) (Conn, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if conn := p.conns[relayURL]; conn != nil {
		p.mu.Unlock()
		return conn, nil
	}
	p.mu.Unlock()

	conn, err := p.dialer.Dial(ctx, relayURL)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Close raced with the dial
	if p.closed {
		conn.Close()
		return nil, ErrPoolClosed
	}
	if existing := p.conns[relayURL]; existing != nil {
		conn.Close()
		return existing, nil
	}
	p.conns[relayURL] = conn
	return conn, nil
}

// Size returns the number of open connections
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

// Close closes every connection. Safe to call more than once.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	conns := p.conns
	p.conns = make(map[string]Conn)
	p.mu.Unlock()

	var errs []error
	for relayURL, conn := range conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", relayURL, err))
		}
	}
	return errors.Join(errs...)
}
