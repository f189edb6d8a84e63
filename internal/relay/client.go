// Package relay talks to Nostr relays: a websocket client for one-shot queries,
// a per-call connection pool and the fan-out engine built on both.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nbd-wtf/go-nostr"
)

var (
	// ErrUnsafeURL is returned when a relay URL points at a blocked destination
	ErrUnsafeURL = errors.New("relay URL blocked: unsafe destination")
	// ErrSubscriptionClosed is returned when a relay answers a REQ with CLOSED
	ErrSubscriptionClosed = errors.New("subscription closed by relay")
)

const writeTimeout = 10 * time.Second

// Conn is one relay connection able to answer one-shot queries
type Conn interface {
	// Query sends filter and calls fn for every matching event until the relay signals
	// end of stored events (nil), closes the subscription, or ctx ends.
	Query(ctx context.Context, filter nostr.Filter, fn func(nostr.Event)) error
	Close() error
}

// Dialer opens relay connections
type Dialer interface {
	Dial(ctx context.Context, relayURL string) (Conn, error)
}

// WebsocketDialer dials relays over gorilla/websocket
type WebsocketDialer struct {
	Dialer *websocket.Dialer
	// AllowPrivate skips the SSRF guard; tests point it at httptest servers.
	AllowPrivate bool
	Logger       *slog.Logger
}

// Dial connects to relayURL
func (d *WebsocketDialer) Dial(ctx context.Context, relayURL string) (Conn, error) {
	if !d.AllowPrivate && !IsURLSafe(relayURL) {
		return nil, fmt.Errorf("%w: %s", ErrUnsafeURL, relayURL)
	}

	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, resp, err := dialer.DialContext(ctx, relayURL, http.Header{})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", relayURL, err)
	}
	logger.Debug("connected to relay", "relay", relayURL)

	return &wsConn{conn: conn, relayURL: relayURL, logger: logger}, nil
}

type wsConn struct {
	conn      *websocket.Conn
	relayURL  string
	logger    *slog.Logger
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func (c *wsConn) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	defer c.conn.SetWriteDeadline(time.Time{})
	return c.conn.WriteJSON(v)
}

func (c *wsConn) Query(ctx context.Context, filter nostr.Filter, fn func(nostr.Event)) error {
	subID := "search-" + uuid.NewString()[:8]
	if err := c.writeJSON([]any{"REQ", subID, filter}); err != nil {
		return fmt.Errorf("send REQ to %s: %w", c.relayURL, err)
	}

	// ReadJSON does not watch ctx; an expired read deadline unblocks it.
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		var msg []json.RawMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("read from %s: %w", c.relayURL, err)
		}
		if len(msg) < 2 {
			continue
		}

		var msgType string
		if err := json.Unmarshal(msg[0], &msgType); err != nil {
			continue
		}

		switch msgType {
		case "EVENT":
			if len(msg) < 3 || !matchesSub(msg[1], subID) {
				continue
			}
			var evt nostr.Event
			if err := json.Unmarshal(msg[2], &evt); err != nil || evt.ID == "" {
				continue
			}
			fn(evt)

		case "EOSE":
			if !matchesSub(msg[1], subID) {
				continue
			}
			// Best effort; the connection is torn down with the pool anyway.
			if err := c.writeJSON([]any{"CLOSE", subID}); err != nil {
				c.logger.Debug("failed to send CLOSE", "relay", c.relayURL, "error", err)
			}
			return nil

		case "CLOSED":
			if !matchesSub(msg[1], subID) {
				continue
			}
			var reason string
			if len(msg) >= 3 {
				json.Unmarshal(msg[2], &reason)
			}
			return fmt.Errorf("%w: %s: %s", ErrSubscriptionClosed, c.relayURL, reason)

		case "NOTICE":
			var notice string
			json.Unmarshal(msg[1], &notice)
			c.logger.Debug("relay notice", "relay", c.relayURL, "notice", notice)
		}
	}
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func matchesSub(raw json.RawMessage, subID string) bool {
	var got string
	if err := json.Unmarshal(raw, &got); err != nil {
		return false
	}
	return got == subID
}
