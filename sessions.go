package main

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v2"

	"nostr-search/internal/metrics"
	"nostr-search/internal/search"
)

const (
	sessionCookieName = "search_session"
	sessionIdleTTL    = 30 * time.Minute
)

// sessionStore keeps one search session per browser, keyed by cookie
type sessionStore struct {
	sessions *xsync.MapOf[string, *search.Session]
	searcher search.Searcher
	step     int
	ttl      time.Duration
	metrics  *metrics.Metrics
}

func newSessionStore(searcher search.Searcher, step int, m *metrics.Metrics) *sessionStore {
	return &sessionStore{
		sessions: xsync.NewMapOf[*search.Session](),
		searcher: searcher,
		step:     step,
		ttl:      sessionIdleTTL,
		metrics:  m,
	}
}

// lookup returns the session named by the request cookie, if it is still live
func (st *sessionStore) lookup(r *http.Request) (*search.Session, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	return st.sessions.Load(c.Value)
}

// get returns the request's session, creating one and setting its cookie when needed
func (st *sessionStore) get(w http.ResponseWriter, r *http.Request) *search.Session {
	if sess, ok := st.lookup(r); ok {
		return sess
	}

	id := uuid.NewString()
	sess := search.NewSession(st.searcher, st.step)
	st.sessions.Store(id, sess)
	st.metrics.SetActiveSessions(st.sessions.Size())

	SetSessionCookie(w, r, sessionCookieName, id, int(st.ttl.Seconds()))
	return sess
}

// sweep drops sessions idle since before now-ttl and returns how many were removed
func (st *sessionStore) sweep(now time.Time) int {
	removed := 0
	st.sessions.Range(func(id string, sess *search.Session) bool {
		if now.Sub(sess.LastActive()) > st.ttl {
			st.sessions.Delete(id)
			removed++
		}
		return true
	})
	st.metrics.SetActiveSessions(st.sessions.Size())
	return removed
}

// run sweeps idle sessions every interval until ctx ends
func (st *sessionStore) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			st.sweep(now)
		}
	}
}
