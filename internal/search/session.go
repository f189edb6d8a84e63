package search

import (
	"context"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"nostr-search/internal/paging"
)

// Searcher runs one search
type Searcher interface {
	Search(ctx context.Context, req Request) (*Result, error)
}

// Snapshot is a consistent view of a session
type Snapshot struct {
	Generation uint64
	Request    Request
	Loading    bool
	Pubkey     string
	Window     paging.Window
	Visible    []nostr.Event
	Err        error
}

// Session holds the resident result set of one user. Every submission gets a new
// generation; a response for an older generation never replaces newer state.
type Session struct {
	searcher Searcher
	step     int

	mu         sync.Mutex
	generation uint64
	loading    bool
	request    Request
	pubkey     string
	events     []nostr.Event
	window     paging.Window
	err        error
	lastActive time.Time
}

// NewSession creates an empty session revealing step results at a time
func NewSession(searcher Searcher, step int) *Session {
	if step <= 0 {
		step = paging.DefaultStep
	}
	return &Session{
		searcher:   searcher,
		step:       step,
		window:     paging.NewWindow(0, step),
		lastActive: time.Now(),
	}
}

// Submit runs req and installs its result. The previous result set is cleared as soon
// as the submission starts. Returns ErrSuperseded if a newer submission began meanwhile.
func (s *Session) Submit(ctx context.Context, req Request) (Snapshot, error) {
	gen := s.Begin(req)
	res, err := s.searcher.Search(ctx, req)
	return s.Complete(gen, res, err)
}

// Begin starts a new generation and resets the result set
func (s *Session) Begin(req Request) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.loading = true
	s.request = req
	s.pubkey = ""
	s.events = nil
	s.window = paging.NewWindow(0, s.step)
	s.err = nil
	s.lastActive = time.Now()
	return s.generation
}

// Complete installs the outcome of generation gen. Failures leave an empty result set.
func (s *Session) Complete(gen uint64, res *Result, err error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return Snapshot{}, ErrSuperseded
	}

	s.loading = false
	s.lastActive = time.Now()
	if err != nil {
		s.events = nil
		s.window = paging.NewWindow(0, s.step)
		s.err = err
		return s.snapshot(), err
	}

	s.pubkey = res.Pubkey
	s.events = res.Events
	s.window = paging.NewWindow(len(res.Events), s.step).Advance()
	return s.snapshot(), nil
}

// LoadMore reveals the next step of the resident result set
func (s *Session) LoadMore() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.window = s.window.Advance()
	s.lastActive = time.Now()
	return s.snapshot()
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// LastActive reports when the session was last used
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		Generation: s.generation,
		Request:    s.request,
		Loading:    s.loading,
		Pubkey:     s.pubkey,
		Window:     s.window,
		Visible:    paging.Visible(s.window, s.events),
		Err:        s.err,
	}
}
