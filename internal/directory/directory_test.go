package directory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostr-search/internal/cache"
)

var (
	alice = strings.Repeat("a", 64)
	bob   = strings.Repeat("b", 64)
	carol = strings.Repeat("c", 64)
)

type fakeFinder struct {
	mu      sync.Mutex
	events  map[int]*nostr.Event
	err     error
	delay   time.Duration
	calls   atomic.Int32
	filters []nostr.Filter
	relays  [][]string
}

func (f *fakeFinder) QueryOne(ctx context.Context, relays []string, filter nostr.Filter) (*nostr.Event, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.relays = append(f.relays, relays)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[filter.Kinds[0]], nil
}

func newDirectory(f Finder) (*Directory, *cache.MemoryStore) {
	store := cache.NewMemoryStore()
	return New(f, store, Config{
		RelayListRelays:  []string{"wss://purplepag.es"},
		FollowListRelays: []string{"wss://relay.damus.io"},
	}), store
}

func TestRelaysExtractsAndCaches(t *testing.T) {
	finder := &fakeFinder{events: map[int]*nostr.Event{
		nostr.KindRelayListMetadata: {Tags: nostr.Tags{
			{"r", "wss://relay.one"},
			{"r", "wss://relay.two", "read"},
			{"r", "wss://relay.one"},
			{"r", "https://not-a-relay"},
			{"p", alice},
		}},
	}}
	dir, store := newDirectory(finder)

	relays, err := dir.Relays(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"wss://relay.one", "wss://relay.two"}, relays)

	relays, err = dir.Relays(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"wss://relay.one", "wss://relay.two"}, relays)

	assert.Equal(t, int32(1), finder.calls.Load(), "second call should be served from the store")
	assert.Equal(t, 1, store.Len())

	require.Len(t, finder.filters, 1)
	assert.Equal(t, []int{nostr.KindRelayListMetadata}, finder.filters[0].Kinds)
	assert.Equal(t, []string{alice}, finder.filters[0].Authors)
	assert.Equal(t, []string{"wss://purplepag.es"}, finder.relays[0])
}

func TestFollowedExtractsPTags(t *testing.T) {
	finder := &fakeFinder{events: map[int]*nostr.Event{
		nostr.KindContactList: {Tags: nostr.Tags{
			{"p", bob, "wss://relay.example", "bob"},
			{"p", strings.ToUpper(carol)},
			{"p", "not-a-key"},
			{"p", bob},
			{"t", "nostr"},
		}},
	}}
	dir, _ := newDirectory(finder)

	followed, err := dir.Followed(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, []string{bob, carol}, followed)
	assert.Equal(t, []string{"wss://relay.damus.io"}, finder.relays[0])
}

func TestEmptyResultIsNotCached(t *testing.T) {
	finder := &fakeFinder{events: map[int]*nostr.Event{}}
	dir, store := newDirectory(finder)

	relays, err := dir.Relays(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, relays)

	_, err = dir.Relays(context.Background(), alice)
	require.NoError(t, err)

	assert.Equal(t, int32(2), finder.calls.Load())
	assert.Equal(t, 0, store.Len())
}

func TestRecordWithoutUsableTagsIsNotCached(t *testing.T) {
	finder := &fakeFinder{events: map[int]*nostr.Event{
		nostr.KindContactList: {Tags: nostr.Tags{{"t", "nostr"}}},
	}}
	dir, store := newDirectory(finder)

	followed, err := dir.Followed(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, followed)
	assert.Equal(t, 0, store.Len())
}

func TestLookupErrorIsReturnedAndNotCached(t *testing.T) {
	netErr := errors.New("all relays down")
	finder := &fakeFinder{err: netErr}
	dir, store := newDirectory(finder)

	relays, err := dir.Relays(context.Background(), alice)
	assert.ErrorIs(t, err, netErr)
	assert.Nil(t, relays)
	assert.Equal(t, 0, store.Len())

	finder.err = nil
	finder.events = map[int]*nostr.Event{
		nostr.KindRelayListMetadata: {Tags: nostr.Tags{{"r", "wss://back.online"}}},
	}
	relays, err = dir.Relays(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"wss://back.online"}, relays)
}

func TestConcurrentLookupsShareOneFetch(t *testing.T) {
	finder := &fakeFinder{
		delay: 50 * time.Millisecond,
		events: map[int]*nostr.Event{
			nostr.KindContactList: {Tags: nostr.Tags{{"p", bob}}},
		},
	}
	dir, _ := newDirectory(finder)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			followed, err := dir.Followed(context.Background(), alice)
			assert.NoError(t, err)
			assert.Equal(t, []string{bob}, followed)
		}()
	}
	wg.Wait()

	assert.Less(t, finder.calls.Load(), int32(8))
}

func TestRelaysAndFollowedUseSeparateKeys(t *testing.T) {
	finder := &fakeFinder{events: map[int]*nostr.Event{
		nostr.KindRelayListMetadata: {Tags: nostr.Tags{{"r", "wss://relay.one"}}},
		nostr.KindContactList:       {Tags: nostr.Tags{{"p", bob}}},
	}}
	dir, store := newDirectory(finder)

	relays, err := dir.Relays(context.Background(), alice)
	require.NoError(t, err)
	followed, err := dir.Followed(context.Background(), alice)
	require.NoError(t, err)

	assert.Equal(t, []string{"wss://relay.one"}, relays)
	assert.Equal(t, []string{bob}, followed)
	assert.Equal(t, 2, store.Len())
}
