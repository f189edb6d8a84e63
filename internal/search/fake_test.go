package search

import (
	"context"
	"slices"
	"sync"

	"github.com/nbd-wtf/go-nostr"
)

type queryCall struct {
	relays []string
	filter nostr.Filter
}

// fakeQuerier answers from a fixed event set, applying the parts of the filter the
// search service uses
type fakeQuerier struct {
	mu     sync.Mutex
	events []nostr.Event
	err    error
	calls  []queryCall
}

func (q *fakeQuerier) Query(ctx context.Context, relays []string, filter nostr.Filter) ([]nostr.Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.calls = append(q.calls, queryCall{relays: relays, filter: filter})
	if q.err != nil {
		return nil, q.err
	}

	var out []nostr.Event
	for _, evt := range q.events {
		if len(filter.Kinds) > 0 && !slices.Contains(filter.Kinds, evt.Kind) {
			continue
		}
		if len(filter.Authors) > 0 && !slices.Contains(filter.Authors, evt.PubKey) {
			continue
		}
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, evt.ID) {
			continue
		}
		out = append(out, evt)
	}
	return out, nil
}

func (q *fakeQuerier) callCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.calls)
}

type fakeDirectory struct {
	relays      []string
	relaysErr   error
	followed    []string
	followedErr error
}

func (d *fakeDirectory) Relays(ctx context.Context, pubkey string) ([]string, error) {
	return d.relays, d.relaysErr
}

func (d *fakeDirectory) Followed(ctx context.Context, pubkey string) ([]string, error) {
	return d.followed, d.followedErr
}

func textNote(id, pubkey string, createdAt int64) nostr.Event {
	return nostr.Event{ID: id, PubKey: pubkey, Kind: nostr.KindTextNote, CreatedAt: nostr.Timestamp(createdAt)}
}

func reaction(id, pubkey string, tags nostr.Tags) nostr.Event {
	return nostr.Event{ID: id, PubKey: pubkey, Kind: nostr.KindReaction, Tags: tags, Content: "+"}
}

func eventIDs(events []nostr.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
