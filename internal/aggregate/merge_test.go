package aggregate

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(id string, createdAt int64) nostr.Event {
	return nostr.Event{ID: id, CreatedAt: nostr.Timestamp(createdAt), Kind: 1}
}

func ids(events []nostr.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func assertSortedDesc(t *testing.T, events []nostr.Event) {
	t.Helper()
	assert.True(t, sort.SliceIsSorted(events, func(i, j int) bool {
		return events[i].CreatedAt > events[j].CreatedAt
	}), "events not sorted newest first: %v", ids(events))
}

func TestMergeDedupesAcrossRelays(t *testing.T) {
	relayA := []nostr.Event{ev("a", 100), ev("shared", 300)}
	relayB := []nostr.Event{ev("shared", 300), ev("b", 200)}

	merged := Merge(relayA, relayB)

	assert.Equal(t, []string{"shared", "b", "a"}, ids(merged))
}

func TestMergeFirstOccurrenceWins(t *testing.T) {
	first := ev("x", 10)
	first.Content = "from relay A"
	second := ev("x", 10)
	second.Content = "from relay B"

	merged := Merge([]nostr.Event{first}, []nostr.Event{second})

	require.Len(t, merged, 1)
	assert.Equal(t, "from relay A", merged[0].Content)
}

func TestMergeStableForEqualTimestamps(t *testing.T) {
	merged := Merge(
		[]nostr.Event{ev("c1", 50), ev("c2", 50)},
		[]nostr.Event{ev("c3", 50), ev("newer", 60)},
	)
	assert.Equal(t, []string{"newer", "c1", "c2", "c3"}, ids(merged))
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Empty(t, Merge())
	assert.Empty(t, Merge(nil, []nostr.Event{}))
	assert.Equal(t, []string{"only"}, ids(Merge(nil, []nostr.Event{ev("only", 1)})))
}

func TestMergeIsIdempotentAndSorted(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		var batches [][]nostr.Event
		for b := 0; b < rng.Intn(5); b++ {
			var batch []nostr.Event
			for i := 0; i < rng.Intn(20); i++ {
				id := string(rune('a' + rng.Intn(26)))
				batch = append(batch, ev(id, int64(rng.Intn(10))))
			}
			batches = append(batches, batch)
		}

		once := Merge(batches...)
		twice := Merge(once)

		assert.Equal(t, ids(once), ids(twice))
		assertSortedDesc(t, once)

		seen := map[string]bool{}
		for _, e := range once {
			assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
			seen[e.ID] = true
		}
	}
}
