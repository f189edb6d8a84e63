// Package aggregate merges relay replies into one ordered, duplicate-free result set.
package aggregate

import (
	"sort"

	"github.com/nbd-wtf/go-nostr"
)

// Merge flattens batches, keeps the first occurrence of every event ID and orders the
// result newest first. Events with equal created_at keep their flattened order.
func Merge(batches ...[]nostr.Event) []nostr.Event {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	if total == 0 {
		return []nostr.Event{}
	}

	seen := make(map[string]struct{}, total)
	merged := make([]nostr.Event, 0, total)
	for _, batch := range batches {
		for _, evt := range batch {
			if _, ok := seen[evt.ID]; ok {
				continue
			}
			seen[evt.ID] = struct{}{}
			merged = append(merged, evt)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt > merged[j].CreatedAt
	})
	return merged
}
