package aggregate

import "github.com/nbd-wtf/go-nostr"

// LastTagValue returns the value of the most recently appended tag with the given name.
// Tags are scanned from the end; tags without a value are skipped.
func LastTagValue(tags nostr.Tags, name string) (string, bool) {
	for i := len(tags) - 1; i >= 0; i-- {
		tag := tags[i]
		if len(tag) >= 2 && tag[0] == name && tag[1] != "" {
			return tag[1], true
		}
	}
	return "", false
}

// ReactionTargets returns the IDs referenced by reaction events, deduplicated in input
// order. A reaction references the event in its last "e" tag; reactions without one
// are dropped.
func ReactionTargets(reactions []nostr.Event) []string {
	seen := make(map[string]struct{}, len(reactions))
	var ids []string
	for _, evt := range reactions {
		id, ok := LastTagValue(evt.Tags, "e")
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
