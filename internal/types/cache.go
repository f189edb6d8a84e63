package types

// CachedDirectoryEntry wraps a directory lookup result for serialization.
// Values holds relay URLs or followed pubkeys depending on the key namespace.
type CachedDirectoryEntry struct {
	Values    []string `json:"values"`
	FetchedAt int64    `json:"fetched_at"`
}
