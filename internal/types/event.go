// Package types provides shared type definitions used across internal packages.
package types

import "strings"

// Mode selects how a search turns an identity into a relay query
type Mode string

const (
	// ModeAuthor fetches notes written by the identity
	ModeAuthor Mode = "author"
	// ModeFollowing fetches notes written by the identity and everyone it follows
	ModeFollowing Mode = "following"
	// ModeReactions fetches the notes the identity reacted to
	ModeReactions Mode = "reactions"
)

// Modes lists every supported mode in display order
var Modes = []Mode{ModeAuthor, ModeFollowing, ModeReactions}

// ParseMode maps user input to a Mode. Empty input selects ModeAuthor.
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeAuthor, true
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Label returns a human readable name for the mode
func (m Mode) Label() string {
	switch m {
	case ModeFollowing:
		return "Notes from identity and follows"
	case ModeReactions:
		return "Notes the identity reacted to"
	default:
		return "Notes from identity"
	}
}
