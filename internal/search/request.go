package search

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/nbd-wtf/go-nostr"

	"nostr-search/internal/types"
)

// DateLayout is the accepted format for Since and Until
const DateLayout = "2006-01-02"

// Request is one search submission as entered by the user
type Request struct {
	Identity   string     `json:"identity"`
	Mode       types.Mode `json:"mode"`
	SearchText string     `json:"search"`
	Since      string     `json:"since"`
	Until      string     `json:"until"`
}

// Normalize trims whitespace and lowercases the mode
func (r Request) Normalize() Request {
	r.Identity = strings.TrimSpace(r.Identity)
	r.Mode = types.Mode(strings.ToLower(strings.TrimSpace(string(r.Mode))))
	r.SearchText = strings.TrimSpace(r.SearchText)
	r.Since = strings.TrimSpace(r.Since)
	r.Until = strings.TrimSpace(r.Until)
	return r
}

// Validate checks the request fields. It does not decode the identity.
func (r Request) Validate() error {
	if r.Identity == "" && r.SearchText == "" {
		return ErrNoCriteria
	}

	modes := make([]any, 0, len(types.Modes))
	for _, m := range types.Modes {
		modes = append(modes, m)
	}

	err := validation.ValidateStruct(&r,
		validation.Field(&r.Mode, validation.In(modes...).Error("must be author, following or reactions")),
		validation.Field(&r.SearchText, validation.Length(0, 256)),
		validation.Field(&r.Since, validation.Date(DateLayout).Error("must be a date like 2024-01-31")),
		validation.Field(&r.Until, validation.Date(DateLayout).Error("must be a date like 2024-01-31")),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	since, until, _ := r.Bounds()
	if since != nil && until != nil && *since > *until {
		return fmt.Errorf("%w: since must not be after until", ErrInvalidRequest)
	}
	return nil
}

// Bounds converts Since and Until to timestamps at midnight UTC. Empty dates yield nil.
func (r Request) Bounds() (since, until *nostr.Timestamp, err error) {
	if since, err = parseDate(r.Since); err != nil {
		return nil, nil, err
	}
	if until, err = parseDate(r.Until); err != nil {
		return nil, nil, err
	}
	return since, until, nil
}

func parseDate(s string) (*nostr.Timestamp, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	ts := nostr.Timestamp(t.Unix())
	return &ts, nil
}
