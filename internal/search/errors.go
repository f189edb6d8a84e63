package search

import "errors"

var (
	// ErrNoCriteria is returned when a request names neither an identity nor search text
	ErrNoCriteria = errors.New("enter an identity or search text")
	// ErrInvalidRequest wraps field validation failures
	ErrInvalidRequest = errors.New("invalid search request")
	// ErrSuperseded is returned for a response that belongs to an older submission
	ErrSuperseded = errors.New("search superseded by a newer submission")
)
