package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiresCriteria(t *testing.T) {
	err := Request{}.Validate()
	assert.ErrorIs(t, err, ErrNoCriteria)

	assert.NoError(t, Request{SearchText: "bitcoin"}.Validate())
	assert.NoError(t, Request{Identity: "npub1whatever"}.Validate())
}

func TestValidateRejectsBadFields(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"unknown mode", Request{Identity: "x", Mode: "global"}},
		{"bad since", Request{Identity: "x", Since: "01/02/2024"}},
		{"bad until", Request{Identity: "x", Until: "2024-13-01"}},
		{"since after until", Request{Identity: "x", Since: "2024-02-01", Until: "2024-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.req.Validate(), ErrInvalidRequest)
		})
	}
}

func TestValidateAcceptsSameDayRange(t *testing.T) {
	req := Request{Identity: "x", Mode: "reactions", Since: "2024-01-01", Until: "2024-01-01"}
	assert.NoError(t, req.Validate())
}

func TestBoundsAreMidnightUTC(t *testing.T) {
	since, until, err := Request{Since: "2024-01-31"}.Bounds()
	require.NoError(t, err)
	require.NotNil(t, since)
	assert.Nil(t, until)

	want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, want, int64(*since))
}

func TestNormalize(t *testing.T) {
	req := Request{Identity: "  npub1abc ", Mode: " Following ", Since: " 2024-01-01"}.Normalize()
	assert.Equal(t, "npub1abc", req.Identity)
	assert.Equal(t, "following", string(req.Mode))
	assert.Equal(t, "2024-01-01", req.Since)
}
