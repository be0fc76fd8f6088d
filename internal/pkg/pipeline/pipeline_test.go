package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Input validation runs before any store access, so these paths are exercised
// without a database handle.

func TestSubmit_RejectsOutOfRangeRating(t *testing.T) {
	p := New(nil)

	for _, rating := range []int{-1, 0, 6, 100} {
		id, err := p.Submit("any-slug", SubmitInput{Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
		assert.Zero(t, id)
	}
}

func TestSubmit_RejectsOversizedComment(t *testing.T) {
	p := New(nil)

	// The limit counts characters, not bytes: 501 two-byte runes must be
	// rejected for their length, not for their encoding.
	for _, comment := range []string{
		strings.Repeat("x", MaxCommentLength+1),
		strings.Repeat("é", MaxCommentLength+1),
	} {
		id, err := p.Submit("any-slug", SubmitInput{Rating: 5, Comment: comment})
		assert.ErrorIs(t, err, ErrCommentTooLong)
		assert.Zero(t, id)
	}
}

func TestVoterKeyFromIP(t *testing.T) {
	a := VoterKeyFromIP("203.0.113.7")
	b := VoterKeyFromIP("203.0.113.7")
	c := VoterKeyFromIP("203.0.113.8")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
	assert.NotContains(t, a, "203.0.113.7")
}
