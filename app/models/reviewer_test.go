package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngagementScoreFor(t *testing.T) {
	// volume + quality, no comment
	assert.Equal(t, 10+25, EngagementScoreFor(1, 5.0, false))
	// comment adds a flat 20
	assert.Equal(t, 10+25+20, EngagementScoreFor(1, 5.0, true))
	// average is rounded half away from zero
	assert.Equal(t, 30+23, EngagementScoreFor(3, 4.5, false))
	assert.Equal(t, 0, EngagementScoreFor(0, 0, false))
}

func TestEngagementScoreMonotonicInVolume(t *testing.T) {
	prev := -1
	for count := 0; count <= 60; count++ {
		score := EngagementScoreFor(count, 4.0, false)
		assert.Greater(t, score, prev, "score must grow with review count")
		prev = score
	}
}

func TestBadgeFor_Boundaries(t *testing.T) {
	// exactly at the trusted threshold
	assert.Equal(t, BADGE_TRUSTED, BadgeFor(10, 100))
	// one review short
	assert.Equal(t, BADGE_NEW, BadgeFor(9, 100))
	// one point short
	assert.Equal(t, BADGE_NEW, BadgeFor(10, 99))

	// exactly at the expert threshold
	assert.Equal(t, BADGE_EXPERT, BadgeFor(50, 500))
	assert.Equal(t, BADGE_TRUSTED, BadgeFor(49, 500))
	assert.Equal(t, BADGE_TRUSTED, BadgeFor(50, 499))
}

func TestBadgeFor_FirstMatchWins(t *testing.T) {
	// a score high enough for expert but too few reviews stays trusted
	assert.Equal(t, BADGE_TRUSTED, BadgeFor(12, 10000))
}
