package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUrgentRating(t *testing.T) {
	expected := map[int]bool{1: true, 2: true, 3: false, 4: false, 5: false}
	for rating, urgent := range expected {
		assert.Equal(t, urgent, IsUrgentRating(rating), "rating %d", rating)
	}
}

func TestFeedbackHasComment(t *testing.T) {
	empty := ""
	text := "great service"

	assert.False(t, (&Feedback{}).HasComment())
	assert.False(t, (&Feedback{Comment: &empty}).HasComment())
	assert.True(t, (&Feedback{Comment: &text}).HasComment())
}
