package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFor_Boundaries(t *testing.T) {
	assert.Equal(t, LEVEL_PLATINUM, LevelFor(80, 90))
	// just below the response-rate cut stays gold at best
	assert.Equal(t, LEVEL_GOLD, LevelFor(79.9, 100))
	assert.Equal(t, LEVEL_GOLD, LevelFor(60, 75))
	assert.Equal(t, LEVEL_SILVER, LevelFor(59.9, 75))
	assert.Equal(t, LEVEL_SILVER, LevelFor(40, 50))
	assert.Equal(t, LEVEL_BRONZE, LevelFor(39.9, 100))
	assert.Equal(t, LEVEL_BRONZE, LevelFor(0, 0))
}

func TestLevelFor_BothConditionsRequired(t *testing.T) {
	// high response rate alone is not platinum
	assert.Equal(t, LEVEL_GOLD, LevelFor(95, 80))
	// high satisfaction alone is not platinum either
	assert.Equal(t, LEVEL_BRONZE, LevelFor(10, 100))
}
