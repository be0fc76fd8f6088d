package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInitialsAvatarURL_Deterministic(t *testing.T) {
	first := GetInitialsAvatarURL("Jean Dupont")
	second := GetInitialsAvatarURL("Jean Dupont")

	assert.Equal(t, first, second)
	assert.Contains(t, first, "seed=Jean+Dupont")
}

func TestGetInitialsAvatarURL_TrimsWhitespace(t *testing.T) {
	assert.Equal(t, GetInitialsAvatarURL("Marie"), GetInitialsAvatarURL("  Marie  "))
}

func TestGetInitialsAvatarURL_EscapesSpecialCharacters(t *testing.T) {
	url := GetInitialsAvatarURL("Анна & Björn")

	assert.NotContains(t, url[len("https://"):], " ")
	assert.NotContains(t, url, "&amp;")
	assert.Contains(t, url, "seed=")
}
