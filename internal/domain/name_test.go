package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDisplayName(t *testing.T) {
	assert.Equal(t, "Lina", SanitizeDisplayName("  Lina  "))
	assert.Equal(t, "scriptalert/script", SanitizeDisplayName("<script>alert</script>"))
	assert.Equal(t, "plain", SanitizeDisplayName("plain"))
}

func TestValidateDisplayName(t *testing.T) {
	valid := []string{
		"Lina",
		"raid leader 01",
		"under_score-dash",
		"千羽夜",
	}
	for _, name := range valid {
		assert.NoError(t, ValidateDisplayName(name), name)
	}

	invalid := []string{
		"",
		"   ",
		strings.Repeat("x", MaxDisplayNameLen+1),
		"someone@example.com",
		"lure.example.com",
		"visit-me.dev",
		"has!bang",
	}
	for _, name := range invalid {
		assert.Error(t, ValidateDisplayName(name), name)
	}
}

func TestNormalizeRoom(t *testing.T) {
	assert.Equal(t, DefaultRoom, NormalizeRoom(""))
	assert.Equal(t, DefaultRoom, NormalizeRoom("   "))
	assert.Equal(t, RoomName("raid"), NormalizeRoom(" raid "))
}
