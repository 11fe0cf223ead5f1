package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCalendarDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2025-04-08", true},
		{"2024-02-29", true},
		{"2025-02-29", false},
		{"2025-4-8", false},
		{"2025-04-08T00:00:00Z", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCalendarDate(tt.input), tt.input)
	}
	assert.True(t, IsCalendarDate(Today()))
}

func TestTagColor(t *testing.T) {
	assert.Equal(t, TagColor("react"), TagColor(" React "))
	assert.Contains(t, TagPalette, TagColor("golang"))

	assert.Equal(t, "#aabbcc", NormalizeColor("x", "#AABBCC"))
	assert.Equal(t, TagColor("x"), NormalizeColor("x", "red"))
	assert.Equal(t, TagColor("x"), NormalizeColor("x", ""))
}

func TestDatePattern(t *testing.T) {
	assert.True(t, datePattern.MatchString("2025-04-08"))
	assert.False(t, datePattern.MatchString("2025-04-08/extra"))
	assert.False(t, datePattern.MatchString("25-04-08"))
}
