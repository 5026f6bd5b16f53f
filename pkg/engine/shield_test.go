package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShieldRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		protected []string
	}{
		{"nothing protected", "a &amp; b", nil},
		{"single literal", "a &bull; b &bull;", []string{"&bull;"}},
		{"digits next to tokens", "&bull;1&bull;12", []string{"&bull;", "1"}},
		{"NUL runs", "\x00\x00&bull;\x00", []string{"&bull;"}},
		{"literal containing NUL", "a\x00b", []string{"a\x00b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newShield(tt.text, tt.protected)
			hidden := s.Hide(tt.text)
			if len(tt.protected) > 0 {
				assert.NotContains(t, hidden, tt.protected[0])
			}
			assert.Equal(t, tt.text, s.Reveal(hidden))
		})
	}
}

func TestLongestNULRun(t *testing.T) {
	assert.Equal(t, 0, longestNULRun("abc"))
	assert.Equal(t, 1, longestNULRun("a\x00b"))
	assert.Equal(t, 3, longestNULRun("\x00a\x00\x00\x00"))
}
