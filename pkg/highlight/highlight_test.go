package highlight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpans(t *testing.T) {
	tests := []struct {
		name     string
		old      string
		new      string
		removed  []string
		inserted []string
	}{
		{
			name:     "replacement",
			old:      "EN 388:2016",
			new:      "EN&nbsp;388:2016",
			removed:  []string{" "},
			inserted: []string{"&nbsp;"},
		},
		{
			name:     "insertion only",
			old:      "&copy:",
			new:      "&copy;",
			removed:  []string{":"},
			inserted: []string{";"},
		},
		{
			name: "unchanged",
			old:  "same",
			new:  "same",
		},
		{
			name:     "multibyte",
			old:      "Preis&copy; 5",
			new:      "Preis© 5",
			removed:  []string{"&copy;"},
			inserted: []string{"©"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			removed, inserted := Spans(tt.old, tt.new)
			assert.Equal(t, tt.removed, slice(tt.old, removed))
			assert.Equal(t, tt.inserted, slice(tt.new, inserted))
		})
	}
}

func slice(s string, spans []Span) []string {
	var out []string
	for _, sp := range spans {
		out = append(out, s[sp.Start:sp.End])
	}
	return out
}

func TestDiffWithoutColor(t *testing.T) {
	h := New(false)
	old, new := h.Diff("EN 388:2016", "EN&nbsp;388:2016")
	assert.Equal(t, "EN 388:2016", old)
	assert.Equal(t, "EN&nbsp;388:2016", new)
}

func TestDiffWithColor(t *testing.T) {
	h := New(true)
	old, new := h.Diff("a\tEN 1:2000", "a\tEN&nbsp;1:2000")

	assert.Contains(t, old, "\x1b[")
	assert.Contains(t, new, "\x1b[")
	assert.Contains(t, new, "&nbsp;")
	assert.Contains(t, new, "a\tEN", "tabs and unchanged text pass through")
}

func TestColorEnabled(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, ColorEnabled(f), "regular files are not terminals")
	assert.False(t, ColorEnabled(nil))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(os.Stdout))
}
