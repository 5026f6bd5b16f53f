// Package highlight renders the difference between a text before and
// after normalization, marking the characters that changed.
package highlight

import (
	"io"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/pimfix/pkg/style"
)

// Span is a byte range [Start, End) within a string.
type Span struct {
	Start int
	End   int
}

// Spans returns the ranges of old that were removed or replaced and the
// ranges of new that were inserted in their place. Edits respect rune
// boundaries.
func Spans(old, new string) (removed, inserted []Span) {
	delta := 0
	for _, edit := range udiff.Strings(old, new) {
		if edit.End > edit.Start {
			removed = append(removed, Span{Start: edit.Start, End: edit.End})
		}
		if edit.New != "" {
			start := edit.Start + delta
			inserted = append(inserted, Span{Start: start, End: start + len(edit.New)})
		}
		delta += len(edit.New) - (edit.End - edit.Start)
	}
	return removed, inserted
}

// Highlighter styles changed spans.
type Highlighter struct {
	color   bool
	changed lipgloss.Style
}

// New creates a Highlighter. With color false, output is the input text
// unchanged.
func New(color bool) *Highlighter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)
	r.SetHasDarkBackground(true)
	return &Highlighter{
		color: color,
		changed: r.NewStyle().
			Foreground(style.ErrorColor).
			Bold(true).
			Underline(true).
			TabWidth(lipgloss.NoTabConversion),
	}
}

// Diff renders old with removed spans styled and new with inserted spans
// styled.
func (h *Highlighter) Diff(old, new string) (string, string) {
	removed, inserted := Spans(old, new)
	return h.render(old, removed), h.render(new, inserted)
}

func (h *Highlighter) render(text string, spans []Span) string {
	if !h.color || len(spans) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, s := range spans {
		b.WriteString(text[last:s.Start])
		// lipgloss pads multi-line blocks, so style each line on its own.
		for i, line := range strings.Split(text[s.Start:s.End], "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(h.changed.Render(line))
			}
		}
		last = s.End
	}
	b.WriteString(text[last:])
	return b.String()
}
