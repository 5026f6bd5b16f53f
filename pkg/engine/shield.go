package engine

import (
	"strconv"
	"strings"
)

// shield swaps protected literals for placeholder tokens and back.
//
// A placeholder is a run of NULs, a decimal index and the same run of
// NULs. The run is one longer than any NUL run in the text or in the
// protected literals, so a placeholder cannot be confused with content.
// Post-processors neither create nor remove NULs, so they cannot forge
// or damage one.
type shield struct {
	hide    *strings.Replacer
	reveal  *strings.Replacer
	enabled bool
}

// newShield prepares a shield for protected, ordered longest first, over
// text. When nothing is protected the shield is a no-op.
func newShield(text string, protected []string) *shield {
	if len(protected) == 0 {
		return &shield{}
	}

	longest := longestNULRun(text)
	for _, p := range protected {
		if n := longestNULRun(p); n > longest {
			longest = n
		}
	}
	delim := strings.Repeat("\x00", longest+1)

	hide := make([]string, 0, 2*len(protected))
	reveal := make([]string, 0, 2*len(protected))
	for i, p := range protected {
		token := delim + strconv.Itoa(i) + delim
		hide = append(hide, p, token)
		reveal = append(reveal, token, p)
	}

	return &shield{
		hide:    strings.NewReplacer(hide...),
		reveal:  strings.NewReplacer(reveal...),
		enabled: true,
	}
}

// Hide replaces every protected literal in one left-to-right pass. At a
// given position the longest literal wins.
func (s *shield) Hide(text string) string {
	if !s.enabled {
		return text
	}
	return s.hide.Replace(text)
}

// Reveal restores the literals hidden by Hide.
func (s *shield) Reveal(text string) string {
	if !s.enabled {
		return text
	}
	return s.reveal.Replace(text)
}

func longestNULRun(s string) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	return longest
}
