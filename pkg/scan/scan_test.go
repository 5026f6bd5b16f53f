package scan

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/pimfix/pkg/rules"
)

func TestMatches(t *testing.T) {
	rs := rules.LoadDefault()

	assert.Equal(t, []string{"&copy:", "&reg:"}, Matches("a&reg: b&copy: c&reg:", rs[0]),
		"first group, unique and sorted")
	assert.Empty(t, Matches("nothing here", rs[0]))

	whole, err := rules.New(rules.Definition{Name: "w", SearchPattern: `EN\s*\d+`})
	require.NoError(t, err)
	assert.Equal(t, []string{"EN 1", "EN2"}, Matches("EN2 and EN 1", whole), "whole match without groups")
}

func TestCollector(t *testing.T) {
	c := NewCollector(rules.LoadDefault())
	c.Add("price&copy: 5 EN 123:2019")
	c.Add("x&#8226:y &copy:")
	c.Add("clean")

	assert.Equal(t, 3, c.Texts())

	results := c.Results()
	require.Len(t, results, 3)

	assert.Equal(t, "invalid html entities", results[0].Rule)
	assert.Equal(t, []Finding{{Match: "&copy:", Preview: "&copy;", Count: 2}}, results[0].Findings)

	assert.Equal(t, "invalid html numbered entities", results[1].Rule)
	assert.Equal(t, []Finding{{Match: "&#8226:", Preview: "&bull;", Count: 1}}, results[1].Findings)

	assert.Equal(t, "fix En:yyyy standard", results[2].Rule)
	assert.Equal(t, "EN 123:2019", results[2].Findings[0].Match)
	assert.Equal(t, "EN&nbsp;123:2019", results[2].Findings[0].Preview)
}

func TestCollectorConcurrentAdd(t *testing.T) {
	c := NewCollector(rules.LoadDefault())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add("&copy:")
		}()
	}
	wg.Wait()

	results := c.Results()
	require.Len(t, results, 1)
	assert.Equal(t, 20, results[0].Findings[0].Count)
}
