// Package scan reports what a rule set would touch without changing any
// text. It is used to review a catalog before normalizing it.
package scan

import (
	"sort"
	"sync"

	"github.com/arthur-debert/pimfix/pkg/engine"
	"github.com/arthur-debert/pimfix/pkg/rules"
)

// Matches returns the sorted, unique substrings r's pattern matches in
// text. When the pattern has capture groups the first group is reported,
// otherwise the whole match.
func Matches(text string, r *rules.Rule) []string {
	seen := make(map[string]bool)
	for _, m := range findings(text, r) {
		seen[m] = true
	}
	return sortedKeys(seen)
}

func findings(text string, r *rules.Rule) []string {
	re := r.Pattern()
	var out []string
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		lo, hi := m[0], m[1]
		if re.NumSubexp() > 0 && m[2] >= 0 {
			lo, hi = m[2], m[3]
		}
		out = append(out, text[lo:hi])
	}
	return out
}

// Finding is one unique match for a rule across everything scanned.
type Finding struct {
	Match string
	// Preview is Match after the rule alone was applied to it.
	Preview string
	Count   int
}

// Result groups the findings of one rule.
type Result struct {
	Rule     string
	Findings []Finding
}

// Collector accumulates findings across many texts. It is safe for
// concurrent use.
type Collector struct {
	mu    sync.Mutex
	rules []*rules.Rule
	found []map[string]int
	texts int
}

// NewCollector creates a collector for rs.
func NewCollector(rs []*rules.Rule) *Collector {
	found := make([]map[string]int, len(rs))
	for i := range found {
		found[i] = make(map[string]int)
	}
	return &Collector{rules: rs, found: found}
}

// Add scans one text with every rule.
func (c *Collector) Add(text string) {
	local := make([][]string, len(c.rules))
	for i, r := range c.rules {
		local[i] = findings(text, r)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts++
	for i, ms := range local {
		for _, m := range ms {
			c.found[i][m]++
		}
	}
}

// Texts returns how many texts were scanned.
func (c *Collector) Texts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.texts
}

// Results returns findings for every rule that matched, in rule order.
// Findings within a rule are sorted by match.
func (c *Collector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	var results []Result
	for i, r := range c.rules {
		if len(c.found[i]) == 0 {
			continue
		}
		res := Result{Rule: r.Name()}
		for _, m := range sortedKeys(c.found[i]) {
			res.Findings = append(res.Findings, Finding{
				Match:   m,
				Preview: engine.ApplyRule(m, r),
				Count:   c.found[i][m],
			})
		}
		results = append(results, res)
	}
	return results
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
