package rules

import (
	stderrors "errors"
	"slices"

	"github.com/arthur-debert/pimfix/pkg/errors"
)

// SelectAll is the selection name that keeps every rule.
const SelectAll = "all"

// Select keeps the rules named in names, in rule order. An empty list or
// one containing SelectAll keeps everything. Names that match no rule
// are reported as RULE_NOT_FOUND errors alongside the selection.
func Select(rs []*Rule, names []string) ([]*Rule, error) {
	if len(names) == 0 || slices.Contains(names, SelectAll) {
		return rs, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []*Rule
	found := make(map[string]bool, len(names))
	for _, r := range rs {
		if wanted[r.Name()] {
			out = append(out, r)
			found[r.Name()] = true
		}
	}

	var errs []error
	for _, n := range names {
		if !found[n] {
			errs = append(errs, errors.Newf(errors.ErrRuleNotFound, "no rule named %q", n).WithDetail("rule", n))
			found[n] = true
		}
	}
	return out, stderrors.Join(errs...)
}

// Names returns the names of rs in order.
func Names(rs []*Rule) []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name()
	}
	return names
}
