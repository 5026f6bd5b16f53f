package rules

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/arthur-debert/pimfix/pkg/errors"
	"github.com/arthur-debert/pimfix/pkg/logging"
)

// New validates def and compiles it into a Rule.
func New(def Definition) (*Rule, error) {
	pattern, err := regexp.Compile(def.SearchPattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRulePattern, "rule %q: invalid search_pattern", def.Name).
			WithDetail("rule", def.Name).
			WithDetail("search_pattern", def.SearchPattern)
	}

	tmpl, err := ParseTemplate(def.ReplacementPattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleTemplate, "rule %q: invalid replacement_pattern", def.Name).
			WithDetail("rule", def.Name).
			WithDetail("replacement_pattern", def.ReplacementPattern)
	}
	if groups := pattern.NumSubexp(); tmpl.MaxGroup() > groups {
		return nil, errors.Newf(errors.ErrRuleBackref,
			"rule %q: replacement_pattern references group %d but search_pattern has %d",
			def.Name, tmpl.MaxGroup(), groups).
			WithDetail("rule", def.Name).
			WithDetail("group", tmpl.MaxGroup()).
			WithDetail("groups", groups)
	}

	pp, err := ParsePostProcess(def.PostProcess)
	if err != nil {
		// Already coded; name the rule without wrapping it a second time.
		var pe *errors.PimfixError
		if stderrors.As(err, &pe) {
			pe.Message = fmt.Sprintf("rule %q: %s", def.Name, pe.Message)
			return nil, pe.WithDetail("rule", def.Name)
		}
		return nil, err
	}

	overrides := make([]Override, 0, len(def.Replacements))
	for from, to := range def.Replacements {
		if from == "" {
			return nil, errors.Newf(errors.ErrConfigValid, "rule %q: replacements has an empty key", def.Name).
				WithDetail("rule", def.Name)
		}
		overrides = append(overrides, Override{From: from, To: to})
	}
	sortLongestFirst(overrides, func(o Override) string { return o.From })

	var exceptions []string
	for _, e := range def.PostProcessExceptions {
		if e != "" && !slices.Contains(exceptions, e) {
			exceptions = append(exceptions, e)
		}
	}

	return &Rule{
		name:        def.Name,
		pattern:     pattern,
		template:    tmpl,
		postProcess: pp,
		exceptions:  exceptions,
		overrides:   overrides,
	}, nil
}

// Compile compiles defs in order. Rules that fail are skipped; the
// returned error joins one coded error per failed rule and is nil when
// every rule compiled. The returned slice always holds the rules that
// did compile, in their original order.
func Compile(defs []Definition) ([]*Rule, error) {
	logger := logging.GetLogger("rules")

	compiled := make([]*Rule, 0, len(defs))
	seen := make(map[string]int, len(defs))
	var errs []error

	for i, def := range defs {
		if def.Name == "" {
			def.Name = fmt.Sprintf("#%d", i+1)
		}
		if first, dup := seen[def.Name]; dup {
			errs = append(errs, errors.Newf(errors.ErrRuleDuplicate,
				"rule %q at position %d duplicates position %d", def.Name, i+1, first+1).
				WithDetail("rule", def.Name).
				WithDetail("index", i))
			continue
		}
		seen[def.Name] = i

		rule, err := New(def)
		if err != nil {
			logger.Warn().Err(err).Str("rule", def.Name).Int("index", i).Msg("Rule failed to load")
			errs = append(errs, err)
			continue
		}
		compiled = append(compiled, rule)
	}

	logger.Debug().
		Int("defined", len(defs)).
		Int("loaded", len(compiled)).
		Int("failed", len(errs)).
		Msg("Compiled rules")

	return compiled, stderrors.Join(errs...)
}

// MustCompile is Compile for rule sets that are known to be valid, such
// as the embedded defaults. It panics on any error.
func MustCompile(defs []Definition) []*Rule {
	compiled, err := Compile(defs)
	if err != nil {
		panic(fmt.Sprintf("rules: %v", err))
	}
	return compiled
}
