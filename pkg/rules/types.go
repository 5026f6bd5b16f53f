package rules

import (
	"regexp"
	"slices"
	"strings"

	"github.com/arthur-debert/pimfix/pkg/errors"
)

// PostProcess names a built-in operation run on the text after
// substitution. The set is closed; the engine dispatches on it.
type PostProcess string

const (
	PostProcessNone         PostProcess = "none"
	PostProcessHTMLUnescape PostProcess = "html-unescape"
	PostProcessUnicodeNFC   PostProcess = "unicode-nfc"
)

// postProcessAliases maps accepted spellings to their canonical value.
var postProcessAliases = map[string]PostProcess{
	"":              PostProcessNone,
	"none":          PostProcessNone,
	"html-unescape": PostProcessHTMLUnescape,
	"html.unescape": PostProcessHTMLUnescape,
	"unicode-nfc":   PostProcessUnicodeNFC,
	"nfc":           PostProcessUnicodeNFC,
}

// ParsePostProcess resolves a configured post-process name.
func ParsePostProcess(s string) (PostProcess, error) {
	if pp, ok := postProcessAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return pp, nil
	}
	return "", errors.Newf(errors.ErrRulePostProcess, "unknown post_process %q", s).
		WithDetail("post_process", s)
}

// PostProcesses lists the canonical post-process values.
func PostProcesses() []PostProcess {
	return []PostProcess{PostProcessNone, PostProcessHTMLUnescape, PostProcessUnicodeNFC}
}

// Definition is one rule as written in a rule file, before validation.
type Definition struct {
	Name                  string            `toml:"name" yaml:"name" koanf:"name"`
	SearchPattern         string            `toml:"search_pattern" yaml:"search_pattern" koanf:"search_pattern"`
	ReplacementPattern    string            `toml:"replacement_pattern" yaml:"replacement_pattern" koanf:"replacement_pattern"`
	PostProcess           string            `toml:"post_process" yaml:"post_process" koanf:"post_process"`
	PostProcessExceptions []string          `toml:"post_process_exceptions" yaml:"post_process_exceptions" koanf:"post_process_exceptions"`
	Replacements          map[string]string `toml:"replacements" yaml:"replacements" koanf:"replacements"`
}

// Override is a literal replacement applied after post-processing.
type Override struct {
	From string
	To   string
}

// Rule is a validated, compiled transformation. It is never modified
// after construction and is safe for concurrent use.
type Rule struct {
	name        string
	pattern     *regexp.Regexp
	template    *Template
	postProcess PostProcess
	exceptions  []string
	overrides   []Override
}

// Name returns the rule's diagnostic name.
func (r *Rule) Name() string { return r.name }

// Pattern returns the compiled search pattern.
func (r *Rule) Pattern() *regexp.Regexp { return r.pattern }

// Template returns the parsed replacement template.
func (r *Rule) Template() *Template { return r.template }

// PostProcess returns the post-processing operation.
func (r *Rule) PostProcess() PostProcess { return r.postProcess }

// Exceptions returns the substrings shielded from post-processing.
func (r *Rule) Exceptions() []string { return slices.Clone(r.exceptions) }

// Overrides returns the literal overrides in application order.
func (r *Rule) Overrides() []Override { return slices.Clone(r.overrides) }

// Protected returns every literal the engine must shield during
// post-processing, deduplicated and longest first: the exceptions, plus
// the override keys for which altered reports true. Keys that
// post-processing leaves intact stay unshielded so their overrides also
// match decoded text.
func (r *Rule) Protected(altered func(key string) bool) []string {
	seen := make(map[string]bool, len(r.exceptions)+len(r.overrides))
	var out []string
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, e := range r.exceptions {
		add(e)
	}
	for _, o := range r.overrides {
		if altered == nil || altered(o.From) {
			add(o.From)
		}
	}
	sortLongestFirst(out, func(s string) string { return s })
	return out
}

// Definition returns the rule in its file form.
func (r *Rule) Definition() Definition {
	def := Definition{
		Name:                  r.name,
		SearchPattern:         r.pattern.String(),
		ReplacementPattern:    r.template.String(),
		PostProcess:           string(r.postProcess),
		PostProcessExceptions: slices.Clone(r.exceptions),
	}
	if len(r.overrides) > 0 {
		def.Replacements = make(map[string]string, len(r.overrides))
		for _, o := range r.overrides {
			def.Replacements[o.From] = o.To
		}
	}
	return def
}

// sortLongestFirst orders items by key length, longest first, then
// lexically, so overlapping literals resolve the same way every run.
func sortLongestFirst[T any](items []T, key func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		ka, kb := key(a), key(b)
		if len(ka) != len(kb) {
			return len(kb) - len(ka)
		}
		return strings.Compare(ka, kb)
	})
}
