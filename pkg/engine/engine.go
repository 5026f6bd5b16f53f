package engine

import (
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/pimfix/pkg/logging"
	"github.com/arthur-debert/pimfix/pkg/rules"
)

// Engine applies a fixed, ordered rule list.
type Engine struct {
	rules  []*rules.Rule
	steps  []step
	logger zerolog.Logger
}

// step caches what a rule needs at apply time.
type step struct {
	rule      *rules.Rule
	protected []string
	overrides []rules.Override
	// shield serves every text without NULs, which is nearly all of them.
	shield *shield
}

func prepare(r *rules.Rule) step {
	pp := r.PostProcess()
	protected := r.Protected(func(key string) bool {
		return postProcess(pp, key) != key
	})
	return step{
		rule:      r,
		protected: protected,
		overrides: r.Overrides(),
		shield:    newShield("", protected),
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-rule trace output.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine over rs. The slice is copied; rules are shared.
func New(rs []*rules.Rule, opts ...Option) *Engine {
	e := &Engine{
		rules:  slices.Clone(rs),
		steps:  make([]step, len(rs)),
		logger: logging.GetLogger("engine"),
	}
	for i, r := range rs {
		e.steps[i] = prepare(r)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the engine's rules in application order.
func (e *Engine) Rules() []*rules.Rule {
	return slices.Clone(e.rules)
}

// Apply runs every rule over text in order and returns the result.
func (e *Engine) Apply(text string) string {
	for _, st := range e.steps {
		out, matches := st.apply(text)
		if out != text {
			e.logger.Trace().
				Str("rule", st.rule.Name()).
				Int("matches", matches).
				Str("before", text).
				Str("after", out).
				Msg("Rule changed text")
		}
		text = out
	}
	return text
}

// Step records what one rule did during Trace.
type Step struct {
	Rule    string
	Before  string
	After   string
	Matches int
}

// Changed reports whether the rule altered the text.
func (s Step) Changed() bool {
	return s.Before != s.After
}

// Trace is Apply that also returns one Step per rule.
func (e *Engine) Trace(text string) (string, []Step) {
	steps := make([]Step, 0, len(e.steps))
	for _, st := range e.steps {
		out, matches := st.apply(text)
		steps = append(steps, Step{
			Rule:    st.rule.Name(),
			Before:  text,
			After:   out,
			Matches: matches,
		})
		text = out
	}
	return text, steps
}

// Apply runs rs over text in order. Callers applying the same rules to
// many texts should build an Engine once instead.
func Apply(text string, rs []*rules.Rule) string {
	for _, r := range rs {
		text, _ = prepare(r).apply(text)
	}
	return text
}

// ApplyRule runs a single rule over text.
func ApplyRule(text string, r *rules.Rule) string {
	out, _ := prepare(r).apply(text)
	return out
}

// Substitute runs only the match-and-replace step of r and returns the
// new text and the number of matches.
func Substitute(text string, r *rules.Rule) (string, int) {
	matches := r.Pattern().FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		r.Template().Expand(&b, text, m)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String(), len(matches)
}

func (st step) apply(text string) (string, int) {
	text, matches := Substitute(text, st.rule)

	if pp := st.rule.PostProcess(); pp != rules.PostProcessNone {
		s := st.shield
		if strings.IndexByte(text, 0) >= 0 {
			s = newShield(text, st.protected)
		}
		text = s.Reveal(postProcess(pp, s.Hide(text)))
	}

	for _, o := range st.overrides {
		text = strings.ReplaceAll(text, o.From, o.To)
	}
	return text, matches
}
