package rules

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/pimfix/pkg/errors"
)

// Template is a parsed replacement pattern. It expands numeric
// backreferences against one match's submatch indices.
type Template struct {
	raw      string
	parts    []templatePart
	maxGroup int
}

// templatePart is either a literal run or a group reference (group >= 0).
type templatePart struct {
	literal string
	group   int
}

var templateEscapes = map[byte]string{
	'\\': `\`,
	'n':  "\n",
	't':  "\t",
	'r':  "\r",
	'f':  "\f",
	'v':  "\v",
	'a':  "\a",
}

// ParseTemplate parses a replacement pattern.
func ParseTemplate(s string) (*Template, error) {
	t := &Template{raw: s, maxGroup: -1}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, templatePart{literal: lit.String(), group: -1})
			lit.Reset()
		}
	}
	ref := func(group int) {
		flush()
		t.parts = append(t.parts, templatePart{group: group})
		if group > t.maxGroup {
			t.maxGroup = group
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			lit.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return nil, errors.New(errors.ErrRuleTemplate, "trailing backslash in replacement pattern").
				WithDetail("offset", i)
		}
		next := s[i+1]
		switch {
		case next == '0':
			return nil, errors.New(errors.ErrRuleTemplate, `\0 is not a group reference; use \g<0> for the whole match`).
				WithDetail("offset", i)
		case isDigit(next):
			end := i + 2
			if end < len(s) && isDigit(s[end]) {
				end++
			}
			n, _ := strconv.Atoi(s[i+1 : end])
			ref(n)
			i = end - 1
		case next == 'g':
			n, width, err := parseNamedRef(s[i:])
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrRuleTemplate, "bad group reference at offset %d", i).
					WithDetail("offset", i)
			}
			ref(n)
			i += width - 1
		case templateEscapes[next] != "":
			lit.WriteString(templateEscapes[next])
			i++
		case isASCIILetter(next):
			return nil, errors.Newf(errors.ErrRuleTemplate, `bad escape \%c in replacement pattern`, next).
				WithDetail("offset", i)
		default:
			lit.WriteByte(c)
			lit.WriteByte(next)
			i++
		}
	}
	flush()
	return t, nil
}

// parseNamedRef reads a \g<N> reference at the start of s and returns
// the group number and the reference's width in bytes.
func parseNamedRef(s string) (int, int, error) {
	if len(s) < 3 || s[2] != '<' {
		return 0, 0, errors.New(errors.ErrRuleTemplate, `expected < after \g`)
	}
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return 0, 0, errors.New(errors.ErrRuleTemplate, "missing >")
	}
	n, err := strconv.Atoi(s[3:end])
	if err != nil || n < 0 {
		return 0, 0, errors.Newf(errors.ErrRuleTemplate, "group %q is not a number", s[3:end])
	}
	return n, end + 1, nil
}

func isDigit(c byte) bool       { return '0' <= c && c <= '9' }
func isASCIILetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

// MaxGroup returns the highest group the template references, or -1.
func (t *Template) MaxGroup() int { return t.maxGroup }

// String returns the pattern as written.
func (t *Template) String() string { return t.raw }

// Expand appends the expansion for one match to dst. match holds
// submatch index pairs as returned by regexp's FindAllStringSubmatchIndex.
// Groups that did not participate in the match expand to nothing.
func (t *Template) Expand(dst *strings.Builder, src string, match []int) {
	for _, p := range t.parts {
		if p.group < 0 {
			dst.WriteString(p.literal)
			continue
		}
		lo, hi := 2*p.group, 2*p.group+1
		if hi >= len(match) || match[lo] < 0 {
			continue
		}
		dst.WriteString(src[match[lo]:match[hi]])
	}
}

// ExpandString is Expand returning a new string.
func (t *Template) ExpandString(src string, match []int) string {
	var b strings.Builder
	t.Expand(&b, src, match)
	return b.String()
}
