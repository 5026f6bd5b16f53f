package engine

import (
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/arthur-debert/pimfix/pkg/rules"
)

// postProcessor rewrites text after substitution. Implementations must
// never introduce or remove U+0000, which the shield relies on.
type postProcessor func(string) string

var postProcessors = map[rules.PostProcess]postProcessor{
	rules.PostProcessNone: nil,
	// Unknown entities and bare ampersands pass through unchanged.
	rules.PostProcessHTMLUnescape: html.UnescapeString,
	rules.PostProcessUnicodeNFC:   norm.NFC.String,
}

// postProcess runs pp over text.
func postProcess(pp rules.PostProcess, text string) string {
	fn := postProcessors[pp]
	if fn == nil {
		return text
	}
	return fn(text)
}
