// Package rules loads and validates the ordered text-correction rules that
// pimfix applies to catalog descriptions.
//
// A rule pairs a regular expression with a replacement template, an
// optional post-processing step and two lists of literal strings:
// exceptions that survive post-processing untouched, and overrides that
// are rewritten after it.
//
// # File Format
//
// Rules are read from a TOML or YAML file holding a single list named
// transformations. Order in the file is the order of application:
//
//	[[transformations]]
//	name = "invalid html entities"
//	search_pattern = '((&\w{2,}?):)'
//	replacement_pattern = '\2;'
//	post_process = "html-unescape"
//	post_process_exceptions = ["&nbsp;"]
//	replacements = { "&#8226;" = "&bull;" }
//
// # Replacement Templates
//
// Templates reference capture groups with \1 to \99 or \g<N>, and \g<0>
// is the whole match; \0 is rejected. A literal backslash is written \\,
// and \n, \t, \r, \f, \v and \a produce the matching control
// character. Any other backslash pair is kept as written, except a
// backslash before an ASCII letter, which is rejected.
//
// # Errors
//
// Compile never stops at the first bad rule. It returns every rule that
// compiled together with one coded error per rule that did not, so a
// caller can report "rule X failed to load" and still run the rest.
package rules
