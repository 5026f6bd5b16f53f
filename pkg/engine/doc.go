// Package engine applies an ordered list of rules to a piece of text.
//
// Each rule runs five steps against the working text, and the result of
// one rule is the input of the next:
//
//  1. every non-overlapping match of the search pattern is replaced by
//     the expanded template, all matches located before any is replaced
//  2. exceptions and override keys are swapped for placeholder tokens
//  3. the rule's post-process runs over the whole text
//  4. placeholders are swapped back for the original substrings
//  5. literal overrides are applied
//
// Steps 2 to 5 run even when the pattern does not match. A rule works on
// local copies only, so no caller or later rule ever sees a half-applied
// rule. The engine holds no mutable state and is safe for concurrent use.
package engine
