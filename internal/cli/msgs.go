package cli

// Command descriptions
const (
	MsgRootShort = "Normalize text in PIM catalog exports"
	MsgRootLong  = `pimfix repairs product text exported from a PIM system: broken HTML
entities, missing non-breaking spaces in standard numbers and other
mechanical damage. It applies an ordered list of regular-expression
rules to a text, or to one column of a CSV export.`

	MsgFixShort     = "Normalize a text argument or standard input"
	MsgApplyShort   = "Normalize one column of a CSV export"
	MsgScanShort    = "Report what each rule would change in a CSV export"
	MsgRulesShort   = "Validate and list the active rules"
	MsgVersionShort = "Print version information"
)

// Output messages
const (
	MsgRuleWarning     = "rule set loaded with errors: %v"
	MsgNoRules         = "no rules to apply"
	MsgApplySummary    = "%d of %d rows changed"
	MsgCacheSummary    = " (%d cache hits)"
	MsgChangeHeader    = "row %d%s: %s"
	MsgScanSummary     = "%d texts scanned, %d rules matched"
	MsgScanRuleHeader  = "%s (%d unique)"
	MsgNothingFound    = "nothing to fix"
	MsgRulesValid      = "%d rules loaded from %s"
	MsgRulesInvalid    = "%d rules loaded from %s, %d failed"
	MsgTraceStep       = "%s (%d matches)"
	MsgVersionFormat   = "pimfix version %s\n"
	MsgCommitFormat    = "  commit: %s\n"
	MsgBuiltFormat     = "  built:  %s\n"
	MsgSourceDefaults  = "built-in rules"
	MsgSourceInline    = "inline transformations in %s"
	MsgReadInputFailed = "failed to read input"
)
