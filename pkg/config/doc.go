// Package config loads pimfix configuration.
//
// Values are layered, later sources overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user config file: an explicit path, else
//     $XDG_CONFIG_HOME/pimfix/config.{toml,yaml}, else ./pimfix.{toml,yaml}
//  3. PIMFIX_* environment variables (PIMFIX_CATALOG_KEY_COLUMNS sets
//     catalog.key_columns)
//  4. command-line flag overrides
//
// The user config may also carry [[transformations]] in the rule file
// format; they are used when rules.file is empty.
package config
