package config

import (
	_ "embed"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultContent returns the embedded default configuration.
func DefaultContent() string {
	return string(defaultConfig)
}
