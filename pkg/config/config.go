package config

import (
	stderrors "errors"
	"unicode/utf8"

	"github.com/arthur-debert/pimfix/pkg/catalog"
	"github.com/arthur-debert/pimfix/pkg/errors"
	"github.com/arthur-debert/pimfix/pkg/rules"
)

// Config is the resolved application configuration.
type Config struct {
	Rules      Rules      `koanf:"rules"`
	Catalog    Catalog    `koanf:"catalog"`
	Processing Processing `koanf:"processing"`
	Output     Output     `koanf:"output"`

	// Transformations are inline rule definitions from the user config.
	Transformations []rules.Definition `koanf:"-"`

	// Source is the user config file that was loaded, if any.
	Source string `koanf:"-"`
}

// Rules selects the rule set.
type Rules struct {
	File string   `koanf:"file"`
	Only []string `koanf:"only"`
}

// Catalog describes the CSV export layout.
type Catalog struct {
	Field      string   `koanf:"field"`
	KeyColumns []string `koanf:"key_columns"`
	Delimiter  string   `koanf:"delimiter"`
}

// Processing tunes catalog processing.
type Processing struct {
	Workers   int `koanf:"workers"`
	CacheSize int `koanf:"cache_size"`
}

// Output controls terminal output.
type Output struct {
	NoColor bool `koanf:"no_color"`
}

// Validate checks values that decoding cannot.
func (c *Config) Validate() error {
	if c.Catalog.Field == "" {
		return errors.New(errors.ErrConfigValid, "catalog.field must not be empty")
	}
	if utf8.RuneCountInString(c.Catalog.Delimiter) != 1 {
		return errors.Newf(errors.ErrConfigValid, "catalog.delimiter must be a single character, got %q", c.Catalog.Delimiter).
			WithDetail("key", "catalog.delimiter")
	}
	if c.Processing.Workers < 0 {
		return errors.Newf(errors.ErrConfigValid, "processing.workers must not be negative, got %d", c.Processing.Workers).
			WithDetail("key", "processing.workers")
	}
	if c.Processing.CacheSize < 0 {
		return errors.Newf(errors.ErrConfigValid, "processing.cache_size must not be negative, got %d", c.Processing.CacheSize).
			WithDetail("key", "processing.cache_size")
	}
	return nil
}

// CatalogOptions converts the catalog and processing sections into
// processor options.
func (c *Config) CatalogOptions() catalog.Options {
	delim, _ := utf8.DecodeRuneInString(c.Catalog.Delimiter)
	return catalog.Options{
		Field:      c.Catalog.Field,
		KeyColumns: c.Catalog.KeyColumns,
		Delimiter:  delim,
		Workers:    c.Processing.Workers,
		CacheSize:  c.Processing.CacheSize,
	}
}

// LoadRules compiles the configured rule set: rules.file when set, else
// the inline transformations, else the built-in rules. rules.only then
// narrows the set. Rules that fail to compile are reported in the
// returned error alongside the ones that loaded.
func (c *Config) LoadRules() ([]*rules.Rule, error) {
	var (
		rs      []*rules.Rule
		loadErr error
	)
	switch {
	case c.Rules.File != "":
		rs, loadErr = rules.Load(c.Rules.File)
	case len(c.Transformations) > 0:
		rs, loadErr = rules.Compile(c.Transformations)
	default:
		rs = rules.LoadDefault()
	}

	selected, err := rules.Select(rs, c.Rules.Only)
	if err != nil {
		return selected, stderrors.Join(loadErr, err)
	}
	return selected, loadErr
}
