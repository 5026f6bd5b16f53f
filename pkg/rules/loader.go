package rules

import (
	"bytes"
	_ "embed"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/pimfix/pkg/errors"
	"github.com/arthur-debert/pimfix/pkg/logging"
)

//go:embed embedded/rules.toml
var defaultRules []byte

// Format is a rule file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// File is the top-level shape of a rule file.
type File struct {
	Transformations []Definition `toml:"transformations" yaml:"transformations"`
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Newf(errors.ErrConfigParse, "unsupported rule file extension %q", filepath.Ext(path)).
			WithDetail("path", path)
	}
}

// Parse decodes rule definitions from data. Unknown keys are rejected so
// a misspelt field does not silently disable part of a rule.
func Parse(data []byte, format Format) ([]Definition, error) {
	var f File
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse TOML rules")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse YAML rules")
		}
	default:
		return nil, errors.Newf(errors.ErrConfigParse, "unknown rule format %q", format)
	}
	return f.Transformations, nil
}

// Load reads, parses and compiles a rule file. A file that cannot be
// read or parsed returns nil rules. Otherwise the result follows
// Compile: the rules that compiled, plus the joined per-rule errors.
func Load(path string) ([]*Rule, error) {
	logger := logging.GetLogger("rules")

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to read rules from %s", path).
			WithDetail("path", path)
	}
	defs, err := Parse(data, format)
	if err != nil {
		return nil, err
	}

	compiled, err := Compile(defs)
	logger.Info().
		Str("path", path).
		Int("rules", len(compiled)).
		Bool("errors", err != nil).
		Msg("Loaded rules")
	return compiled, err
}

// DefaultDefinitions returns the embedded default rule definitions.
func DefaultDefinitions() []Definition {
	defs, err := Parse(defaultRules, FormatTOML)
	if err != nil {
		panic("rules: embedded defaults do not parse: " + err.Error())
	}
	return defs
}

// LoadDefault compiles the embedded default rule set.
func LoadDefault() []*Rule {
	return MustCompile(DefaultDefinitions())
}

// DefaultContent returns the embedded default rule file.
func DefaultContent() string {
	return string(defaultRules)
}

// FromKoanf reads definitions stored under path in an app configuration.
// A missing path yields no definitions. Unknown fields are rejected, as
// in Parse.
func FromKoanf(k *koanf.Koanf, path string) ([]Definition, error) {
	if !k.Exists(path) {
		return nil, nil
	}
	var defs []Definition
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &defs,
			TagName:          "koanf",
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf(path, &defs, conf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to decode %s", path)
	}
	return defs, nil
}
