package rules

import (
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/pimfix/pkg/errors"
	"github.com/arthur-debert/pimfix/pkg/testutil"
)

const tomlRules = `
[[transformations]]
name = "invalid html entities"
search_pattern = '((&\w{2,}?):)'
replacement_pattern = '\2;'
post_process = "html.unescape"
post_process_exceptions = ["&bull;"]
replacements = { "&#8226;" = "&bull;" }

[[transformations]]
name = "fix En:yyyy standard"
search_pattern = '((EN)\s*(\d+)\s*:\s*(\d{4}))'
replacement_pattern = '\2&nbsp;\3:\4'
post_process = "none"
`

const yamlRules = `
transformations:
  - name: invalid html entities
    search_pattern: '((&\w{2,}?):)'
    replacement_pattern: '\2;'
    post_process: html-unescape
    post_process_exceptions: ["&bull;"]
    replacements:
      "&#8226;": "&bull;"
  - name: fix En:yyyy standard
    search_pattern: '((EN)\s*(\d+)\s*:\s*(\d{4}))'
    replacement_pattern: '\2&nbsp;\3:\4'
    post_process: none
`

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "rules.toml", tomlRules},
		{"yaml", "rules.yaml", yamlRules},
		{"yml", "rules.yml", yamlRules},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := Load(testutil.CreateFile(t, t.TempDir(), tt.file, tt.content))
			require.NoError(t, err)
			require.Len(t, compiled, 2)

			assert.Equal(t, []string{"invalid html entities", "fix En:yyyy standard"}, Names(compiled))
			assert.Equal(t, PostProcessHTMLUnescape, compiled[0].PostProcess())
			assert.Equal(t, []string{"&bull;"}, compiled[0].Exceptions())
			assert.Equal(t, []Override{{From: "&#8226;", To: "&bull;"}}, compiled[0].Overrides())
			assert.Equal(t, `\2&nbsp;\3:\4`, compiled[1].Template().String())
		})
	}
}

func TestLoadReportsFailedRulesAndKeepsOthers(t *testing.T) {
	content := tomlRules + `
[[transformations]]
name = "broken"
search_pattern = '(a'
replacement_pattern = ''
post_process = "none"
`
	compiled, err := Load(testutil.CreateFile(t, t.TempDir(), "rules.toml", content))
	require.Error(t, err)
	assert.Len(t, compiled, 2)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRulePattern))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.ErrorCode
	}{
		{"unknown extension", "rules.json", "{}", errors.ErrConfigParse},
		{"bad toml", "rules.toml", "[[transformations]\nname=", errors.ErrConfigParse},
		{"unknown toml key", "rules.toml", "[[transformations]]\nname = 'x'\nsearch = 'a'\n", errors.ErrConfigParse},
		{"unknown yaml key", "rules.yaml", "transformations:\n  - name: x\n    serch_pattern: a\n", errors.ErrConfigParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := Load(testutil.CreateFile(t, t.TempDir(), tt.file, tt.content))
			assert.Nil(t, compiled)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileRead))
}

func TestParseEmptyYAML(t *testing.T) {
	defs, err := Parse(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestLoadDefault(t *testing.T) {
	compiled := LoadDefault()
	assert.Equal(t, []string{
		"invalid html entities",
		"invalid html numbered entities",
		"fix En:yyyy standard",
		"fix En:yyyy/An:yyyy standard",
	}, Names(compiled))
	assert.Contains(t, DefaultContent(), "[[transformations]]")
}

func TestFromKoanf(t *testing.T) {
	k := koanf.New(".")
	require.NoError(t, k.Load(rawbytes.Provider([]byte(tomlRules)), toml.Parser()))

	defs, err := FromKoanf(k, "transformations")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "invalid html entities", defs[0].Name)
	assert.Equal(t, []string{"&bull;"}, defs[0].PostProcessExceptions)
	assert.Equal(t, map[string]string{"&#8226;": "&bull;"}, defs[0].Replacements)

	missing, err := FromKoanf(koanf.New("."), "transformations")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFromKoanfRejectsUnknownFields(t *testing.T) {
	k := koanf.New(".")
	require.NoError(t, k.Load(rawbytes.Provider([]byte(`
[[transformations]]
name = "typo"
search_patern = 'a'
replacement_pattern = 'b'
`)), toml.Parser()))

	_, err := FromKoanf(k, "transformations")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	assert.Contains(t, err.Error(), "search_patern")
}
