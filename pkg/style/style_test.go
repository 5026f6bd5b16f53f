package style

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/pimfix/pkg/errors"
)

func TestRenderTable(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	out, err := RenderTable(
		[]string{"Rule", "Matches"},
		[][]string{{"fix En:yyyy standard", "2"}, {"invalid html entities", "10"}},
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Rule")
	assert.Contains(t, out, "fix En:yyyy standard")
	assert.Contains(t, out, "10")
}

func TestRenderError(t *testing.T) {
	assert.Empty(t, RenderError(nil))

	coded := errors.New(errors.ErrRulePattern, "bad pattern")
	assert.Contains(t, RenderError(coded), "[RULE_PATTERN]")
	assert.Contains(t, RenderError(fmt.Errorf("loading: %w", coded)), "[RULE_PATTERN]")

	plain := RenderError(fmt.Errorf("boom"))
	assert.Contains(t, plain, "boom")
	assert.NotContains(t, plain, "[")
}

func TestRenderStatus(t *testing.T) {
	assert.Contains(t, RenderStatus(true, "%d rules loaded", 4), "4 rules loaded")
	assert.Contains(t, RenderStatus(false, "%d failed", 1), "1 failed")
}
