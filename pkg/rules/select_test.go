package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/pimfix/pkg/errors"
)

func TestSelect(t *testing.T) {
	all := LoadDefault()

	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{"nil keeps all", nil, Names(all)},
		{"all keyword", []string{"all"}, Names(all)},
		{
			name:  "subset keeps rule order",
			names: []string{"fix En:yyyy standard", "invalid html entities"},
			want:  []string{"invalid html entities", "fix En:yyyy standard"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(all, tt.names)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Names(got))
		})
	}
}

func TestSelectUnknownName(t *testing.T) {
	got, err := Select(LoadDefault(), []string{"invalid html entities", "nope", "nope"})
	assert.Equal(t, []string{"invalid html entities"}, Names(got))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRuleNotFound))
	assert.Len(t, errors.All(err), 1)
}
