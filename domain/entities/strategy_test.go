package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Strategy
	}{
		{"balanced", StrategyBalanced},
		{"aggressive", StrategyAggressive},
		{"conservative", StrategyConservative},
		{"mixed", StrategyMixed},
		{"most-delayed", StrategyMostDelayed},
		{"by-range", StrategyByRange},
		{"by-position", StrategyByPosition},
		{"  Balanced ", StrategyBalanced},
		{"equilibrada", StrategyBalanced},
		{"agressiva", StrategyAggressive},
		{"conservadora", StrategyConservative},
		{"mista", StrategyMixed},
		{"atrasados", StrategyMostDelayed},
		{"por_faixa", StrategyByRange},
		{"POR_POSICAO", StrategyByPosition},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			s, err := ParseStrategy(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
			assert.True(t, s.IsValid())
		})
	}
}

func TestParseStrategy_Unknown(t *testing.T) {
	t.Parallel()

	s, err := ParseStrategy("lucky")
	assert.Empty(t, s)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t,
		`unknown strategy "lucky": valid strategies are balanced, aggressive, conservative, mixed, most-delayed, by-range, by-position`,
		validationErr.Message)
}

func TestStrategy_Description(t *testing.T) {
	t.Parallel()

	for _, s := range Strategies {
		assert.NotContains(t, s.Description(), "unknown", s)
	}
	assert.False(t, Strategy("lucky").IsValid())
	assert.Contains(t, Strategy("lucky").Description(), "unknown")
}
