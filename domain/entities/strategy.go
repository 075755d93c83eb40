package entities

import (
	"fmt"
	"strings"
)

// Strategy names a suggestion selection procedure
type Strategy string

// All strategies supported by the suggestion generator
const (
	StrategyBalanced     Strategy = "balanced"
	StrategyAggressive   Strategy = "aggressive"
	StrategyConservative Strategy = "conservative"
	StrategyMixed        Strategy = "mixed"
	StrategyMostDelayed  Strategy = "most-delayed"
	StrategyByRange      Strategy = "by-range"
	StrategyByPosition   Strategy = "by-position"
)

// Strategies lists every strategy in presentation order
var Strategies = []Strategy{
	StrategyBalanced,
	StrategyAggressive,
	StrategyConservative,
	StrategyMixed,
	StrategyMostDelayed,
	StrategyByRange,
	StrategyByPosition,
}

// strategyAliases maps the Portuguese names used by the public lottery
// community to their strategy
var strategyAliases = map[string]Strategy{
	"equilibrada":  StrategyBalanced,
	"agressiva":    StrategyAggressive,
	"conservadora": StrategyConservative,
	"mista":        StrategyMixed,
	"atrasados":    StrategyMostDelayed,
	"por_faixa":    StrategyByRange,
	"por_posicao":  StrategyByPosition,
}

// ParseStrategy resolves a strategy name or alias, case-insensitively
func ParseStrategy(name string) (Strategy, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, s := range Strategies {
		if string(s) == normalized {
			return s, nil
		}
	}
	if s, ok := strategyAliases[normalized]; ok {
		return s, nil
	}
	return "", NewValidationError("unknown strategy %q: valid strategies are %s", name, ValidStrategyNames())
}

// ValidStrategyNames returns the canonical strategy names as a comma-separated list
func ValidStrategyNames() string {
	names := make([]string, len(Strategies))
	for i, s := range Strategies {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// IsValid returns true if s is one of the known strategies
func (s Strategy) IsValid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}

func (s Strategy) String() string {
	return string(s)
}

// Description returns a one-line explanation of the selection rule
func (s Strategy) Description() string {
	switch s {
	case StrategyBalanced:
		return "half from the 20 most frequent numbers, half from the 20 most delayed"
	case StrategyAggressive:
		return "random picks among the 30 most frequent numbers"
	case StrategyConservative:
		return "random picks among the 30 most delayed numbers"
	case StrategyMixed:
		return "thirds from the top frequent, the top delayed and the mid frequency band"
	case StrategyMostDelayed:
		return "the numbers that have gone longest without being drawn"
	case StrategyByRange:
		return "even spread across the four ranges 1-20, 21-40, 41-60 and 61-80"
	case StrategyByPosition:
		return "the numbers most often drawn at each draw position"
	default:
		return fmt.Sprintf("unknown strategy %q", string(s))
	}
}
