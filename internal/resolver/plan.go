package resolver

import "go/types"

// Strategy identifies how a type is compared and hashed.
type Strategy int

const (
	// StrategyComparer calls a registered comparer: (C{}).Equal(a, b), (C{}).Hash(a).
	StrategyComparer Strategy = iota
	// StrategyEquatable calls the type's own methods: a.Equal(b), a.Hash().
	StrategyEquatable
	// StrategyOperator uses a == b and pretune.HashOf(a).
	StrategyOperator
	// StrategyFallback uses pretune.DefaultEqual and pretune.DefaultHash.
	StrategyFallback
)

func (s Strategy) String() string {
	switch s {
	case StrategyComparer:
		return "comparer"
	case StrategyEquatable:
		return "equatable"
	case StrategyOperator:
		return "operator"
	default:
		return "fallback"
	}
}

// Plan is the resolved equality strategy for one type.
type Plan struct {
	Type     types.Type
	Strategy Strategy

	// Comparer is the instantiated comparer type of StrategyComparer.
	Comparer types.Type
}
