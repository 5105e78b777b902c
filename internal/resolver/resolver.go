// Package resolver decides how generated equality code compares and hashes a
// value of a given type: through a registered custom comparer, the type's own
// Equal and Hash methods, the == operator, or the runtime fallback.
package resolver

import (
	"go/types"
)

// Resolver resolves the equality strategy for one type.
type Resolver interface {
	Resolve(t types.Type) Plan
	// SetTargets publishes the types that gain Equal and Hash in this run.
	SetTargets(Targets)
}

// Rule tries to produce a plan for one type.
type Rule interface {
	Name() string
	Try(t types.Type) (Plan, bool)
}

type resolverImpl struct {
	rules []Rule
}

// New builds a resolver with a rule chain; the first matching rule wins.
func New(rules ...Rule) Resolver {
	return &resolverImpl{rules: rules}
}

func (r *resolverImpl) SetTargets(targets Targets) {
	for _, rule := range r.rules {
		if aware, ok := rule.(TargetsAware); ok {
			aware.SetTargets(targets)
		}
	}
}

func (r *resolverImpl) Resolve(t types.Type) Plan {
	for _, rule := range r.rules {
		if plan, ok := rule.Try(t); ok {
			return plan
		}
	}
	return Plan{Type: t, Strategy: StrategyFallback}
}
