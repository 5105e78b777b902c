package resolver

import (
	"go/types"
)

// DefaultRules returns the rule chain used by generated equality code.
func DefaultRules(registry *Registry) []Rule {
	return []Rule{
		&ComparerRule{registry: registry},
		&EquatableRule{},
		&OperatorRule{},
	}
}

// ComparerRule picks a registered custom comparer.
type ComparerRule struct {
	registry *Registry
}

func (r *ComparerRule) Name() string { return "comparer" }

func (r *ComparerRule) Try(t types.Type) (Plan, bool) {
	cmp, _, ok := r.registry.Resolve(t)
	if !ok {
		return Plan{}, false
	}
	return Plan{Type: t, Strategy: StrategyComparer, Comparer: cmp}, true
}

// EquatableRule picks types with Equal(T) bool and Hash() uint64 methods,
// including types that only gain them from this run's generation.
type EquatableRule struct {
	targets Targets
}

func (r *EquatableRule) Name() string { return "equatable" }

func (r *EquatableRule) SetTargets(targets Targets) { r.targets = targets }

func (r *EquatableRule) Try(t types.Type) (Plan, bool) {
	if r.isTarget(t) || hasEqualityMethods(t) {
		return Plan{Type: t, Strategy: StrategyEquatable}, true
	}
	return Plan{}, false
}

// isTarget matches *T for class-like targets and T for value-like ones.
func (r *EquatableRule) isTarget(t types.Type) bool {
	t = types.Unalias(t)
	pointer := false
	if p, ok := t.(*types.Pointer); ok {
		t, pointer = types.Unalias(p.Elem()), true
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	valueLike, ok := r.targets[named.Origin().Obj()]
	return ok && valueLike != pointer
}

func hasEqualityMethods(t types.Type) bool {
	mset := types.NewMethodSet(t)

	equal := mset.Lookup(nil, "Equal")
	if equal == nil || !equal.Obj().Exported() {
		return false
	}
	sig, ok := equal.Type().(*types.Signature)
	if !ok || sig.Params().Len() != 1 || sig.Results().Len() != 1 ||
		!types.Identical(sig.Params().At(0).Type(), t) || !isBasic(sig.Results().At(0).Type(), types.Bool) {
		return false
	}

	hash := mset.Lookup(nil, "Hash")
	if hash == nil {
		return false
	}
	sig, ok = hash.Type().(*types.Signature)
	return ok && sig.Params().Len() == 0 && sig.Results().Len() == 1 && isBasic(sig.Results().At(0).Type(), types.Uint64)
}

// OperatorRule picks strictly comparable types: == on them never panics.
// Type parameters constrained by comparable are taken at their word.
type OperatorRule struct{}

func (r *OperatorRule) Name() string { return "operator" }

func (r *OperatorRule) Try(t types.Type) (Plan, bool) {
	if !types.Comparable(t) {
		return Plan{}, false
	}
	if _, isParam := types.Unalias(t).(*types.TypeParam); !isParam && !strictlyComparable(t) {
		return Plan{}, false
	}
	return Plan{Type: t, Strategy: StrategyOperator}, true
}

// strictlyComparable reports whether t holds no interface value, directly or
// through struct fields and array elements.
func strictlyComparable(t types.Type) bool {
	switch u := t.Underlying().(type) {
	case *types.Interface:
		return false
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			if !strictlyComparable(u.Field(i).Type()) {
				return false
			}
		}
		return true
	case *types.Array:
		return strictlyComparable(u.Elem())
	default:
		return true
	}
}
