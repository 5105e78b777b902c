package resolver

import (
	"go/types"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/ioklo/Pretune/internal/errors"
)

// Comparer is one registered custom equality comparer.
type Comparer struct {
	// Obj is the comparer's declared type.
	Obj *types.TypeName
	// Target is T of the comparer's CustomEqualityComparer[T] field.
	Target types.Type
	// Origin identifies the registering declaration in diagnostics.
	Origin string

	// argIndex[i] is the position of the shape argument that instantiates
	// the comparer's i-th type parameter. Nil for bound registrations.
	argIndex []int
}

// Bound reports whether the comparer covers one exact type.
func (c *Comparer) Bound() bool { return c.argIndex == nil }

// ShapeKind is the kind of an unbound generic shape.
type ShapeKind int

const (
	ShapeSlice ShapeKind = iota + 1
	ShapeMap
	ShapeNamed
)

// Key identifies an unbound generic shape: every slice, every map, or every
// instantiation of one generic named type.
type Key struct {
	Kind   ShapeKind
	Origin *types.TypeName
}

// Registry maps types to custom equality comparers. Bound registrations
// cover one exact type; unbound ones cover every instantiation of a shape.
// Each key accepts one registration.
type Registry struct {
	bound   typeutil.Map
	unbound map[Key]*Comparer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{unbound: map[Key]*Comparer{}}
}

// Reset forgets every registration.
func (r *Registry) Reset() {
	r.bound = typeutil.Map{}
	r.unbound = map[Key]*Comparer{}
}

// Len returns the number of registrations.
func (r *Registry) Len() int { return r.bound.Len() + len(r.unbound) }

// Register records obj as the comparer for target. target is bound when it
// does not mention obj's type parameters; otherwise it must be a slice, map
// or generic named type whose arguments are distinct type parameters of obj,
// covering all of them.
func (r *Registry) Register(obj *types.TypeName, target types.Type, origin string) error {
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return errors.Configuration("%s: comparer %s is not a defined type", origin, obj.Name())
	}
	if err := checkComparerMethods(named, target, origin); err != nil {
		return err
	}

	c := &Comparer{Obj: obj, Target: target, Origin: origin}
	tparams := named.TypeParams()

	if !mentions(target, tparams) {
		if tparams.Len() > 0 {
			return errors.Configuration("%s: generic comparer %s must use its type parameters in its target %s", origin, obj.Name(), target)
		}
		if prev, ok := r.bound.At(target).(*Comparer); ok {
			return errors.Configuration("%s: duplicate comparer for %s (already registered by %s)", origin, target, prev.Origin)
		}
		r.bound.Set(target, c)
		return nil
	}

	key, args, ok := shapeOf(target)
	if !ok {
		return errors.Configuration("%s: target %s of comparer %s is not a slice, map or generic type", origin, target, obj.Name())
	}
	index, ok := argIndex(args, tparams)
	if !ok {
		return errors.Configuration("%s: target %s of comparer %s must be built from distinct type parameters covering all of them", origin, target, obj.Name())
	}
	if prev, ok := r.unbound[key]; ok {
		return errors.Configuration("%s: duplicate comparer for %s (already registered by %s)", origin, describeKey(key), prev.Origin)
	}
	c.argIndex = index
	r.unbound[key] = c
	return nil
}

// Resolve returns the comparer type to use for values of type t, already
// instantiated for t, and whether one applies.
func (r *Registry) Resolve(t types.Type) (types.Type, *Comparer, bool) {
	if _, isParam := types.Unalias(t).(*types.TypeParam); isParam {
		return nil, nil, false
	}

	if c, ok := r.bound.At(t).(*Comparer); ok {
		return c.Obj.Type(), c, true
	}

	key, args, ok := shapeOf(t)
	if !ok {
		return nil, nil, false
	}
	c, ok := r.unbound[key]
	if !ok {
		return nil, nil, false
	}

	targs := make([]types.Type, len(c.argIndex))
	for i, pos := range c.argIndex {
		targs[i] = args[pos]
	}
	inst, err := types.Instantiate(nil, c.Obj.Type(), targs, true)
	if err != nil {
		return nil, nil, false
	}
	return inst, c, true
}

// shapeOf splits t into its unbound shape and its type arguments.
func shapeOf(t types.Type) (Key, []types.Type, bool) {
	switch x := types.Unalias(t).(type) {
	case *types.Slice:
		return Key{Kind: ShapeSlice}, []types.Type{x.Elem()}, true
	case *types.Map:
		return Key{Kind: ShapeMap}, []types.Type{x.Key(), x.Elem()}, true
	case *types.Named:
		targs := x.TypeArgs()
		if targs == nil || targs.Len() == 0 {
			return Key{}, nil, false
		}
		args := make([]types.Type, targs.Len())
		for i := range args {
			args[i] = targs.At(i)
		}
		return Key{Kind: ShapeNamed, Origin: x.Origin().Obj()}, args, true
	default:
		return Key{}, nil, false
	}
}

func argIndex(args []types.Type, tparams *types.TypeParamList) ([]int, bool) {
	if len(args) != tparams.Len() {
		return nil, false
	}
	index := make([]int, tparams.Len())
	for i := range index {
		index[i] = -1
	}
	for pos, arg := range args {
		tp, ok := types.Unalias(arg).(*types.TypeParam)
		if !ok {
			return nil, false
		}
		i := paramIndex(tp, tparams)
		if i < 0 || index[i] >= 0 {
			return nil, false
		}
		index[i] = pos
	}
	return index, true
}

func paramIndex(tp *types.TypeParam, tparams *types.TypeParamList) int {
	for i := 0; i < tparams.Len(); i++ {
		if tparams.At(i) == tp {
			return i
		}
	}
	return -1
}

// mentions reports whether t refers to any of tparams.
func mentions(t types.Type, tparams *types.TypeParamList) bool {
	if tparams == nil || tparams.Len() == 0 {
		return false
	}
	found := false
	walkType(t, func(x types.Type) {
		if tp, ok := x.(*types.TypeParam); ok && paramIndex(tp, tparams) >= 0 {
			found = true
		}
	})
	return found
}

func walkType(t types.Type, visit func(types.Type)) {
	t = types.Unalias(t)
	visit(t)
	switch x := t.(type) {
	case *types.Pointer:
		walkType(x.Elem(), visit)
	case *types.Slice:
		walkType(x.Elem(), visit)
	case *types.Array:
		walkType(x.Elem(), visit)
	case *types.Map:
		walkType(x.Key(), visit)
		walkType(x.Elem(), visit)
	case *types.Chan:
		walkType(x.Elem(), visit)
	case *types.Named:
		if targs := x.TypeArgs(); targs != nil {
			for i := 0; i < targs.Len(); i++ {
				walkType(targs.At(i), visit)
			}
		}
	case *types.Signature:
		for _, tuple := range []*types.Tuple{x.Params(), x.Results()} {
			for i := 0; i < tuple.Len(); i++ {
				walkType(tuple.At(i).Type(), visit)
			}
		}
	case *types.Struct:
		for i := 0; i < x.NumFields(); i++ {
			walkType(x.Field(i).Type(), visit)
		}
	}
}

// checkComparerMethods requires value-receiver Equal(a, b T) bool and
// Hash(v T) uint64 methods, since generated code calls them on a zero value.
func checkComparerMethods(named *types.Named, target types.Type, origin string) error {
	want := []struct {
		name string
		ok   func(*types.Signature) bool
	}{
		{name: "Equal", ok: func(sig *types.Signature) bool {
			return sig.Params().Len() == 2 && sig.Results().Len() == 1 && isBasic(sig.Results().At(0).Type(), types.Bool)
		}},
		{name: "Hash", ok: func(sig *types.Signature) bool {
			return sig.Params().Len() == 1 && sig.Results().Len() == 1 && isBasic(sig.Results().At(0).Type(), types.Uint64)
		}},
	}

	for _, w := range want {
		name := w.name
		fn := declaredMethod(named, name)
		if fn == nil {
			return errors.Configuration("%s: comparer %s for %s has no %s method", origin, named.Obj().Name(), target, name)
		}
		sig := fn.Type().(*types.Signature)
		if _, ptr := types.Unalias(sig.Recv().Type()).(*types.Pointer); ptr {
			return errors.Configuration("%s: comparer %s.%s must have a value receiver", origin, named.Obj().Name(), name)
		}
		if !w.ok(sig) {
			return errors.Configuration("%s: comparer %s.%s has an unexpected signature %s", origin, named.Obj().Name(), name, sig)
		}
	}
	return nil
}

func declaredMethod(named *types.Named, name string) *types.Func {
	for i := 0; i < named.NumMethods(); i++ {
		if m := named.Method(i); m.Name() == name {
			return m
		}
	}
	return nil
}

func isBasic(t types.Type, kind types.BasicKind) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Kind() == kind
}

func describeKey(k Key) string {
	switch k.Kind {
	case ShapeSlice:
		return "every slice type"
	case ShapeMap:
		return "every map type"
	default:
		return "every instantiation of " + k.Origin.Name()
	}
}
