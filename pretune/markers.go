package pretune

// AutoConstructor requests a NewT constructor with one parameter per field,
// in declaration order.
type AutoConstructor struct{}

// ImplementEquatable requests structural Equal, EqualAny and Hash methods.
type ImplementEquatable struct{}

// ValueType marks a struct as value-like. Generated methods use value
// receivers and compare copies instead of pointers.
type ValueType struct{}

// CustomEqualityComparer registers the enclosing struct as the equality
// strategy for T. It is declared as a blank field of a comparer type that has
// Equal(a, b T) bool and Hash(v T) uint64 methods:
//
//	type FoldComparer struct {
//		_ pretune.CustomEqualityComparer[[]string]
//	}
//
// When T is built only from the comparer's own type parameters the
// registration covers every instantiation of that shape:
//
//	type SliceComparer[E any] struct {
//		_ pretune.CustomEqualityComparer[[]E]
//	}
type CustomEqualityComparer[T any] struct{}
