package pretune

import (
	"hash/maphash"
	"reflect"
	"time"
)

// Equatable is implemented by types generated with ImplementEquatable.
type Equatable[T any] interface {
	Equal(other T) bool
	EqualAny(other any) bool
	Hash() uint64
}

var seed = maphash.MakeSeed()

// HashOf hashes a comparable value consistently with ==.
func HashOf[T comparable](v T) uint64 {
	return maphash.Comparable(seed, v)
}

type equaler[T any] interface {
	Equal(other T) bool
}

type hasher interface {
	Hash() uint64
}

// DefaultEqual compares two values of a type the generator could not pick a
// static strategy for. An Equal method wins, then == for comparable values,
// then reflect.DeepEqual.
func DefaultEqual[T any](a, b T) bool {
	if e, ok := any(a).(equaler[T]); ok {
		return e.Equal(b)
	}

	av, bv := reflect.ValueOf(any(a)), reflect.ValueOf(any(b))
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type() != bv.Type() {
		return false
	}
	if av.Comparable() && bv.Comparable() {
		return av.Equal(bv)
	}
	return reflect.DeepEqual(av.Interface(), bv.Interface())
}

// DefaultHash hashes v consistently with DefaultEqual. Values that only
// DefaultEqual's Equal method or reflect.DeepEqual can compare hash to 0.
func DefaultHash[T any](v T) uint64 {
	switch x := any(v).(type) {
	case hasher:
		return x.Hash()
	case time.Time:
		return hashTime(x)
	case equaler[T]:
		return 0
	}

	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return 0
	}
	if rv.Comparable() {
		return maphash.Comparable(seed, any(v))
	}
	return 0
}

func hashTime(t time.Time) uint64 {
	return HashOf([2]int64{t.Unix(), int64(t.Nanosecond())})
}
