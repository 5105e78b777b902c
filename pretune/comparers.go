package pretune

import (
	"maps"
	"slices"
	"time"
)

// SliceComparer compares slices element by element with DefaultEqual, so
// two distinct slices holding equal elements are equal. It is registered for
// every slice type.
type SliceComparer[E any] struct {
	_ CustomEqualityComparer[[]E]
}

// Equal reports whether a and b hold equal elements in the same order.
// A nil slice equals an empty one.
func (SliceComparer[E]) Equal(a, b []E) bool {
	return slices.EqualFunc(a, b, DefaultEqual[E])
}

// Hash hashes v consistently with Equal.
func (SliceComparer[E]) Hash(v []E) uint64 {
	h := NewHashCode()
	h.Add(uint64(len(v)))
	for _, e := range v {
		h.Add(DefaultHash(e))
	}
	return h.Sum()
}

// MapComparer compares maps entry by entry with DefaultEqual on values. It is
// registered for every map type.
type MapComparer[K comparable, V any] struct {
	_ CustomEqualityComparer[map[K]V]
}

// Equal reports whether a and b hold the same keys mapped to equal values.
// A nil map equals an empty one.
func (MapComparer[K, V]) Equal(a, b map[K]V) bool {
	return maps.EqualFunc(a, b, DefaultEqual[V])
}

// Hash hashes v independently of iteration order.
func (MapComparer[K, V]) Hash(v map[K]V) uint64 {
	var sum uint64
	for k, e := range v {
		h := NewHashCode()
		h.Add(HashOf(k))
		h.Add(DefaultHash(e))
		sum += h.Sum()
	}

	h := NewHashCode()
	h.Add(uint64(len(v)))
	h.Add(sum)
	return h.Sum()
}

// TimeComparer compares time.Time values as instants, ignoring location and
// monotonic clock readings.
type TimeComparer struct {
	_ CustomEqualityComparer[time.Time]
}

// Equal reports whether a and b denote the same instant.
func (TimeComparer) Equal(a, b time.Time) bool {
	return a.Equal(b)
}

// Hash hashes v consistently with Equal.
func (TimeComparer) Hash(v time.Time) uint64 {
	return hashTime(v)
}
