package pretune

import (
	"strings"
	"time"
)

// The fixtures below are written the way pretune emits code so the runtime
// properties can be checked without running the generator.

// script is value-like: one non-nullable int and one nullable reference.
type script struct {
	_ ValueType
	_ ImplementEquatable

	x int
	s *string
}

func (s script) EqualAny(other any) bool {
	o, ok := other.(script)
	return ok && s.Equal(o)
}

func (s script) Equal(other script) bool {
	if s.x != other.x {
		return false
	}
	if s.s != nil && other.s != nil {
		if *s.s != *other.s {
			return false
		}
	} else if s.s != nil || other.s != nil {
		return false
	}
	return true
}

func (s script) Hash() uint64 {
	hash := NewHashCode()
	hash.Add(HashOf(s.x))
	if s.s != nil {
		hash.Add(HashOf(*s.s))
	} else {
		hash.Add(0)
	}
	return hash.Sum()
}

// FoldComparer treats string slices as equal when their elements match
// case-insensitively.
type FoldComparer struct {
	_ CustomEqualityComparer[[]string]
}

func (FoldComparer) Equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (FoldComparer) Hash(v []string) uint64 {
	h := NewHashCode()
	for _, e := range v {
		h.Add(HashOf(strings.ToLower(e)))
	}
	return h.Sum()
}

// document is class-like with a comparer-bound member, a nullable
// equatable member and a nullable value member.
type document struct {
	_ ImplementEquatable

	tags   []string
	ids    []int
	parent *document
	title  NullString
}

// NullString mirrors the database/sql shape the generator treats as a
// nullable value.
type NullString struct {
	String string
	Valid  bool
}

var _ Equatable[*document] = (*document)(nil)

func (d *document) EqualAny(other any) bool {
	o, _ := other.(*document)
	return d.Equal(o)
}

func (d *document) Equal(other *document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if !(FoldComparer{}).Equal(d.tags, other.tags) {
		return false
	}
	if !(SliceComparer[int]{}).Equal(d.ids, other.ids) {
		return false
	}
	if d.parent != nil && other.parent != nil {
		if !d.parent.Equal(other.parent) {
			return false
		}
	} else if d.parent != nil || other.parent != nil {
		return false
	}
	if d.title.Valid != other.title.Valid || d.title.Valid && d.title.String != other.title.String {
		return false
	}
	return true
}

func (d *document) Hash() uint64 {
	if d == nil {
		return 0
	}
	hash := NewHashCode()
	hash.Add((FoldComparer{}).Hash(d.tags))
	hash.Add((SliceComparer[int]{}).Hash(d.ids))
	if d.parent != nil {
		hash.Add(d.parent.Hash())
	} else {
		hash.Add(0)
	}
	if d.title.Valid {
		hash.Add(HashOf(d.title.String))
	} else {
		hash.Add(0)
	}
	return hash.Sum()
}

// meeting is class-like with a nullable pointer to a comparer-bound type.
type meeting struct {
	_ ImplementEquatable

	at *time.Time
}

func (m *meeting) Equal(other *meeting) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.at != nil && other.at != nil {
		if !(TimeComparer{}).Equal(*m.at, *other.at) {
			return false
		}
	} else if m.at != nil || other.at != nil {
		return false
	}
	return true
}

func (m *meeting) Hash() uint64 {
	if m == nil {
		return 0
	}
	hash := NewHashCode()
	if m.at != nil {
		hash.Add((TimeComparer{}).Hash(*m.at))
	} else {
		hash.Add(0)
	}
	return hash.Sum()
}
