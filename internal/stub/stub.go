// Package stub holds the declarations-only rendition of the pretune runtime
// package. It is loaded as a synthetic unit in front of every input so marker
// types resolve and comparer registrations of the runtime take part in
// phase one even when the runtime cannot be imported.
package stub

import "github.com/ioklo/Pretune/internal/parser"

// Path is the unit path of the stub. It never reaches the file system.
const Path = "pretune.stub.go"

// Source returns the stub unit.
func Source() parser.Source {
	return parser.Source{Path: Path, Text: text}
}

const text = `package pretune

import "time"

const ImportPath = "github.com/ioklo/Pretune/pretune"

type AutoConstructor struct{}

type ImplementEquatable struct{}

type ValueType struct{}

type CustomEqualityComparer[T any] struct{}

type PropertyChangedEventArgs struct {
	PropertyName string
}

type PropertyChangedHandler func(sender any, e PropertyChangedEventArgs)

type NotifyPropertyChanged interface {
	AddPropertyChangedHandler(handler PropertyChangedHandler) (remove func())
}

type ImplementNotifyPropertyChanged struct {
	handlers []PropertyChangedHandler
}

func (n *ImplementNotifyPropertyChanged) AddPropertyChangedHandler(handler PropertyChangedHandler) (remove func()) {
	return nil
}

func (n *ImplementNotifyPropertyChanged) RaisePropertyChanged(sender any, propertyName string) {}

type Equatable[T any] interface {
	Equal(other T) bool
	EqualAny(other any) bool
	Hash() uint64
}

func HashOf[T comparable](v T) uint64 { return 0 }

func DefaultEqual[T any](a, b T) bool { return false }

func DefaultHash[T any](v T) uint64 { return 0 }

type HashCode struct{}

func NewHashCode() *HashCode { return nil }

func (h *HashCode) Add(v uint64) {}

func (h *HashCode) Sum() uint64 { return 0 }

type SliceComparer[E any] struct {
	_ CustomEqualityComparer[[]E]
}

func (SliceComparer[E]) Equal(a, b []E) bool { return false }

func (SliceComparer[E]) Hash(v []E) uint64 { return 0 }

type MapComparer[K comparable, V any] struct {
	_ CustomEqualityComparer[map[K]V]
}

func (MapComparer[K, V]) Equal(a, b map[K]V) bool { return false }

func (MapComparer[K, V]) Hash(v map[K]V) uint64 { return 0 }

type TimeComparer struct {
	_ CustomEqualityComparer[time.Time]
}

func (TimeComparer) Equal(a, b time.Time) bool { return false }

func (TimeComparer) Hash(v time.Time) uint64 { return 0 }
`
