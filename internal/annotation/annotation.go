// Package annotation recognizes the declarative markers that opt declarations
// into generation.
//
// Markers are types of the pretune runtime package declared as struct
// fields. They are matched by type identity through go/types, so a look-alike
// type from an unrelated package never matches. When the marker's type does
// not resolve at all (the runtime package is missing or broken), the field is
// matched by its syntactic name instead and the annotation is reported as
// unresolved. Doc comment directives (//pretune:name args) are the other
// textual form; method dependencies are always written that way.
package annotation

import (
	"go/types"
	"strconv"
	"strings"
)

// Kind identifies one annotation of the closed set.
type Kind int

const (
	KindAutoConstructor Kind = iota + 1
	KindImplementEquatable
	KindValueType
	KindNotifyPropertyChanged
	KindCustomEqualityComparer
	KindDependsOn
)

var kindNames = map[Kind]string{
	KindAutoConstructor:        "AutoConstructor",
	KindImplementEquatable:     "ImplementEquatable",
	KindValueType:              "ValueType",
	KindNotifyPropertyChanged:  "ImplementNotifyPropertyChanged",
	KindCustomEqualityComparer: "CustomEqualityComparer",
	KindDependsOn:              "DependsOn",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// markerKinds maps runtime type names to the annotation they declare.
var markerKinds = map[string]Kind{
	"AutoConstructor":                KindAutoConstructor,
	"ImplementEquatable":             KindImplementEquatable,
	"ValueType":                      KindValueType,
	"ImplementNotifyPropertyChanged": KindNotifyPropertyChanged,
	"CustomEqualityComparer":         KindCustomEqualityComparer,
}

// directiveKinds maps //pretune:<name> directives to annotations.
var directiveKinds = map[string]Kind{
	"autoconstructor":                KindAutoConstructor,
	"implementequatable":             KindImplementEquatable,
	"equatable":                      KindImplementEquatable,
	"valuetype":                      KindValueType,
	"implementnotifypropertychanged": KindNotifyPropertyChanged,
	"notifypropertychanged":          KindNotifyPropertyChanged,
	"dependson":                      KindDependsOn,
}

// Source tells how an annotation was recognized.
type Source int

const (
	// SourceMarker is a marker field whose type resolved to the runtime package.
	SourceMarker Source = iota + 1
	// SourceSyntax is a marker field matched by name because its type did not resolve.
	SourceSyntax
	// SourceDirective is a //pretune: doc comment directive.
	SourceDirective
)

// Annotation is one recognized marker.
type Annotation struct {
	Kind   Kind
	Source Source

	// FieldName is the marker field's name: "_" for blank fields, the type
	// name for embedded ones.
	FieldName string
	Embedded  bool

	// TypeArg is T of CustomEqualityComparer[T]; nil when unresolved.
	TypeArg types.Type

	// Args are directive arguments, e.g. the member names of dependsOn.
	Args []string
}

// Resolved reports whether the annotation was matched by type identity or by
// an exact directive rather than by a look-alike name.
func (a Annotation) Resolved() bool {
	return a.Source != SourceSyntax
}

// Blank reports whether the marker was declared as a blank field.
func (a Annotation) Blank() bool {
	return a.FieldName == "_"
}

// Set is the annotations of one declaration in source order.
type Set []Annotation

// Has reports whether any annotation of kind k is present.
func (s Set) Has(k Kind) bool {
	_, ok := s.Get(k)
	return ok
}

// Get returns the first annotation of kind k.
func (s Set) Get(k Kind) (Annotation, bool) {
	for _, a := range s {
		if a.Kind == k {
			return a, true
		}
	}
	return Annotation{}, false
}

// All returns every annotation of kind k.
func (s Set) All(k Kind) []Annotation {
	var out []Annotation
	for _, a := range s {
		if a.Kind == k {
			out = append(out, a)
		}
	}
	return out
}

// Unresolved returns annotations matched only by name.
func (s Set) Unresolved() []Annotation {
	var out []Annotation
	for _, a := range s {
		if !a.Resolved() {
			out = append(out, a)
		}
	}
	return out
}

func directiveKind(name string) (Kind, bool) {
	k, ok := directiveKinds[strings.ToLower(name)]
	return k, ok
}
