package parser

import (
	"go/types"
)

// Semantics tells whether a member is compared through a reference or as a
// value.
type Semantics int

const (
	ValueType Semantics = iota
	ReferenceType
)

func (s Semantics) String() string {
	if s == ReferenceType {
		return "ReferenceType"
	}
	return "ValueType"
}

// Nullability tells whether a member can be absent.
type Nullability int

const (
	NonNullable Nullability = iota
	Nullable
)

func (n Nullability) String() string {
	if n == Nullable {
		return "Nullable"
	}
	return "NonNullable"
}

// Shape classifies a member as {ReferenceType, ValueType} x {Nullable,
// NonNullable}. It is computed once per member.
type Shape struct {
	Semantics   Semantics
	Nullability Nullability

	// Inner is the type of the present value: E for *E, string for
	// sql.NullString, the member type itself for non-nullable members.
	Inner types.Type

	// ValidField and ValueField name the presence flag and the payload of a
	// nullable value such as sql.NullInt64{Int64, Valid}.
	ValidField string
	ValueField string
}

// Nullable reports whether the member can be absent.
func (s Shape) Nullable() bool { return s.Nullability == Nullable }

// Reference reports whether the member is compared through a reference.
func (s Shape) Reference() bool { return s.Semantics == ReferenceType }

func (s Shape) String() string {
	return s.Semantics.String() + "/" + s.Nullability.String()
}

// nullableValueFields maps database/sql null wrappers to their payload field.
var nullableValueFields = map[string]string{
	"database/sql.Null":        "V",
	"database/sql.NullString":  "String",
	"database/sql.NullInt64":   "Int64",
	"database/sql.NullInt32":   "Int32",
	"database/sql.NullInt16":   "Int16",
	"database/sql.NullFloat64": "Float64",
	"database/sql.NullBool":    "Bool",
	"database/sql.NullByte":    "Byte",
	"database/sql.NullTime":    "Time",
}

// ShapeOf classifies t. nonNil marks pointers the author guarantees are never
// nil (struct tag pretune:"nonnil").
func ShapeOf(t types.Type, nonNil bool) Shape {
	if meta, ok := nullableValue(t); ok {
		return meta
	}

	switch u := t.Underlying().(type) {
	case *types.Pointer:
		if nonNil {
			return Shape{Semantics: ReferenceType, Nullability: NonNullable, Inner: t}
		}
		return Shape{Semantics: ReferenceType, Nullability: Nullable, Inner: u.Elem()}
	case *types.Slice, *types.Map, *types.Chan, *types.Signature:
		return Shape{Semantics: ReferenceType, Nullability: NonNullable, Inner: t}
	case *types.Interface:
		if _, isParam := types.Unalias(t).(*types.TypeParam); isParam {
			return Shape{Semantics: ValueType, Nullability: NonNullable, Inner: t}
		}
		return Shape{Semantics: ReferenceType, Nullability: NonNullable, Inner: t}
	default:
		return Shape{Semantics: ValueType, Nullability: NonNullable, Inner: t}
	}
}

func nullableValue(t types.Type) (Shape, bool) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return Shape{}, false
	}
	field, ok := nullableValueFields[named.Obj().Pkg().Path()+"."+named.Obj().Name()]
	if !ok {
		return Shape{}, false
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return Shape{}, false
	}
	var inner types.Type
	hasValid := false
	for i := 0; i < st.NumFields(); i++ {
		switch f := st.Field(i); f.Name() {
		case field:
			inner = f.Type()
		case "Valid":
			hasValid = true
		}
	}
	if inner == nil || !hasValid {
		return Shape{}, false
	}

	return Shape{
		Semantics:   ValueType,
		Nullability: Nullable,
		Inner:       inner,
		ValidField:  "Valid",
		ValueField:  field,
	}, true
}
