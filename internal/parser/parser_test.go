package parser

import (
	"go/ast"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ioklo/Pretune/internal/annotation"
	"github.com/ioklo/Pretune/internal/errors"
)

const runtimePath = "github.com/ioklo/Pretune/pretune"

var testStub = Source{Path: "pretune_stub.go", Text: `package pretune

type AutoConstructor struct{}
type ImplementEquatable struct{}
type ValueType struct{}
type ImplementNotifyPropertyChanged struct{ handlers []func() }
type CustomEqualityComparer[T any] struct{}

type SliceComparer[E any] struct {
	_ CustomEqualityComparer[[]E]
}
`}

const personSrc = `package people

import (
	"database/sql"

	"github.com/ioklo/Pretune/pretune"
)

type Person struct {
	_ pretune.AutoConstructor
	pretune.ImplementNotifyPropertyChanged

	firstName, lastName string
	Age                 int
	manager             *Person
	boss                *Person ` + "`pretune:\"nonnil\"`" + `
	tags                []string
	nickname            sql.NullString
	score               sql.Null[float64]
	_                   int
}

// FullName joins both names.
//
//pretune:dependsOn firstName lastName firstName
func (p *Person) FullName() string { return p.firstName + " " + p.lastName }

func (p Person) describe() string { return "" }

func (p *Person) SetAge(age int) { p.Age = age }

type Pair[K comparable, V any] struct {
	_ pretune.ValueType

	key   K
	value V
}

type IDs []int

type Alias = Person
`

func load(t *testing.T, sources ...Source) *Program {
	t.Helper()
	prog, err := New(runtimePath).Load(testStub, sources)
	require.NoError(t, err)
	return prog
}

func findDecl(t *testing.T, prog *Program, name string) *TypeDecl {
	t.Helper()
	for _, u := range prog.Units {
		for _, d := range u.TypeDecls() {
			if d.Name() == name {
				return d
			}
		}
	}
	t.Fatalf("declaration %s not found", name)
	return nil
}

func memberNames(ms []*Member) []string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return names
}

func TestLoad_UnitsAndPackages(t *testing.T) {
	prog := load(t,
		Source{Path: "people/person.go", Text: personSrc},
		Source{Path: "people/extra.go", Text: "package people\n\nfunc (p *Person) Nick() string { return p.nickname.String }\n"},
		Source{Path: "shapes/shape.go", Text: "package shapes\n\ntype Circle struct{ r float64 }\n"},
	)

	require.Len(t, prog.Units, 4)
	assert.True(t, prog.Units[0].Synthetic)
	assert.Equal(t, runtimePath, prog.Units[0].Package.Path())
	assert.Same(t, prog.Units[1].Package, prog.Units[2].Package)
	assert.Equal(t, "pretune.local/people", prog.Units[1].Package.Path())
	assert.Equal(t, "pretune.local/shapes", prog.Units[3].Package.Path())
	assert.Empty(t, prog.Units[1].TypeErrors)
}

func TestLoad_ModulePath(t *testing.T) {
	prog, err := New(runtimePath, WithModulePath("example.com/app")).Load(testStub, []Source{
		{Path: "main.go", Text: "package main\n"},
		{Path: "pkg/a/a.go", Text: "package a\n"},
	})
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", prog.Units[1].Package.Path())
	assert.Equal(t, "example.com/app/pkg/a", prog.Units[2].Package.Path())
}

func TestLoad_ParseErrorIsInputError(t *testing.T) {
	_, err := New(runtimePath).Load(testStub, []Source{{Path: "bad.go", Text: "package bad\n\nfunc {"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInput))
	assert.Contains(t, err.Error(), "bad.go")
}

func TestLoad_ToleratesTypeErrors(t *testing.T) {
	prog := load(t, Source{Path: "a/a.go", Text: "package a\n\ntype T struct{ x int }\n\nfunc use(t *T) { t.SetX(1) }\n"})
	assert.NotEmpty(t, prog.Units[1].TypeErrors)

	sym, err := prog.Symbol(findDecl(t, prog, "T"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, memberNames(sym.Members))
}

func TestTypeDecls_SkipsAliases(t *testing.T) {
	prog := load(t, Source{Path: "people/person.go", Text: personSrc})

	var names []string
	for _, d := range prog.Units[1].TypeDecls() {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"Person", "Pair", "IDs"}, names)
}

func TestSymbol_Members(t *testing.T) {
	prog := load(t, Source{Path: "people/person.go", Text: personSrc})
	sym, err := prog.Symbol(findDecl(t, prog, "Person"))
	require.NoError(t, err)

	assert.Equal(t, DeclClass, sym.Kind)
	assert.Equal(t,
		[]string{"firstName", "lastName", "Age", "manager", "boss", "tags", "nickname", "score"},
		memberNames(sym.Members))
	assert.Equal(t,
		[]string{"firstName", "lastName", "manager", "boss", "tags", "nickname", "score"},
		memberNames(sym.Storage()))

	age, ok := sym.Member("Age")
	require.True(t, ok)
	assert.True(t, age.IsComputed())
	assert.Same(t, sym, age.Owner)

	again, err := prog.Symbol(findDecl(t, prog, "Person"))
	require.NoError(t, err)
	assert.Same(t, sym, again)
}

func TestSymbol_MemberShapes(t *testing.T) {
	prog := load(t, Source{Path: "people/person.go", Text: personSrc})
	sym, err := prog.Symbol(findDecl(t, prog, "Person"))
	require.NoError(t, err)

	tests := []struct {
		member     string
		want       string
		inner      string
		valueField string
	}{
		{member: "firstName", want: "ValueType/NonNullable", inner: "string"},
		{member: "Age", want: "ValueType/NonNullable", inner: "int"},
		{member: "manager", want: "ReferenceType/Nullable", inner: "pretune.local/people.Person"},
		{member: "boss", want: "ReferenceType/NonNullable", inner: "*pretune.local/people.Person"},
		{member: "tags", want: "ReferenceType/NonNullable", inner: "[]string"},
		{member: "nickname", want: "ValueType/Nullable", inner: "string", valueField: "String"},
		{member: "score", want: "ValueType/Nullable", inner: "float64", valueField: "V"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.member, func(t *testing.T) {
			m, ok := sym.Member(tc.member)
			require.True(t, ok)
			shape := m.Shape()
			assert.Equal(t, tc.want, shape.String())
			assert.Equal(t, tc.inner, shape.Inner.String())
			assert.Equal(t, tc.valueField, shape.ValueField)
		})
	}
}

func TestSymbol_Methods(t *testing.T) {
	prog := load(t, Source{Path: "people/person.go", Text: personSrc})
	sym, err := prog.Symbol(findDecl(t, prog, "Person"))
	require.NoError(t, err)

	require.Len(t, sym.Methods, 3)
	full := sym.Methods[0]
	assert.Equal(t, "FullName", full.Name)
	assert.True(t, full.IsGetter())
	assert.True(t, full.PointerReceiver)
	assert.Equal(t, []string{"firstName", "lastName"}, full.DependsOn())

	assert.False(t, sym.Methods[1].IsGetter(), "unexported")
	assert.False(t, sym.Methods[1].PointerReceiver)
	assert.False(t, sym.Methods[2].IsGetter(), "takes a parameter")

	assert.True(t, sym.Declares("SetAge"))
	assert.True(t, sym.Declares("firstName"))
	assert.False(t, sym.Declares("SetFirstName"))
	assert.False(t, sym.Declares("AddPropertyChangedHandler"), "promoted methods do not count")
}

func TestSymbol_GenericValueType(t *testing.T) {
	prog := load(t, Source{Path: "people/person.go", Text: personSrc})
	sym, err := prog.Symbol(findDecl(t, prog, "Pair"))
	require.NoError(t, err)

	assert.Equal(t, DeclValue, sym.Kind)
	assert.Equal(t, "Pair[K, V]", sym.DisplayName())
	assert.Equal(t, []string{"key", "value"}, memberNames(sym.Members))
	assert.Equal(t, "ValueType/NonNullable", sym.Members[1].Shape().String())
	assert.True(t, sym.Annotations.Has(annotation.KindValueType))
}

func TestTypeDecl_UnsupportedShape(t *testing.T) {
	prog := load(t, Source{Path: "people/person.go", Text: personSrc})
	decl := findDecl(t, prog, "IDs")
	assert.Equal(t, DeclUnsupported, decl.Kind())

	sym, err := prog.Symbol(decl)
	require.NoError(t, err)
	assert.Empty(t, sym.Members)
}

func TestSymbol_UnresolvedDeclaration(t *testing.T) {
	prog := load(t, Source{Path: "a/a.go", Text: "package a\n"})
	spec := &ast.TypeSpec{Name: ast.NewIdent("Ghost"), Type: &ast.StructType{Fields: &ast.FieldList{}}}
	decl := prog.Units[1].Decl(&ast.GenDecl{Tok: token.TYPE, Specs: []ast.Spec{spec}}, spec)

	_, err := prog.Symbol(decl)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInput))
	assert.Contains(t, err.Error(), "Ghost")
}
