package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/ioklo/Pretune/internal/annotation"
	"github.com/ioklo/Pretune/internal/errors"
)

// Program is the combined semantic view over the synthetic stub unit and
// every input unit of one run.
type Program struct {
	Fset  *token.FileSet
	Units []*Unit

	runtimePath string
	matcher     annotation.Matcher
	funcDecls   map[types.Object]*ast.FuncDecl
	decls       map[*ast.TypeSpec]*TypeDecl
	symbols     map[*ast.TypeSpec]*TypeSymbol
}

func newProgram(fset *token.FileSet, runtimePath string, matcher annotation.Matcher) *Program {
	return &Program{
		Fset:        fset,
		runtimePath: runtimePath,
		matcher:     matcher,
		funcDecls:   map[types.Object]*ast.FuncDecl{},
		decls:       map[*ast.TypeSpec]*TypeDecl{},
		symbols:     map[*ast.TypeSpec]*TypeSymbol{},
	}
}

// RuntimePath is the import path the stub unit was loaded under.
func (p *Program) RuntimePath() string { return p.runtimePath }

// Matcher returns the annotation matcher bound to the runtime path.
func (p *Program) Matcher() annotation.Matcher { return p.matcher }

// Unit is one compilation unit: a parsed file with the type information of
// its package.
type Unit struct {
	// Path is the slash-separated input path the file was read from.
	Path      string
	File      *ast.File
	Package   *types.Package
	Info      *types.Info
	Synthetic bool

	// TypeErrors are the type errors of the unit's package that loading
	// tolerated.
	TypeErrors []error

	program *Program
}

// Program returns the program the unit belongs to.
func (u *Unit) Program() *Program { return u.program }

// Decl returns the declaration handle for spec, a type spec of group in u.
// Handles are cached, so the same spec always yields the same *TypeDecl.
func (u *Unit) Decl(group *ast.GenDecl, spec *ast.TypeSpec) *TypeDecl {
	if d, ok := u.program.decls[spec]; ok {
		return d
	}
	d := &TypeDecl{Unit: u, Group: group, Spec: spec}
	u.program.decls[spec] = d
	return d
}

// TypeDecls returns every package-level type declaration of u in source order.
// Alias declarations are not type declarations.
func (u *Unit) TypeDecls() []*TypeDecl {
	var out []*TypeDecl
	for _, decl := range u.File.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.Assign.IsValid() {
				continue
			}
			out = append(out, u.Decl(gd, ts))
		}
	}
	return out
}

// DeclKind is the shape of a type declaration as far as generators care.
type DeclKind int

const (
	// DeclUnsupported is any non-struct type.
	DeclUnsupported DeclKind = iota
	// DeclClass is a struct handled through *T.
	DeclClass
	// DeclValue is a struct carrying the ValueType marker, handled as T.
	DeclValue
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class-like"
	case DeclValue:
		return "value-like"
	default:
		return "unsupported"
	}
}

// TypeDecl is one type declaration of a unit. It is read-only.
type TypeDecl struct {
	Unit  *Unit
	Group *ast.GenDecl
	Spec  *ast.TypeSpec

	annotations annotation.Set
	annotated   bool
}

// Name is the declared type name.
func (d *TypeDecl) Name() string { return d.Spec.Name.Name }

// Position is the source position of the declared name.
func (d *TypeDecl) Position() token.Position {
	return d.Unit.program.Fset.Position(d.Spec.Name.Pos())
}

// String identifies the declaration in diagnostics.
func (d *TypeDecl) String() string {
	pkg := "?"
	if d.Unit.Package != nil {
		pkg = d.Unit.Package.Name()
	}
	return fmt.Sprintf("%s.%s (%s)", pkg, d.Name(), d.Position())
}

// Object returns the declared type name object, if type checking produced one.
func (d *TypeDecl) Object() (*types.TypeName, bool) {
	if d.Unit.Info == nil {
		return nil, false
	}
	obj, ok := d.Unit.Info.Defs[d.Spec.Name].(*types.TypeName)
	return obj, ok && obj != nil
}

// Annotations returns the markers and directives of the declaration.
func (d *TypeDecl) Annotations() annotation.Set {
	if !d.annotated {
		d.annotations = d.Unit.program.matcher.TypeAnnotations(d.Spec, d.Group, d.Unit.Info)
		d.annotated = true
	}
	return d.annotations
}

// Kind classifies the declaration from its syntax and annotations.
func (d *TypeDecl) Kind() DeclKind {
	if _, ok := d.Spec.Type.(*ast.StructType); !ok {
		if obj, ok := d.Object(); !ok || !isStruct(obj.Type()) {
			return DeclUnsupported
		}
	}
	if d.Annotations().Has(annotation.KindValueType) {
		return DeclValue
	}
	return DeclClass
}

func isStruct(t types.Type) bool {
	_, ok := t.Underlying().(*types.Struct)
	return ok
}

// Symbol returns the resolved view of decl. A declaration whose type name did
// not resolve is an input error for that declaration only.
func (p *Program) Symbol(decl *TypeDecl) (*TypeSymbol, error) {
	if sym, ok := p.symbols[decl.Spec]; ok {
		return sym, nil
	}

	obj, ok := decl.Object()
	if !ok {
		return nil, errors.Input("%s: declared type did not resolve", decl)
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, errors.Input("%s: %s is not a defined type", decl, obj.Type())
	}

	sym := &TypeSymbol{
		Decl:        decl,
		Obj:         obj,
		Named:       named,
		Kind:        decl.Kind(),
		Annotations: decl.Annotations(),
	}
	sym.Members = p.members(sym)
	sym.Methods = p.methods(sym)
	p.symbols[decl.Spec] = sym
	return sym, nil
}
