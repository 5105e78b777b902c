package generator

import (
	"go/types"

	"github.com/dave/jennifer/jen"

	"github.com/ioklo/Pretune/internal/naming"
	"github.com/ioklo/Pretune/internal/parser"
)

// typeWriter renders go/types types as jennifer code for a file of package
// self. Named types are qualified through jen.Qual so the file's import block
// follows.
type typeWriter struct {
	self *types.Package
}

func (w typeWriter) code(t types.Type) *jen.Statement {
	switch x := t.(type) {
	case *types.Alias:
		return w.named(x.Obj(), x.TypeArgs())
	case *types.Named:
		return w.named(x.Obj(), x.TypeArgs())
	case *types.TypeParam:
		return jen.Id(x.Obj().Name())
	case *types.Basic:
		if x.Kind() == types.UnsafePointer {
			return jen.Qual("unsafe", "Pointer")
		}
		return jen.Id(x.Name())
	case *types.Pointer:
		return jen.Op("*").Add(w.code(x.Elem()))
	case *types.Slice:
		return jen.Index().Add(w.code(x.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(x.Len()))).Add(w.code(x.Elem()))
	case *types.Map:
		return jen.Map(w.code(x.Key())).Add(w.code(x.Elem()))
	case *types.Chan:
		switch x.Dir() {
		case types.SendOnly:
			return jen.Chan().Op("<-").Add(w.code(x.Elem()))
		case types.RecvOnly:
			return jen.Op("<-").Chan().Add(w.code(x.Elem()))
		default:
			return jen.Chan().Add(w.code(x.Elem()))
		}
	case *types.Signature:
		return jen.Func().Add(w.signature(x))
	case *types.Interface:
		if x.Empty() {
			return jen.Any()
		}
		if x.IsImplicit() && x.NumEmbeddeds() == 1 {
			return w.code(x.EmbeddedType(0))
		}
	case *types.Union:
		terms := make([]jen.Code, x.Len())
		for i := range terms {
			term := x.Term(i)
			if term.Tilde() {
				terms[i] = jen.Op("~").Add(w.code(term.Type()))
			} else {
				terms[i] = w.code(term.Type())
			}
		}
		return jen.Union(terms...)
	}
	return jen.Id(types.TypeString(t, w.qualifier))
}

func (w typeWriter) named(obj *types.TypeName, targs *types.TypeList) *jen.Statement {
	var s *jen.Statement
	if obj.Pkg() == nil {
		s = jen.Id(obj.Name())
	} else {
		s = jen.Qual(obj.Pkg().Path(), obj.Name())
	}
	if targs != nil && targs.Len() > 0 {
		args := make([]jen.Code, targs.Len())
		for i := range args {
			args[i] = w.code(targs.At(i))
		}
		s = s.Types(args...)
	}
	return s
}

func (w typeWriter) signature(sig *types.Signature) *jen.Statement {
	params := make([]jen.Code, sig.Params().Len())
	for i := range params {
		p := sig.Params().At(i)
		if sig.Variadic() && i == len(params)-1 {
			params[i] = jen.Op("...").Add(w.code(p.Type().(*types.Slice).Elem()))
		} else {
			params[i] = w.code(p.Type())
		}
	}
	s := jen.Params(params...)

	switch n := sig.Results().Len(); n {
	case 0:
	case 1:
		s.Add(w.code(sig.Results().At(0).Type()))
	default:
		results := make([]jen.Code, n)
		for i := range results {
			results[i] = w.code(sig.Results().At(i).Type())
		}
		s.Params(results...)
	}
	return s
}

// qualifier names packages in the TypeString fallback; goimports adds the
// imports those names need.
func (w typeWriter) qualifier(pkg *types.Package) string {
	if pkg == nil || pkg == w.self || (w.self != nil && pkg.Path() == w.self.Path()) {
		return ""
	}
	return pkg.Name()
}

// typeShape captures how generated code refers to the annotated type.
type typeShape struct {
	sym   *parser.TypeSymbol
	w     typeWriter
	recv  string
	value bool
}

func newTypeShape(sym *parser.TypeSymbol) typeShape {
	return typeShape{
		sym:   sym,
		w:     typeWriter{self: sym.Package()},
		recv:  naming.ReceiverName(sym.Name()),
		value: sym.Kind == parser.DeclValue,
	}
}

// self renders T or T[P1, P2] with the type's own parameter names.
func (s typeShape) self() *jen.Statement {
	code := jen.Id(s.sym.Name())
	if tps := s.sym.TypeParams(); tps != nil && tps.Len() > 0 {
		args := make([]jen.Code, tps.Len())
		for i := range args {
			args[i] = jen.Id(tps.At(i).Obj().Name())
		}
		code = code.Types(args...)
	}
	return code
}

// handle is the type values are passed around as: *T for class-like types,
// T for value-like ones.
func (s typeShape) handle() *jen.Statement {
	if s.value {
		return s.self()
	}
	return jen.Op("*").Add(s.self())
}

// receiver renders the method receiver.
func (s typeShape) receiver() *jen.Statement {
	return jen.Id(s.recv).Add(s.handle())
}

// typeParams renders the declaration form [P1 C1, P2 C2] arguments.
func (s typeShape) typeParams() []jen.Code {
	tps := s.sym.TypeParams()
	if tps == nil {
		return nil
	}
	out := make([]jen.Code, tps.Len())
	for i := range out {
		tp := tps.At(i)
		out[i] = jen.Id(tp.Obj().Name()).Add(s.w.code(tp.Constraint()))
	}
	return out
}

// field renders x.name for the receiver.
func (s typeShape) field(name string) *jen.Statement {
	return jen.Id(s.recv).Dot(name)
}

// ZeroValue renders a typed zero value of sym for interface assertions:
// (*T)(nil) for class-like types, T{} for value-like ones.
func ZeroValue(sym *parser.TypeSymbol) jen.Code {
	s := newTypeShape(sym)
	if s.value {
		return s.self().Values()
	}
	return jen.Parens(s.handle()).Parens(jen.Nil())
}

// TypeParamDecls renders the type parameter declarations of sym; nil when
// sym is not generic.
func TypeParamDecls(sym *parser.TypeSymbol) []jen.Code {
	return newTypeShape(sym).typeParams()
}
