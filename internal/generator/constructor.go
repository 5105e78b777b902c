package generator

import (
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/ioklo/Pretune/internal/annotation"
	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/naming"
	"github.com/ioklo/Pretune/internal/parser"
)

// Constructor synthesizes NewT with one parameter per member.
type Constructor struct{}

// NewConstructor creates the constructor generator.
func NewConstructor() *Constructor {
	return &Constructor{}
}

func (g *Constructor) Name() string { return "constructor" }

func (g *Constructor) ShouldApply(decl *parser.TypeDecl, _ *parser.Program) (bool, error) {
	return decl.Annotations().Has(annotation.KindAutoConstructor), nil
}

func (g *Constructor) Generate(sym *parser.TypeSymbol) (Result, error) {
	if sym.Kind == parser.DeclUnsupported {
		return Result{}, errors.Configuration("%s: AutoConstructor needs a struct type", sym.Decl)
	}

	s := newTypeShape(sym)
	params := make([]jen.Code, 0, len(sym.Members))
	values := make([]jen.Code, 0, len(sym.Members))
	used := map[string]bool{}
	if tps := sym.TypeParams(); tps != nil {
		for i := 0; i < tps.Len(); i++ {
			used[tps.At(i).Obj().Name()] = true
		}
	}
	for _, m := range sym.Members {
		name := uniqueName(naming.ParameterName(m), used)
		params = append(params, jen.Id(name).Add(s.w.code(m.Type)))
		values = append(values, jen.Id(m.Name).Op(":").Id(name))
	}

	lit := s.self().Values(values...)
	if !s.value {
		lit = jen.Op("&").Add(lit)
	}

	fn := jen.Func().Id(naming.ConstructorName(sym.Name()))
	if tps := s.typeParams(); len(tps) > 0 {
		fn = fn.Types(tps...)
	}
	fn = fn.Params(params...).Add(s.handle()).Block(jen.Return(lit))

	return Result{Members: []jen.Code{fn}}, nil
}

// uniqueName suffixes name until it is not in used, then records it. Two
// members can map to the same parameter, e.g. an embedded Name and name.
func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	used[candidate] = true
	return candidate
}
