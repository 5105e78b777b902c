package generator

import (
	"slices"

	"github.com/dave/jennifer/jen"

	"github.com/ioklo/Pretune/internal/annotation"
	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/naming"
	"github.com/ioklo/Pretune/internal/parser"
)

const (
	addHandlerName = "AddPropertyChangedHandler"
	raiseName      = "raisePropertyChanged"
)

// reservedAccessors are method names other generators or the notification
// surface itself may declare.
var reservedAccessors = []string{"Equal", "EqualAny", "Hash", addHandlerName}

// Notify synthesizes change notifying accessors for the storage members of
// class-like types.
type Notify struct {
	runtimePath string
}

// NewNotify creates the change notification generator.
func NewNotify(runtimePath string) *Notify {
	return &Notify{runtimePath: runtimePath}
}

func (g *Notify) Name() string { return "notify" }

// ShouldApply declines value-like types: a setter on a copy changes nothing.
func (g *Notify) ShouldApply(decl *parser.TypeDecl, _ *parser.Program) (bool, error) {
	if !decl.Annotations().Has(annotation.KindNotifyPropertyChanged) {
		return false, nil
	}
	return decl.Kind() == parser.DeclClass, nil
}

func (g *Notify) Generate(sym *parser.TypeSymbol) (Result, error) {
	if sym.Kind != parser.DeclClass {
		return Result{}, errors.Configuration("%s: ImplementNotifyPropertyChanged needs a struct type without ValueType", sym.Decl)
	}
	marker, _ := sym.Marker(annotation.KindNotifyPropertyChanged)
	if marker.Source != annotation.SourceMarker || marker.Blank() {
		return Result{}, errors.Configuration(
			"%s: ImplementNotifyPropertyChanged must be an embedded or named field to hold its handlers", sym.Decl)
	}
	if sym.Declares(raiseName) {
		return Result{}, errors.Configuration("%s: %s is already declared", sym.Decl, raiseName)
	}

	s := newTypeShape(sym)
	members := []jen.Code{
		g.addHandler(s, marker.FieldName),
		g.raise(s, marker.FieldName),
	}

	dependents := dependentsOf(sym)
	for _, m := range sym.Storage() {
		accessor := naming.AccessorName(m)
		if !eligible(sym, accessor) {
			continue
		}
		members = append(members,
			g.getter(s, m, accessor),
			g.setter(s, m, accessor, dependents[m.Name]),
		)
	}

	return Result{
		BaseTypes: []jen.Code{jen.Qual(g.runtimePath, "NotifyPropertyChanged")},
		Members:   members,
	}, nil
}

func eligible(sym *parser.TypeSymbol, accessor string) bool {
	if slices.Contains(reservedAccessors, accessor) {
		return false
	}
	return !sym.Declares(accessor) && !sym.Declares("Set"+accessor)
}

// dependentsOf maps storage member names to the getters that declared a
// dependency on them, in getter source order.
func dependentsOf(sym *parser.TypeSymbol) map[string][]string {
	out := map[string][]string{}
	for _, method := range sym.Methods {
		if !method.IsGetter() {
			continue
		}
		for _, name := range method.DependsOn() {
			m, ok := sym.Member(name)
			if !ok || !m.IsStorage() || slices.Contains(out[name], method.Name) {
				continue
			}
			out[name] = append(out[name], method.Name)
		}
	}
	return out
}

func (g *Notify) addHandler(s typeShape, field string) jen.Code {
	return jen.Func().Params(s.receiver()).Id(addHandlerName).
		Params(jen.Id("handler").Qual(g.runtimePath, "PropertyChangedHandler")).
		Params(jen.Id("remove").Func().Params()).
		Block(jen.Return(s.field(field).Dot(addHandlerName).Call(jen.Id("handler"))))
}

func (g *Notify) raise(s typeShape, field string) jen.Code {
	return jen.Func().Params(s.receiver()).Id(raiseName).
		Params(jen.Id("propertyName").String()).
		Block(s.field(field).Dot("RaisePropertyChanged").Call(jen.Id(s.recv), jen.Id("propertyName")))
}

func (g *Notify) getter(s typeShape, m *parser.Member, accessor string) jen.Code {
	return jen.Func().Params(s.receiver()).Id(accessor).Params().Add(s.w.code(m.Type)).
		Block(jen.Return(s.field(m.Name)))
}

func (g *Notify) setter(s typeShape, m *parser.Member, accessor string, dependents []string) jen.Code {
	body := []jen.Code{
		jen.If(jen.Qual(g.runtimePath, "DefaultEqual").Call(s.field(m.Name), jen.Id("value"))).Block(jen.Return()),
		s.field(m.Name).Op("=").Id("value"),
		jen.Id(s.recv).Dot(raiseName).Call(jen.Lit(accessor)),
	}
	for _, d := range dependents {
		body = append(body, jen.Id(s.recv).Dot(raiseName).Call(jen.Lit(d)))
	}
	return jen.Func().Params(s.receiver()).Id("Set" + accessor).
		Params(jen.Id("value").Add(s.w.code(m.Type))).
		Block(body...)
}
