package generator

import (
	"go/types"

	"github.com/dave/jennifer/jen"

	"github.com/ioklo/Pretune/internal/annotation"
	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/parser"
	"github.com/ioklo/Pretune/internal/resolver"
)

// Equatable synthesizes structural Equal, EqualAny and Hash methods.
//
// In phase one it also registers every custom comparer it sees, whether or
// not the declaration is an equality target, and records the targets so
// members of another target type compare through the generated methods.
type Equatable struct {
	runtimePath string
	registry    *resolver.Registry
	resolver    resolver.Resolver
	targets     resolver.Targets
}

// NewEquatable creates the equality generator. registry receives comparer
// registrations and is consulted when resolving member strategies.
func NewEquatable(runtimePath string, registry *resolver.Registry) *Equatable {
	g := &Equatable{
		runtimePath: runtimePath,
		registry:    registry,
		resolver:    resolver.New(resolver.DefaultRules(registry)...),
		targets:     resolver.Targets{},
	}
	g.resolver.SetTargets(g.targets)
	return g
}

func (g *Equatable) Name() string { return "equatable" }

// Reset forgets the registrations and targets of the previous run.
func (g *Equatable) Reset() {
	g.registry.Reset()
	clear(g.targets)
}

func (g *Equatable) ShouldApply(decl *parser.TypeDecl, prog *parser.Program) (bool, error) {
	anns := decl.Annotations()
	obj, resolved := decl.Object()

	for _, a := range anns.All(annotation.KindCustomEqualityComparer) {
		if !a.Resolved() || a.TypeArg == nil || !resolved {
			continue
		}
		if err := g.registry.Register(obj, a.TypeArg, decl.String()); err != nil {
			return false, err
		}
	}

	if !anns.Has(annotation.KindImplementEquatable) {
		return false, nil
	}
	kind := decl.Kind()
	if resolved && kind != parser.DeclUnsupported {
		g.targets[obj] = kind == parser.DeclValue
	}
	return true, nil
}

func (g *Equatable) Generate(sym *parser.TypeSymbol) (Result, error) {
	if sym.Kind == parser.DeclUnsupported {
		return Result{}, errors.Configuration("%s: ImplementEquatable needs a struct type", sym.Decl)
	}

	s := newTypeShape(sym)
	e := equalityWriter{typeShape: s, rt: g.runtimePath, resolver: g.resolver}

	base := jen.Qual(g.runtimePath, "Equatable").Types(s.handle())
	return Result{
		BaseTypes: []jen.Code{base},
		Members: []jen.Code{
			e.equalAny(),
			e.equal(),
			e.hash(),
		},
	}, nil
}

// equalityWriter emits the methods of one target.
type equalityWriter struct {
	typeShape
	rt       string
	resolver resolver.Resolver
}

func (e equalityWriter) equalAny() jen.Code {
	var body []jen.Code
	if e.value {
		body = []jen.Code{
			jen.List(jen.Id("cast"), jen.Id("ok")).Op(":=").Id("other").Assert(e.handle()),
			jen.Return(jen.Id("ok").Op("&&").Id(e.recv).Dot("Equal").Call(jen.Id("cast"))),
		}
	} else {
		body = []jen.Code{
			jen.List(jen.Id("cast"), jen.Id("_")).Op(":=").Id("other").Assert(e.handle()),
			jen.Return(jen.Id(e.recv).Dot("Equal").Call(jen.Id("cast"))),
		}
	}
	return jen.Func().Params(e.receiver()).Id("EqualAny").
		Params(jen.Id("other").Any()).Bool().
		Block(body...)
}

func (e equalityWriter) equal() jen.Code {
	var body []jen.Code
	if !e.value {
		body = append(body, jen.If(jen.Id(e.recv).Op("==").Nil().Op("||").Id("other").Op("==").Nil()).Block(
			jen.Return(jen.Id(e.recv).Op("==").Id("other")),
		))
	}
	for _, m := range e.sym.Members {
		body = append(body, e.memberTest(m))
	}
	body = append(body, jen.Return(jen.True()))

	return jen.Func().Params(e.receiver()).Id("Equal").
		Params(jen.Id("other").Add(e.handle())).Bool().
		Block(body...)
}

func (e equalityWriter) hash() jen.Code {
	var body []jen.Code
	if !e.value {
		body = append(body, jen.If(jen.Id(e.recv).Op("==").Nil()).Block(jen.Return(jen.Lit(0))))
	}
	body = append(body, jen.Id("hash").Op(":=").Qual(e.rt, "NewHashCode").Call())
	for _, m := range e.sym.Members {
		body = append(body, e.memberHash(m))
	}
	body = append(body, jen.Return(jen.Id("hash").Dot("Sum").Call()))

	return jen.Func().Params(e.receiver()).Id("Hash").Params().Uint64().Block(body...)
}

// operand is one side of a comparison. deref marks a pointer whose pointee
// is compared.
type operand struct {
	expr  *jen.Statement
	deref bool
}

func (o operand) value() *jen.Statement {
	if o.deref {
		return jen.Op("*").Add(o.expr.Clone())
	}
	return o.expr.Clone()
}

// recv renders the operand as a method call receiver.
func (o operand) recv() *jen.Statement {
	if o.deref {
		return jen.Parens(o.value())
	}
	return o.expr.Clone()
}

// notEqual renders the failing test of plan for a and b.
func (e equalityWriter) notEqual(plan resolver.Plan, a, b operand) *jen.Statement {
	switch plan.Strategy {
	case resolver.StrategyComparer:
		return jen.Op("!").Add(e.comparer(plan)).Dot("Equal").Call(a.value(), b.value())
	case resolver.StrategyEquatable:
		return jen.Op("!").Add(a.recv()).Dot("Equal").Call(b.value())
	case resolver.StrategyOperator:
		return a.value().Op("!=").Add(b.value())
	default:
		return jen.Op("!").Qual(e.rt, "DefaultEqual").Call(a.value(), b.value())
	}
}

// hashOf renders the hash contribution of plan for v.
func (e equalityWriter) hashOf(plan resolver.Plan, v operand) *jen.Statement {
	switch plan.Strategy {
	case resolver.StrategyComparer:
		return e.comparer(plan).Dot("Hash").Call(v.value())
	case resolver.StrategyEquatable:
		return v.recv().Dot("Hash").Call()
	case resolver.StrategyOperator:
		return jen.Qual(e.rt, "HashOf").Call(v.value())
	default:
		return jen.Qual(e.rt, "DefaultHash").Call(v.value())
	}
}

func (e equalityWriter) comparer(plan resolver.Plan) *jen.Statement {
	return jen.Parens(e.w.code(plan.Comparer).Values())
}

// memberPlan resolves how m is compared. Pointers compare their pointee
// unless the pointer type itself has a comparer or equality methods.
func (e equalityWriter) memberPlan(m *parser.Member) (resolver.Plan, bool) {
	plan := e.resolver.Resolve(m.Type)
	if _, isPtr := m.Type.Underlying().(*types.Pointer); !isPtr || isParam(m.Type) {
		return plan, false
	}
	if plan.Strategy == resolver.StrategyComparer || plan.Strategy == resolver.StrategyEquatable {
		return plan, false
	}
	return e.resolver.Resolve(m.Type.Underlying().(*types.Pointer).Elem()), true
}

func (e equalityWriter) memberTest(m *parser.Member) jen.Code {
	a, b := e.field(m.Name), jen.Id("other").Dot(m.Name)
	shape := m.Shape()
	plan, deref := e.memberPlan(m)
	fail := jen.Return(jen.False())

	if direct(plan, deref) || !shape.Nullable() {
		return jen.If(e.notEqual(plan, operand{a, deref}, operand{b, deref})).Block(fail)
	}

	if shape.Reference() {
		return jen.If(a.Clone().Op("!=").Nil().Op("&&").Add(b.Clone()).Op("!=").Nil()).Block(
			jen.If(e.notEqual(plan, operand{a, deref}, operand{b, deref})).Block(fail.Clone()),
		).Else().If(a.Clone().Op("!=").Nil().Op("||").Add(b.Clone()).Op("!=").Nil()).Block(fail.Clone())
	}

	inner := e.resolver.Resolve(shape.Inner)
	av, bv := a.Clone().Dot(shape.ValueField), b.Clone().Dot(shape.ValueField)
	valid := func(s *jen.Statement) *jen.Statement { return s.Clone().Dot(shape.ValidField) }
	return jen.If(
		valid(a).Op("!=").Add(valid(b)).Op("||").Add(valid(a)).Op("&&").
			Add(e.notEqual(inner, operand{expr: av}, operand{expr: bv})),
	).Block(fail)
}

func (e equalityWriter) memberHash(m *parser.Member) jen.Code {
	v := e.field(m.Name)
	shape := m.Shape()
	plan, deref := e.memberPlan(m)
	add := func(c jen.Code) *jen.Statement { return jen.Id("hash").Dot("Add").Call(c) }

	if direct(plan, deref) || !shape.Nullable() {
		return add(e.hashOf(plan, operand{v, deref}))
	}

	if shape.Reference() {
		return jen.If(v.Clone().Op("!=").Nil()).Block(
			add(e.hashOf(plan, operand{v, deref})),
		).Else().Block(add(jen.Lit(0)))
	}

	inner := e.resolver.Resolve(shape.Inner)
	return jen.If(v.Clone().Dot(shape.ValidField)).Block(
		add(e.hashOf(inner, operand{expr: v.Clone().Dot(shape.ValueField)})),
	).Else().Block(add(jen.Lit(0)))
}

// direct reports whether a comparer handles the member as is, absent values
// included. A comparer reached through a pointer only sees pointees.
func direct(plan resolver.Plan, deref bool) bool {
	return plan.Strategy == resolver.StrategyComparer && !deref
}

func isParam(t types.Type) bool {
	_, ok := types.Unalias(t).(*types.TypeParam)
	return ok
}
