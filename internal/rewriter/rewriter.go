// Package rewriter drives the generators over compilation units in two
// phases and assembles the generated companion file of each unit.
//
// Collect asks every generator about every type declaration and records the
// accepted ones in a Plan. Rewrite walks a unit's declarations with an
// explicit frame stack (file, type group, type), lets the accepted
// generators emit their declarations and folds the frames back into one
// file. Only package-level declarations are visited; function bodies are
// never entered.
package rewriter

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"

	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/generator"
	"github.com/ioklo/Pretune/internal/logging"
	"github.com/ioklo/Pretune/internal/parser"
)

// Header marks generated files. Only files starting with it are ever
// removed or overwritten.
const Header = "// Code generated by pretune. DO NOT EDIT."

// Rewriter runs the generator protocol over units.
type Rewriter interface {
	// Collect runs phase one over unit and records accepted generators in
	// plan.
	Collect(unit *parser.Unit, prog *parser.Program, plan *Plan) error
	// Rewrite runs phase two over unit. It returns nil when no generator
	// contributed anything.
	Rewrite(unit *parser.Unit, prog *parser.Program, plan *Plan) (*jen.File, error)
}

// Option configures a Rewriter.
type Option func(*rewriterImpl)

// WithLogger sets the logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(r *rewriterImpl) { r.logger = logger }
}

type rewriterImpl struct {
	generators []generator.Generator
	logger     *zap.SugaredLogger
}

// New creates a rewriter over generators, kept in registration order.
func New(generators []generator.Generator, opts ...Option) Rewriter {
	r := &rewriterImpl{
		generators: generators,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *rewriterImpl) Collect(unit *parser.Unit, prog *parser.Program, plan *Plan) error {
	for _, decl := range unit.TypeDecls() {
		for _, g := range r.generators {
			ok, err := g.ShouldApply(decl, prog)
			if err != nil {
				return errors.Wrapf(err, "%s", g.Name())
			}
			if ok {
				plan.add(decl.Spec, g)
				r.logger.Debugw("generator accepted", "type", decl.String(), "generator", g.Name())
			}
		}
	}
	return nil
}

func (r *rewriterImpl) Rewrite(unit *parser.Unit, prog *parser.Program, plan *Plan) (*jen.File, error) {
	stack := &frameStack{}
	stack.push(frameFile, unit.Path)

	for _, decl := range unit.File.Decls {
		group, ok := decl.(*ast.GenDecl)
		if !ok || group.Tok != token.TYPE {
			continue
		}

		stack.push(frameGroup, "type")
		for _, spec := range group.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.Assign.IsValid() {
				continue
			}
			gens := plan.Generators(ts)
			if len(gens) == 0 {
				continue
			}
			if err := r.rewriteType(stack, unit.Decl(group, ts), prog, gens); err != nil {
				return nil, err
			}
		}
		stack.pop()
	}

	file := stack.pop()
	if stack.depth() != 0 {
		return nil, errors.Newf("rewriter: frame %q of %s left open", stack.top().name, unit.Path)
	}
	if file.empty() {
		return nil, nil
	}
	return r.render(unit, file), nil
}

func (r *rewriterImpl) rewriteType(stack *frameStack, decl *parser.TypeDecl, prog *parser.Program, gens []generator.Generator) error {
	sym, err := prog.Symbol(decl)
	if err != nil {
		return err
	}

	f := stack.push(frameType, sym.Name())
	for _, g := range gens {
		res, err := g.Generate(sym)
		if err != nil {
			return errors.Wrapf(err, "%s", g.Name())
		}
		f.bases = append(f.bases, res.BaseTypes...)
		f.decls = append(f.decls, res.Members...)
	}
	if len(f.bases) > 0 {
		f.decls = append([]jen.Code{assertions(sym, f.bases)}, f.decls...)
	}
	r.logger.Debugw("generated", "type", decl.String(), "bases", len(f.bases), "members", len(f.decls))

	stack.pop()
	return nil
}

// assertions folds base types into compile-time interface checks. Generic
// types are checked inside a generic function so their parameters are in
// scope.
func assertions(sym *parser.TypeSymbol, bases []jen.Code) jen.Code {
	zero := generator.ZeroValue(sym)
	vars := make([]jen.Code, len(bases))
	for i, base := range bases {
		vars[i] = jen.Id("_").Add(base).Op("=").Add(zero)
	}

	tparams := generator.TypeParamDecls(sym)
	if len(tparams) == 0 {
		if len(vars) == 1 {
			return jen.Var().Add(vars[0])
		}
		return jen.Var().Defs(vars...)
	}

	body := make([]jen.Code, len(vars))
	for i, v := range vars {
		body[i] = jen.Var().Add(v)
	}
	return jen.Func().Id("_").Types(tparams...).Params().Block(body...)
}

func (r *rewriterImpl) render(unit *parser.Unit, file *frame) *jen.File {
	out := jen.NewFilePathName(unit.Package.Path(), unit.File.Name.Name)
	out.HeaderComment(Header)
	for _, c := range buildConstraints(unit.File) {
		out.HeaderComment(c)
	}

	for _, imp := range unit.Package.Imports() {
		out.ImportName(imp.Path(), imp.Name())
	}
	for _, spec := range unit.File.Imports {
		if spec.Name == nil || spec.Name.Name == "_" || spec.Name.Name == "." {
			continue
		}
		if path, err := strconv.Unquote(spec.Path.Value); err == nil {
			out.ImportAlias(path, spec.Name.Name)
		}
	}

	for _, decl := range file.decls {
		out.Add(decl)
		out.Line()
	}
	return out
}

// buildConstraints returns the //go:build lines of f so the generated file
// builds under the same conditions.
func buildConstraints(f *ast.File) []string {
	var out []string
	for _, group := range f.Comments {
		if group.Pos() >= f.Package {
			break
		}
		for _, c := range group.List {
			if strings.HasPrefix(c.Text, "//go:build ") {
				out = append(out, c.Text)
			}
		}
	}
	return out
}
