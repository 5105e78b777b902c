// Package parser is the front-end of the generator: it parses compilation
// units, type-checks them together with a synthetic stub unit and exposes the
// resolved declarations generators work on.
package parser

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"path"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/ioklo/Pretune/internal/annotation"
	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/logging"
)

// LocalPathPrefix prefixes package paths of input directories when no module
// path is known.
const LocalPathPrefix = "pretune.local"

// Source is the text of one compilation unit.
type Source struct {
	// Path is slash-separated and relative to the working directory.
	Path string
	Text string
}

// Parser builds the semantic view over one run's compilation units.
type Parser interface {
	Load(stub Source, inputs []Source) (*Program, error)
}

// Option configures a Parser.
type Option func(*parserImpl)

// WithDir sets the directory imports are resolved from.
func WithDir(dir string) Option {
	return func(p *parserImpl) { p.dir = dir }
}

// WithModulePath sets the module path input directories live under.
func WithModulePath(modulePath string) Option {
	return func(p *parserImpl) { p.modulePath = modulePath }
}

// WithLogger sets the logger used for tolerated load problems.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(p *parserImpl) { p.logger = logger }
}

type parserImpl struct {
	runtimePath string
	dir         string
	modulePath  string
	matcher     annotation.Matcher
	logger      *zap.SugaredLogger
}

// New returns a parser serving the stub unit under runtimePath.
func New(runtimePath string, opts ...Option) Parser {
	p := &parserImpl{
		runtimePath: runtimePath,
		matcher:     annotation.NewMatcher(runtimePath),
		logger:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *parserImpl) Load(stub Source, inputs []Source) (*Program, error) {
	fset := token.NewFileSet()
	prog := newProgram(fset, p.runtimePath, p.matcher)

	stubFile, err := goparser.ParseFile(fset, stub.Path, stub.Text, goparser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, "parse stub")
	}

	files := make([]*ast.File, len(inputs))
	for i, in := range inputs {
		f, err := goparser.ParseFile(fset, in.Path, in.Text, goparser.ParseComments|goparser.SkipObjectResolution)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "parse %s", in.Path), errors.ErrInput)
		}
		files[i] = f
	}

	imp := p.loadImports(append([]*ast.File{stubFile}, files...))

	stubUnits := p.check(prog, imp, p.runtimePath, []*ast.File{stubFile}, []Source{stub})
	for _, u := range stubUnits {
		u.Synthetic = true
	}
	if errs := stubUnits[0].TypeErrors; len(errs) > 0 {
		p.logger.Warnw("stub unit has type errors", "error", errs[0])
	}
	imp.pkgs[p.runtimePath] = stubUnits[0].Package
	prog.Units = append(prog.Units, stubUnits...)

	for _, g := range groupPackages(inputs, files) {
		prog.Units = append(prog.Units, p.check(prog, imp, p.packagePath(g.dir), g.files, g.sources)...)
	}
	return prog, nil
}

func (p *parserImpl) packagePath(dir string) string {
	base := p.modulePath
	if base == "" {
		base = LocalPathPrefix
	}
	if dir == "." || dir == "" {
		return base
	}
	return path.Join(base, dir)
}

// check type-checks one package. Type errors are tolerated: generators only
// need declarations, and inputs routinely reference members that only the
// generated companion file declares.
func (p *parserImpl) check(prog *Program, imp *importer, pkgPath string, files []*ast.File, sources []Source) []*Unit {
	info := &types.Info{
		Types:     map[ast.Expr]types.TypeAndValue{},
		Defs:      map[*ast.Ident]types.Object{},
		Uses:      map[*ast.Ident]types.Object{},
		Implicits: map[ast.Node]types.Object{},
	}

	var typeErrors []error
	conf := types.Config{
		Importer: imp,
		Error: func(err error) {
			typeErrors = append(typeErrors, err)
		},
	}
	pkg, _ := conf.Check(pkgPath, prog.Fset, files, info)
	for _, err := range typeErrors {
		p.logger.Debugw("tolerated type error", "package", pkgPath, "error", err)
	}

	for _, f := range files {
		for _, decl := range f.Decls {
			if fd, ok := decl.(*ast.FuncDecl); ok && fd.Recv != nil {
				if obj := info.Defs[fd.Name]; obj != nil {
					prog.funcDecls[obj] = fd
				}
			}
		}
	}

	units := make([]*Unit, len(files))
	for i, f := range files {
		units[i] = &Unit{
			Path:       sources[i].Path,
			File:       f,
			Package:    pkg,
			Info:       info,
			TypeErrors: typeErrors,
			program:    prog,
		}
	}
	return units
}

type packageGroup struct {
	dir     string
	files   []*ast.File
	sources []Source
}

// groupPackages groups files by directory and package clause, keeping the
// order in which groups first appear.
func groupPackages(sources []Source, files []*ast.File) []*packageGroup {
	var groups []*packageGroup
	byKey := map[string]*packageGroup{}
	for i, f := range files {
		dir := path.Dir(sources[i].Path)
		key := dir + "\x00" + f.Name.Name
		g, ok := byKey[key]
		if !ok {
			g = &packageGroup{dir: dir}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.files = append(g.files, f)
		g.sources = append(g.sources, sources[i])
	}
	return groups
}

type importer struct {
	pkgs map[string]*types.Package
}

func (i *importer) Import(path string) (*types.Package, error) {
	if path == "unsafe" {
		return types.Unsafe, nil
	}
	if pkg, ok := i.pkgs[path]; ok && pkg != nil {
		return pkg, nil
	}
	return nil, fmt.Errorf("package %q could not be loaded", path)
}

// loadImports loads every package imported by files, except the runtime
// package which the stub unit stands in for, with one go/packages query so
// that all of them share type identities.
func (p *parserImpl) loadImports(files []*ast.File) *importer {
	imp := &importer{pkgs: map[string]*types.Package{}}

	seen := map[string]bool{p.runtimePath: true, "unsafe": true, "C": true}
	var paths []string
	for _, f := range files {
		for _, spec := range f.Imports {
			ipath, err := strconv.Unquote(spec.Path.Value)
			if err != nil || seen[ipath] {
				continue
			}
			seen[ipath] = true
			paths = append(paths, ipath)
		}
	}
	if len(paths) == 0 {
		return imp
	}
	sort.Strings(paths)

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedImports,
		Dir:  p.dir,
	}
	pkgs, err := packages.Load(cfg, paths...)
	if err != nil {
		p.logger.Warnw("could not load imports; markers fall back to name matching", "error", err)
		return imp
	}

	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			p.logger.Debugw("import has errors", "package", pkg.PkgPath, "error", e.Msg)
		}
		if pkg.Types != nil {
			addPackage(imp.pkgs, pkg.Types)
		}
	})
	return imp
}

func addPackage(dst map[string]*types.Package, pkg *types.Package) {
	if _, ok := dst[pkg.Path()]; ok {
		return
	}
	dst[pkg.Path()] = pkg
	for _, dep := range pkg.Imports() {
		addPackage(dst, dep)
	}
}
