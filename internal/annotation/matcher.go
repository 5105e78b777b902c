package annotation

import (
	"go/ast"
	"go/types"
	"strings"
	"unicode"
)

// DirectivePrefix starts every doc comment directive.
const DirectivePrefix = "//pretune:"

// Matcher recognizes annotations on declarations of one type-checked file.
type Matcher interface {
	// TypeAnnotations returns the markers of a struct type declaration and the
	// directives of its doc comments.
	TypeAnnotations(spec *ast.TypeSpec, group *ast.GenDecl, info *types.Info) Set
	// FieldAnnotation reports whether field is a marker field.
	FieldAnnotation(field *ast.Field, info *types.Info) (Annotation, bool)
	// MethodAnnotations returns the directives of a method's doc comment.
	MethodAnnotations(decl *ast.FuncDecl) Set
}

type matcherImpl struct {
	runtimePath string
	runtimeName string
}

// NewMatcher returns a matcher for markers declared in the package at
// runtimePath.
func NewMatcher(runtimePath string) Matcher {
	name := runtimePath
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return &matcherImpl{runtimePath: runtimePath, runtimeName: name}
}

func (m *matcherImpl) TypeAnnotations(spec *ast.TypeSpec, group *ast.GenDecl, info *types.Info) Set {
	var set Set

	if st, ok := spec.Type.(*ast.StructType); ok && st.Fields != nil {
		for _, field := range st.Fields.List {
			if a, ok := m.FieldAnnotation(field, info); ok {
				set = append(set, a)
			}
		}
	}

	docs := []*ast.CommentGroup{spec.Doc}
	if group != nil && len(group.Specs) == 1 {
		docs = append(docs, group.Doc)
	}
	for _, doc := range docs {
		for _, a := range parseDirectives(doc) {
			if a.Kind == KindDependsOn || set.Has(a.Kind) {
				continue
			}
			set = append(set, a)
		}
	}
	return set
}

func (m *matcherImpl) FieldAnnotation(field *ast.Field, info *types.Info) (Annotation, bool) {
	name := fieldName(field)
	if name == "" {
		return Annotation{}, false
	}

	if info != nil {
		if t := info.TypeOf(field.Type); t != nil && t != types.Typ[types.Invalid] {
			return m.resolvedMarker(t, name, len(field.Names) == 0)
		}
	}
	return m.syntacticMarker(field.Type, name, len(field.Names) == 0)
}

func (m *matcherImpl) resolvedMarker(t types.Type, name string, embedded bool) (Annotation, bool) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return Annotation{}, false
	}
	obj := named.Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != m.runtimePath {
		return Annotation{}, false
	}
	kind, ok := markerKinds[obj.Name()]
	if !ok {
		return Annotation{}, false
	}

	a := Annotation{Kind: kind, Source: SourceMarker, FieldName: name, Embedded: embedded}
	if kind == KindCustomEqualityComparer {
		if args := named.TypeArgs(); args != nil && args.Len() == 1 {
			a.TypeArg = args.At(0)
		}
	}
	return a, true
}

// syntacticMarker matches pretune.Name, Name (dot import) and their
// instantiations by spelling alone.
func (m *matcherImpl) syntacticMarker(expr ast.Expr, name string, embedded bool) (Annotation, bool) {
	switch x := expr.(type) {
	case *ast.IndexExpr:
		expr = x.X
	case *ast.IndexListExpr:
		expr = x.X
	}

	var typeName string
	switch x := expr.(type) {
	case *ast.SelectorExpr:
		pkg, ok := x.X.(*ast.Ident)
		if !ok || pkg.Name != m.runtimeName {
			return Annotation{}, false
		}
		typeName = x.Sel.Name
	case *ast.Ident:
		typeName = x.Name
	default:
		return Annotation{}, false
	}

	kind, ok := markerKinds[typeName]
	if !ok {
		return Annotation{}, false
	}
	return Annotation{Kind: kind, Source: SourceSyntax, FieldName: name, Embedded: embedded}, true
}

func (m *matcherImpl) MethodAnnotations(decl *ast.FuncDecl) Set {
	var set Set
	for _, a := range parseDirectives(decl.Doc) {
		if a.Kind == KindDependsOn {
			set = append(set, a)
		}
	}
	return set
}

// fieldName returns the single name a marker field may have. Fields declaring
// several names at once are never markers.
func fieldName(field *ast.Field) string {
	switch len(field.Names) {
	case 0:
		return embeddedName(field.Type)
	case 1:
		return field.Names[0].Name
	default:
		return ""
	}
}

func embeddedName(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(x.X)
	case *ast.IndexExpr:
		return embeddedName(x.X)
	case *ast.IndexListExpr:
		return embeddedName(x.X)
	case *ast.SelectorExpr:
		return x.Sel.Name
	case *ast.Ident:
		return x.Name
	default:
		return ""
	}
}

func parseDirectives(doc *ast.CommentGroup) []Annotation {
	if doc == nil {
		return nil
	}

	var out []Annotation
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, DirectivePrefix)
		if !ok {
			continue
		}
		fields := strings.FieldsFunc(rest, func(r rune) bool {
			return unicode.IsSpace(r) || r == ','
		})
		if len(fields) == 0 {
			continue
		}
		kind, ok := directiveKind(fields[0])
		if !ok {
			continue
		}
		out = append(out, Annotation{Kind: kind, Source: SourceDirective, Args: fields[1:]})
	}
	return out
}
