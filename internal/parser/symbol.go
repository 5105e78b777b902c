package parser

import (
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"github.com/ioklo/Pretune/internal/annotation"
)

// TagKey is the struct tag key holding member options.
const TagKey = "pretune"

// TypeSymbol is the resolved view of a type declaration.
type TypeSymbol struct {
	Decl        *TypeDecl
	Obj         *types.TypeName
	Named       *types.Named
	Kind        DeclKind
	Annotations annotation.Set

	// Members are the instance fields in declaration order, without blank
	// and marker fields.
	Members []*Member
	// Methods are the methods declared on T or *T, in source order.
	Methods []*Method
}

// Name is the declared type name.
func (s *TypeSymbol) Name() string { return s.Obj.Name() }

// Package is the package declaring the type.
func (s *TypeSymbol) Package() *types.Package { return s.Obj.Pkg() }

// TypeParams returns the declared type parameters; nil for non-generic types.
func (s *TypeSymbol) TypeParams() *types.TypeParamList { return s.Named.TypeParams() }

// DisplayName renders the self-referencing type, e.g. Pair[K, V].
func (s *TypeSymbol) DisplayName() string {
	tps := s.TypeParams()
	if tps == nil || tps.Len() == 0 {
		return s.Name()
	}
	names := make([]string, tps.Len())
	for i := range names {
		names[i] = tps.At(i).Obj().Name()
	}
	return s.Name() + "[" + strings.Join(names, ", ") + "]"
}

// Storage returns the unexported members.
func (s *TypeSymbol) Storage() []*Member {
	var out []*Member
	for _, m := range s.Members {
		if m.IsStorage() {
			out = append(out, m)
		}
	}
	return out
}

// Member looks a member up by name.
func (s *TypeSymbol) Member(name string) (*Member, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Declares reports whether the type itself declares a field or method named
// name. Promoted fields and methods do not count.
func (s *TypeSymbol) Declares(name string) bool {
	if st, ok := s.Named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			if st.Field(i).Name() == name {
				return true
			}
		}
	}
	for i := 0; i < s.Named.NumMethods(); i++ {
		if s.Named.Method(i).Name() == name {
			return true
		}
	}
	return false
}

// Marker returns the marker annotation of kind k.
func (s *TypeSymbol) Marker(k annotation.Kind) (annotation.Annotation, bool) {
	return s.Annotations.Get(k)
}

// Member is one instance field of a type. Unexported fields are storage
// members; exported fields are bodiless computed members.
type Member struct {
	Name     string
	Type     types.Type
	Var      *types.Var
	Tag      reflect.StructTag
	Embedded bool
	Owner    *TypeSymbol

	shape  Shape
	shaped bool
}

// DisplayName is the member name.
func (m *Member) DisplayName() string { return m.Name }

// IsStorage reports whether the member is a backing field.
func (m *Member) IsStorage() bool { return !token.IsExported(m.Name) }

// IsComputed reports whether the member is an exported, bodiless accessor.
func (m *Member) IsComputed() bool { return token.IsExported(m.Name) }

// Pos is the position of the member's declaration.
func (m *Member) Pos() token.Pos { return m.Var.Pos() }

// HasOption reports whether the member's pretune tag lists opt.
func (m *Member) HasOption(opt string) bool {
	raw, ok := m.Tag.Lookup(TagKey)
	if !ok {
		return false
	}
	return slices.Contains(strings.Split(raw, ","), opt)
}

// Shape returns the cached classification of the member.
func (m *Member) Shape() Shape {
	if !m.shaped {
		m.shape = ShapeOf(m.Type, m.HasOption("nonnil"))
		m.shaped = true
	}
	return m.shape
}

// Method is a method declared on T or *T: a computed member with a body.
type Method struct {
	Name            string
	Func            *types.Func
	Decl            *ast.FuncDecl
	PointerReceiver bool
	Annotations     annotation.Set
}

// Pos is the position of the method's name.
func (m *Method) Pos() token.Pos { return m.Func.Pos() }

// IsGetter reports whether the method is an exported accessor: no parameters
// and exactly one result.
func (m *Method) IsGetter() bool {
	if !m.Func.Exported() {
		return false
	}
	sig, ok := m.Func.Type().(*types.Signature)
	return ok && sig.Params().Len() == 0 && sig.Results().Len() == 1
}

// DependsOn returns the member names listed by the method's dependsOn
// directives, in order, without duplicates.
func (m *Method) DependsOn() []string {
	var out []string
	for _, a := range m.Annotations.All(annotation.KindDependsOn) {
		for _, name := range a.Args {
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}

func (p *Program) members(sym *TypeSymbol) []*Member {
	st, ok := sym.Named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	var astFields []*ast.Field
	if s, ok := sym.Decl.Spec.Type.(*ast.StructType); ok && s.Fields != nil {
		astFields = s.Fields.List
	}

	markers := map[int]bool{}
	index := 0
	for _, field := range astFields {
		n := max(1, len(field.Names))
		if _, ok := p.matcher.FieldAnnotation(field, sym.Decl.Unit.Info); ok {
			for i := index; i < index+n; i++ {
				markers[i] = true
			}
		}
		index += n
	}

	var out []*Member
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Name() == "_" || markers[i] {
			continue
		}
		out = append(out, &Member{
			Name:     f.Name(),
			Type:     f.Type(),
			Var:      f,
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: f.Embedded(),
			Owner:    sym,
		})
	}
	return out
}

func (p *Program) methods(sym *TypeSymbol) []*Method {
	var out []*Method
	for i := 0; i < sym.Named.NumMethods(); i++ {
		fn := sym.Named.Method(i)
		m := &Method{Name: fn.Name(), Func: fn}
		if sig, ok := fn.Type().(*types.Signature); ok && sig.Recv() != nil {
			_, m.PointerReceiver = types.Unalias(sig.Recv().Type()).(*types.Pointer)
		}
		if decl, ok := p.funcDecls[fn]; ok {
			m.Decl = decl
			m.Annotations = p.matcher.MethodAnnotations(decl)
		}
		out = append(out, m)
	}
	slices.SortStableFunc(out, func(a, b *Method) int {
		return int(a.Pos()) - int(b.Pos())
	})
	return out
}
