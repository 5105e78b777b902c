package stub

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportedNames(t *testing.T, files ...*ast.File) []string {
	t.Helper()
	var names []string
	for _, f := range files {
		for name, obj := range f.Scope.Objects {
			if ast.IsExported(name) && obj.Kind != ast.Bad {
				names = append(names, name)
			}
		}
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || !fd.Name.IsExported() {
				continue
			}
			names = append(names, receiverType(fd.Recv.List[0].Type)+"."+fd.Name.Name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func receiverType(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.StarExpr:
		return receiverType(x.X)
	case *ast.IndexExpr:
		return receiverType(x.X)
	case *ast.IndexListExpr:
		return receiverType(x.X)
	case *ast.Ident:
		return x.Name
	default:
		return "?"
	}
}

func TestStub_MatchesRuntimeSurface(t *testing.T) {
	fset := token.NewFileSet()

	stubFile, err := parser.ParseFile(fset, Path, text, 0)
	require.NoError(t, err)

	dir := filepath.Join("..", "..", "pretune")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var runtime []*ast.File
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".go") || strings.HasSuffix(e.Name(), "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, e.Name()), nil, 0)
		require.NoError(t, err)
		runtime = append(runtime, f)
	}

	assert.Equal(t, exportedNames(t, runtime...), exportedNames(t, stubFile))
}

func TestSource(t *testing.T) {
	src := Source()
	assert.Equal(t, Path, src.Path)
	assert.True(t, strings.HasPrefix(src.Text, "package pretune"))
}
