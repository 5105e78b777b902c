package rewriter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/generator"
	"github.com/ioklo/Pretune/internal/parser"
	"github.com/ioklo/Pretune/internal/resolver"
	"github.com/ioklo/Pretune/internal/stub"
	"github.com/ioklo/Pretune/pretune"
)

const modelSrc = `//go:build linux

package model

import (
	"fmt"

	rt "github.com/ioklo/Pretune/pretune"
)

type (
	Person struct {
		rt.ImplementNotifyPropertyChanged
		_ rt.ImplementEquatable

		name string
	}

	plain struct{ x int }
)

type Pair[K comparable, V any] struct {
	_ rt.ImplementEquatable

	key   K
	value V
}

func describe() string {
	type local struct {
		_ rt.AutoConstructor
		y int
	}
	return fmt.Sprint(local{})
}
`

func run(t *testing.T, sources ...parser.Source) (*parser.Program, Rewriter, *Plan) {
	t.Helper()
	prog, err := parser.New(pretune.ImportPath).Load(stub.Source(), sources)
	require.NoError(t, err)

	rw := New(generator.Default(pretune.ImportPath, resolver.NewRegistry()))
	plan := NewPlan()
	for _, u := range prog.Units {
		require.NoError(t, rw.Collect(u, prog, plan))
	}
	return prog, rw, plan
}

func render(t *testing.T, rw Rewriter, u *parser.Unit, prog *parser.Program, plan *Plan) string {
	t.Helper()
	f, err := rw.Rewrite(u, prog, plan)
	require.NoError(t, err)
	require.NotNil(t, f)

	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	return buf.String()
}

func TestRewrite_File(t *testing.T) {
	prog, rw, plan := run(t, parser.Source{Path: "model/model.go", Text: modelSrc})
	out := render(t, rw, prog.Units[1], prog, plan)

	assert.True(t, strings.HasPrefix(out, Header+"\n"), out)
	assert.Contains(t, out, "//go:build linux\n")
	assert.Contains(t, out, "\npackage model\n")
	assert.Contains(t, out, `rt "github.com/ioklo/Pretune/pretune"`)
	assert.NotContains(t, out, `"fmt"`)

	assert.Contains(t, out, "rt.NotifyPropertyChanged")
	assert.Contains(t, out, "rt.Equatable[*Person]")
	assert.Contains(t, out, "= (*Person)(nil)")
	assert.Contains(t, out, "func _[K comparable, V any]() {\n\tvar _ rt.Equatable[*Pair[K, V]] = (*Pair[K, V])(nil)\n}")
	assert.Contains(t, out, "func (p *Person) SetName(value string) {")

	// Declarations follow source order: Person, then Pair.
	assert.Less(t, strings.Index(out, "func (p *Person) Equal("), strings.Index(out, "func (p *Pair[K, V]) Equal("))
	// Local types inside function bodies are never visited.
	assert.NotContains(t, out, "newLocal")
	assert.NotContains(t, out, "plain")
}

func TestRewrite_ValueAssertion(t *testing.T) {
	prog, rw, plan := run(t, parser.Source{Path: "geo/geo.go", Text: `package geo

import "github.com/ioklo/Pretune/pretune"

type Point struct {
	_ pretune.ValueType
	_ pretune.ImplementEquatable

	x, y int
}
`})
	out := render(t, rw, prog.Units[1], prog, plan)
	assert.Contains(t, out, "var _ pretune.Equatable[Point] = Point{}")
	assert.Contains(t, out, "func (p Point) Equal(other Point) bool {")
}

func TestRewrite_NoContributions(t *testing.T) {
	prog, rw, plan := run(t, parser.Source{Path: "a/a.go", Text: "package a\n\ntype T struct{ x int }\n"})

	assert.Equal(t, 0, plan.Len())
	f, err := rw.Rewrite(prog.Units[1], prog, plan)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestCollect_StubRegistersRuntimeComparers(t *testing.T) {
	prog, rw, plan := run(t, parser.Source{Path: "a/a.go", Text: `package a

import "github.com/ioklo/Pretune/pretune"

type Bag struct {
	_ pretune.ImplementEquatable

	items []string
}
`})
	out := render(t, rw, prog.Units[1], prog, plan)
	assert.Contains(t, out, "(pretune.SliceComparer[string]{}).Equal(b.items, other.items)")
}

func TestRewrite_GenerationErrorAbortsUnit(t *testing.T) {
	prog, rw, plan := run(t, parser.Source{Path: "a/a.go", Text: `package a

import "github.com/ioklo/Pretune/pretune"

type T struct {
	_ pretune.ImplementNotifyPropertyChanged
	x int
}
`})
	f, err := rw.Rewrite(prog.Units[1], prog, plan)
	assert.Nil(t, f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
	assert.Contains(t, err.Error(), "notify")
}

func TestBuildConstraints(t *testing.T) {
	prog, _, _ := run(t,
		parser.Source{Path: "a/a.go", Text: "// Package a is documented.\n//go:build !windows\n\npackage a\n"},
		parser.Source{Path: "b/b.go", Text: "package b\n\n//go:build ignored\nvar x int\n"},
	)
	assert.Equal(t, []string{"//go:build !windows"}, buildConstraints(prog.Units[1].File))
	assert.Empty(t, buildConstraints(prog.Units[2].File))
}
