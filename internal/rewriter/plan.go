package rewriter

import (
	"go/ast"

	"github.com/ioklo/Pretune/internal/generator"
)

// Plan records, per type declaration, the generators that accepted it in
// phase one, in registration order. It is read-only during phase two.
type Plan struct {
	entries map[*ast.TypeSpec][]generator.Generator
}

// NewPlan creates an empty plan.
func NewPlan() *Plan {
	return &Plan{entries: map[*ast.TypeSpec][]generator.Generator{}}
}

// Generators returns the generators accepted for spec.
func (p *Plan) Generators(spec *ast.TypeSpec) []generator.Generator {
	return p.entries[spec]
}

// Len returns the number of declarations with at least one generator.
func (p *Plan) Len() int { return len(p.entries) }

func (p *Plan) add(spec *ast.TypeSpec, g generator.Generator) {
	p.entries[spec] = append(p.entries[spec], g)
}
