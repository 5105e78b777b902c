// Package generator holds the synthesis units that add declarations to
// annotated types: constructors, change notification and structural
// equality.
//
// Every generator runs in two phases. ShouldApply is asked about every type
// declaration of every unit (the synthetic stub unit included) and may record
// cross-type metadata, such as custom comparer registrations, while deciding
// whether it applies. Generate runs only after all units finished phase one,
// once per declaration the generator accepted.
package generator

import (
	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/ioklo/Pretune/internal/parser"
	"github.com/ioklo/Pretune/internal/resolver"
)

// Result is what one generator contributes to one type: interfaces the type
// now implements and new top-level declarations.
type Result struct {
	BaseTypes []jen.Code
	Members   []jen.Code
}

// Empty reports whether the result contributes nothing.
func (r Result) Empty() bool {
	return len(r.BaseTypes) == 0 && len(r.Members) == 0
}

// Generator is one synthesis unit.
type Generator interface {
	Name() string
	ShouldApply(decl *parser.TypeDecl, prog *parser.Program) (bool, error)
	Generate(sym *parser.TypeSymbol) (Result, error)
}

// Resetter is implemented by generators that keep state across phases.
// Reset is called before each run.
type Resetter interface {
	Reset()
}

// Formatter formats generated Go code and organizes imports.
type Formatter interface {
	Format(filename string, src []byte) ([]byte, error)
}

type goimportsFormatter struct {
	options *imports.Options
}

// NewGoimportsFormatter creates a formatter backed by goimports. Generated
// code already names every import it uses, so imports are only sorted and
// grouped, never looked up; output depends on the input alone.
func NewGoimportsFormatter() Formatter {
	return &goimportsFormatter{
		options: &imports.Options{
			Comments:   true,
			TabIndent:  true,
			TabWidth:   8,
			FormatOnly: true,
		},
	}
}

func (f *goimportsFormatter) Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, f.options)
}

// Default returns the generators in registration order. registry receives
// the custom comparer registrations of the equality generator.
func Default(runtimePath string, registry *resolver.Registry) []Generator {
	return []Generator{
		NewConstructor(),
		NewNotify(runtimePath),
		NewEquatable(runtimePath, registry),
	}
}
