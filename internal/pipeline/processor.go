// Package pipeline runs one generation pass: it reads the inputs, loads them
// with the stub unit, drives both rewriter phases, formats and persists the
// changed outputs and cleans up outputs that no longer have a source.
package pipeline

import (
	"bytes"
	"path"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/generator"
	"github.com/ioklo/Pretune/internal/logging"
	"github.com/ioklo/Pretune/internal/parser"
	"github.com/ioklo/Pretune/internal/resolver"
	"github.com/ioklo/Pretune/internal/rewriter"
	"github.com/ioklo/Pretune/internal/stub"
	"github.com/ioklo/Pretune/pretune"
)

// Options describe one run.
type Options struct {
	// Inputs are slash-separated paths relative to the provider root.
	Inputs []string
	// GeneratedDir is the output root; empty writes outputs beside inputs.
	GeneratedDir string
	// OutputsFile, when set, receives the list of outputs of the run.
	OutputsFile string
	// ModulePath is the module the inputs belong to. Empty uses a local
	// placeholder path.
	ModulePath string
	// Dir is the directory imports of the inputs are resolved from.
	Dir string
}

// Report lists what a run did with each path.
type Report struct {
	Written   []string
	Unchanged []string
	Removed   []string
	Skipped   []string
}

// Outputs returns every output the run produced, written or not.
func (r *Report) Outputs() []string {
	out := slices.Concat(r.Written, r.Unchanged)
	slices.Sort(out)
	return out
}

// Processor runs generation passes.
type Processor interface {
	Process(opts Options) (*Report, error)
}

// Option configures a Processor.
type Option func(*processorImpl)

// WithLogger sets the logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(p *processorImpl) { p.logger = logger }
}

// WithFormatter replaces the goimports formatter.
func WithFormatter(f generator.Formatter) Option {
	return func(p *processorImpl) { p.formatter = f }
}

// WithGenerators replaces the default generators.
func WithGenerators(gens ...generator.Generator) Option {
	return func(p *processorImpl) { p.generators = gens }
}

type processorImpl struct {
	files       FileProvider
	runtimePath string
	generators  []generator.Generator
	formatter   generator.Formatter
	logger      *zap.SugaredLogger
}

// New creates a processor persisting through files.
func New(files FileProvider, opts ...Option) Processor {
	p := &processorImpl{
		files:       files,
		runtimePath: pretune.ImportPath,
		formatter:   generator.NewGoimportsFormatter(),
		logger:      logging.Nop(),
	}
	p.generators = generator.Default(p.runtimePath, resolver.NewRegistry())
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs one pass. Generation errors abort only the unit they occur
// in; the pass continues and returns them joined. A failure to read an input
// aborts the pass before anything is written.
func (p *processorImpl) Process(opts Options) (*Report, error) {
	for _, g := range p.generators {
		if r, ok := g.(generator.Resetter); ok {
			r.Reset()
		}
	}

	opts.GeneratedDir = CleanGeneratedDir(opts.GeneratedDir)
	report := &Report{}
	inputs := p.acceptInputs(opts, report)

	sources := make([]parser.Source, 0, len(inputs))
	for _, in := range inputs {
		data, err := p.files.Read(in)
		if err != nil {
			return report, errors.Pipeline(err, "read %s", in)
		}
		sources = append(sources, parser.Source{Path: in, Text: string(data)})
	}

	front := parser.New(p.runtimePath,
		parser.WithDir(opts.Dir),
		parser.WithModulePath(opts.ModulePath),
		parser.WithLogger(p.logger),
	)
	prog, err := front.Load(stub.Source(), sources)
	if err != nil {
		return report, err
	}

	rw := rewriter.New(p.generators, rewriter.WithLogger(p.logger))
	plan := rewriter.NewPlan()
	failed := map[*parser.Unit]bool{}
	var errs []error

	for _, u := range prog.Units {
		if err := rw.Collect(u, prog, plan); err != nil {
			failed[u] = true
			errs = append(errs, errors.Wrapf(err, "%s", u.Path))
		}
	}

	for _, u := range prog.Units {
		if u.Synthetic || failed[u] {
			continue
		}
		if err := p.emit(rw, u, prog, plan, opts.GeneratedDir, report); err != nil {
			errs = append(errs, errors.Wrapf(err, "%s", u.Path))
		}
	}

	if err := p.removeOrphans(opts.GeneratedDir, inputs, report); err != nil {
		errs = append(errs, err)
	}

	if opts.OutputsFile != "" {
		list := strings.Join(report.Outputs(), "\n")
		if list != "" {
			list += "\n"
		}
		if _, err := p.files.WriteIfChanged(opts.OutputsFile, []byte(list)); err != nil {
			errs = append(errs, errors.Pipeline(err, "write outputs file %s", opts.OutputsFile))
		}
	}

	p.logger.Infow("generation finished",
		"written", len(report.Written),
		"unchanged", len(report.Unchanged),
		"removed", len(report.Removed),
		"skipped", len(report.Skipped),
	)
	return report, errors.Join(errs...)
}

// acceptInputs applies the path policy. Violations are warnings; the input
// is skipped.
func (p *processorImpl) acceptInputs(opts Options, report *Report) []string {
	var out []string
	for _, in := range opts.Inputs {
		clean, err := NormalizeInput(in, opts.GeneratedDir)
		if err != nil {
			p.logger.Warnw("input skipped", "path", in, "reason", err)
			report.Skipped = append(report.Skipped, in)
			continue
		}
		if !slices.Contains(out, clean) {
			out = append(out, clean)
		}
	}
	return out
}

// emit runs phase two for u and persists the result. A unit that produces
// nothing loses the output of an earlier run.
func (p *processorImpl) emit(rw rewriter.Rewriter, u *parser.Unit, prog *parser.Program, plan *rewriter.Plan, generatedDir string, report *Report) error {
	out := OutputPath(u.Path, generatedDir)

	file, err := rw.Rewrite(u, prog, plan)
	if err != nil {
		return err
	}
	if file == nil {
		return p.removeGenerated(out, report)
	}

	var buf bytes.Buffer
	if err := file.Render(&buf); err != nil {
		return errors.Wrap(err, "render")
	}
	formatted, err := p.formatter.Format(path.Base(out), buf.Bytes())
	if err != nil {
		return errors.Wrap(err, "format")
	}

	if p.files.Exists(out) && !p.generatedBy(out) {
		return errors.PathPolicy("%s exists and was not generated by pretune", out)
	}
	written, err := p.files.WriteIfChanged(out, formatted)
	if err != nil {
		return errors.Pipeline(err, "write %s", out)
	}
	if written {
		p.logger.Infow("wrote", "path", out)
		report.Written = append(report.Written, out)
	} else {
		p.logger.Debugw("unchanged", "path", out)
		report.Unchanged = append(report.Unchanged, out)
	}
	return nil
}

// removeOrphans deletes generated files whose input no longer exists.
func (p *processorImpl) removeOrphans(generatedDir string, inputs []string, report *Report) error {
	root := generatedDir
	if root == "" {
		root = "."
	}
	var candidates []string
	for _, suffix := range []string{GeneratedSuffix, generatedTestSuffix} {
		found, err := p.files.Enumerate(root, suffix)
		if err != nil {
			return errors.Pipeline(err, "enumerate %s", root)
		}
		candidates = append(candidates, found...)
	}

	for _, out := range candidates {
		in, ok := InputPath(out, generatedDir)
		if !ok || slices.Contains(inputs, in) || p.files.Exists(in) {
			continue
		}
		if err := p.removeGenerated(out, report); err != nil {
			return err
		}
	}
	return nil
}

// removeGenerated removes out if it exists and carries the generated header.
func (p *processorImpl) removeGenerated(out string, report *Report) error {
	if !p.files.Exists(out) {
		return nil
	}
	if !p.generatedBy(out) {
		p.logger.Warnw("kept file without generated header", "path", out)
		return nil
	}
	if err := p.files.Remove(out); err != nil {
		return errors.Pipeline(err, "remove %s", out)
	}
	p.logger.Infow("removed", "path", out)
	report.Removed = append(report.Removed, out)
	return nil
}

func (p *processorImpl) generatedBy(out string) bool {
	data, err := p.files.Read(out)
	return err == nil && bytes.HasPrefix(data, []byte(rewriter.Header))
}
