package cli

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/pipeline"
)

type recordingProcessor struct {
	calls  []pipeline.Options
	report *pipeline.Report
	err    error
}

func (p *recordingProcessor) Process(opts pipeline.Options) (*pipeline.Report, error) {
	p.calls = append(p.calls, opts)
	if p.report == nil {
		return &pipeline.Report{}, p.err
	}
	return p.report, p.err
}

func TestRunner_Options(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n")
	dir := filepath.Join(root, "model")
	writeFile(t, filepath.Join(dir, "a.go"), "package model\n")

	tests := []struct {
		name string
		cfg  Config
		want pipeline.Options
	}{
		{
			name: "beside inputs with module from go.mod",
			cfg:  Config{GeneratedDir: ".", Inputs: []string{"a.go"}, Dir: dir},
			want: pipeline.Options{Inputs: []string{"a.go"}, ModulePath: "example.com/app/model", Dir: dir},
		},
		{
			name: "unclean generated dir",
			cfg:  Config{GeneratedDir: "./gen/", Inputs: []string{"a.go"}, Dir: dir, ModulePath: "example.com/app"},
			want: pipeline.Options{Inputs: []string{"a.go"}, GeneratedDir: "gen", ModulePath: "example.com/app", Dir: dir},
		},
		{
			name: "explicit module and generated dir",
			cfg: Config{
				GeneratedDir: "gen",
				OutputsFile:  "outputs.txt",
				Inputs:       []string{"a.go"},
				Dir:          dir,
				ModulePath:   "example.com/other",
			},
			want: pipeline.Options{
				Inputs:       []string{"a.go"},
				GeneratedDir: "gen",
				OutputsFile:  "outputs.txt",
				ModulePath:   "example.com/other",
				Dir:          dir,
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			proc := &recordingProcessor{}
			if _, err := NewRunner(proc, nil).Run(&tc.cfg); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(proc.calls) != 1 {
				t.Fatalf("Process called %d times, want 1", len(proc.calls))
			}
			if diff := cmp.Diff(tc.want, proc.calls[0]); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunner_PropagatesErrors(t *testing.T) {
	proc := &recordingProcessor{err: errors.Configuration("boom")}
	_, err := NewRunner(proc, nil).Run(&Config{
		GeneratedDir: ".",
		Inputs:       []string{"a.go"},
		Dir:          t.TempDir(),
		ModulePath:   "example.com/app",
	})
	if !errors.Is(err, errors.ErrConfiguration) {
		t.Fatalf("Run() error = %v, want configuration error", err)
	}
}

func TestRunner_NoInputs(t *testing.T) {
	proc := &recordingProcessor{}
	_, err := NewRunner(proc, nil).Run(&Config{GeneratedDir: ".", Dir: t.TempDir(), ModulePath: "example.com/app"})
	if !errors.Is(err, errors.ErrUsage) {
		t.Fatalf("Run() error = %v, want usage error", err)
	}
	if len(proc.calls) != 0 {
		t.Fatal("Process must not run without inputs")
	}
}
