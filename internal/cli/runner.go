package cli

import (
	"go.uber.org/zap"

	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/logging"
	"github.com/ioklo/Pretune/internal/pipeline"
)

// Version is the running version, set at build time with
// -ldflags "-X github.com/ioklo/Pretune/internal/cli.Version=v1.2.3".
var Version = "dev"

// Runner executes one generation run for a configuration.
type Runner interface {
	Run(cfg *Config) (*pipeline.Report, error)
}

type runnerImpl struct {
	processor pipeline.Processor
	logger    *zap.SugaredLogger
}

// NewRunner creates a runner over processor.
func NewRunner(processor pipeline.Processor, logger *zap.SugaredLogger) Runner {
	if logger == nil {
		logger = logging.Nop()
	}
	return &runnerImpl{processor: processor, logger: logger}
}

// Run executes a single generation cycle.
func (r *runnerImpl) Run(cfg *Config) (*pipeline.Report, error) {
	opts, err := r.options(cfg)
	if err != nil {
		return nil, err
	}
	r.logger.Debugw("run", "inputs", len(opts.Inputs), "generatedDir", opts.GeneratedDir, "module", opts.ModulePath)
	return r.processor.Process(opts)
}

func (r *runnerImpl) options(cfg *Config) (pipeline.Options, error) {
	modulePath := cfg.ModulePath
	if modulePath == "" {
		found, err := FindModulePath(cfg.Dir)
		if err != nil {
			return pipeline.Options{}, err
		}
		if found == "" {
			r.logger.Warnw("no go.mod found; using placeholder package paths", "dir", cfg.Dir)
		}
		modulePath = found
	}

	generatedDir := pipeline.CleanGeneratedDir(cfg.GeneratedDir)
	if generatedDir != "" {
		r.logger.Warnw("outputs outside the input directories are not part of the inputs' packages",
			"generatedDir", generatedDir)
	}

	if len(cfg.Inputs) == 0 {
		return pipeline.Options{}, errors.Usage("no input files")
	}
	return pipeline.Options{
		Inputs:       cfg.Inputs,
		GeneratedDir: generatedDir,
		OutputsFile:  cfg.OutputsFile,
		ModulePath:   modulePath,
		Dir:          cfg.Dir,
	}, nil
}
