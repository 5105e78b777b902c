// Package cli turns command lines, response files and pretune.toml into a
// run configuration and executes runs, once or on every change.
package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/pipeline"
)

// Usage is the one-line synopsis of the command.
const Usage = "pretune [flags] <generated-dir> <input.go>... | pretune @<response-file>"

// ParseArgs parses command line arguments into Config. Response files are
// expanded first so they may carry flags. Values missing from the command
// line come from the config file.
func ParseArgs(args []string) (*Config, error) {
	args, err := ExpandResponseFiles(args, nil)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	fs := pflag.NewFlagSet("pretune", pflag.ContinueOnError)
	fs.StringVarP(&cfg.OutputsFile, "outputs-file", "o", "", "file receiving the list of generated outputs")
	fs.StringVarP(&cfg.ConfigFile, "config", "c", DefaultConfigFile, "config file")
	fs.StringVarP(&cfg.Dir, "dir", "C", ".", "working directory inputs are relative to")
	fs.StringVar(&cfg.ModulePath, "module", "", "import path of the working directory (default: from go.mod)")
	fs.BoolVar(&cfg.JSONLog, "log-json", false, "log as JSON")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log debug output")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, errors.Mark(err, errors.ErrUsage)
	}
	if cfg.ShowVersion {
		return cfg, nil
	}

	if positional := fs.Args(); len(positional) > 0 {
		cfg.GeneratedDir = positional[0]
		cfg.Inputs = positional[1:]
	}

	if err := applyFileConfig(cfg, fs.Changed("config")); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.GeneratedDir) == "" {
		return nil, errors.WithHint(errors.Usage("generated directory is required"), "usage: "+Usage)
	}
	if len(cfg.Inputs) == 0 {
		return nil, errors.WithHint(errors.Usage("no input files"), "usage: "+Usage)
	}
	return cfg, nil
}

// applyFileConfig fills unset values from the config file. The default
// config file is optional; an explicitly named one must exist.
func applyFileConfig(cfg *Config, explicit bool) error {
	path := cfg.ConfigFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Dir, path)
	}

	fc, ok, err := LoadFileConfig(path)
	if err != nil {
		return err
	}
	if !ok {
		if explicit {
			return errors.Usage("config file %s not found", cfg.ConfigFile)
		}
		return nil
	}

	if err := CheckVersion(fc.RequiredVersion, Version); err != nil {
		return err
	}
	if cfg.GeneratedDir == "" {
		cfg.GeneratedDir = fc.GeneratedDir
	}
	if cfg.OutputsFile == "" {
		cfg.OutputsFile = fc.OutputsFile
	}
	if cfg.ModulePath == "" {
		cfg.ModulePath = fc.ModulePath
	}
	if len(cfg.Inputs) == 0 {
		inputs, err := expandPatterns(cfg.Dir, fc.Inputs)
		if err != nil {
			return err
		}
		cfg.Inputs = inputs
	}
	return nil
}

// expandPatterns resolves glob patterns of the config file against dir.
// Plain paths are kept even when the file does not exist yet, so the run
// reports them. Generated files never match a pattern.
func expandPatterns(dir string, patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[") {
			out = append(out, pattern)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(dir, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, errors.Usage("bad input pattern %q: %v", pattern, err)
		}
		for _, m := range matches {
			if pipeline.IsGenerated(m) {
				continue
			}
			rel, err := filepath.Rel(dir, m)
			if err != nil {
				return nil, errors.Wrap(err, "resolve input")
			}
			out = append(out, filepath.ToSlash(rel))
		}
	}
	return out, nil
}
