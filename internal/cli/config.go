package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"golang.org/x/mod/modfile"

	"github.com/ioklo/Pretune/internal/errors"
)

// DefaultConfigFile is read from the working directory when present.
const DefaultConfigFile = "pretune.toml"

// Config stores the options of a generation run.
type Config struct {
	// GeneratedDir is the output root; "." writes outputs beside inputs.
	GeneratedDir string
	OutputsFile  string
	Inputs       []string

	// Dir is the working directory inputs are relative to.
	Dir        string
	ModulePath string
	ConfigFile string

	JSONLog     bool
	Verbose     bool
	ShowVersion bool
}

// FileConfig is the content of pretune.toml. Command line values win over
// file values.
type FileConfig struct {
	// RequiredVersion is a semver constraint the running binary must meet,
	// e.g. ">= 1.2, < 2".
	RequiredVersion string   `toml:"required_version"`
	GeneratedDir    string   `toml:"generated_dir"`
	OutputsFile     string   `toml:"outputs_file"`
	ModulePath      string   `toml:"module_path"`
	Inputs          []string `toml:"inputs"`
}

// LoadFileConfig decodes the config file at path. A missing file is
// reported with ok == false and no error.
func LoadFileConfig(path string) (fc *FileConfig, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read config %s", path)
	}

	fc = &FileConfig{}
	meta, err := toml.Decode(string(data), fc)
	if err != nil {
		return nil, false, errors.Mark(errors.Wrapf(err, "parse config %s", path), errors.ErrUsage)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, false, errors.Usage("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return fc, true, nil
}

// CheckVersion verifies that version satisfies the constraint. Development
// builds that are not semantic versions pass every constraint.
func CheckVersion(constraint, version string) error {
	if strings.TrimSpace(constraint) == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Usage("invalid required_version %q: %v", constraint, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil
	}
	if !c.Check(v) {
		return errors.WithHintf(
			errors.Usage("pretune %s does not satisfy required_version %q", version, constraint),
			"install a pretune version matching %s", constraint)
	}
	return nil
}

// FindModulePath returns the import path of dir from the nearest go.mod at
// or above it. It returns "" when there is none.
func FindModulePath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "resolve working directory")
	}

	for current := abs; ; {
		data, err := os.ReadFile(filepath.Join(current, "go.mod"))
		if err == nil {
			modulePath := modfile.ModulePath(data)
			if modulePath == "" {
				return "", errors.Usage("%s: go.mod has no module directive", current)
			}
			rel, err := filepath.Rel(current, abs)
			if err != nil {
				return "", errors.Wrap(err, "resolve module directory")
			}
			if rel == "." {
				return modulePath, nil
			}
			return modulePath + "/" + filepath.ToSlash(rel), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", errors.Wrap(err, "read go.mod")
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", nil
		}
		current = parent
	}
}
