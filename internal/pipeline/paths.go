package pipeline

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ioklo/Pretune/internal/errors"
)

const (
	sourceSuffix     = ".go"
	testSourceSuffix = "_test.go"

	// GeneratedSuffix ends every generated file name.
	GeneratedSuffix     = ".g.go"
	generatedTestSuffix = ".g_test.go"
)

// OutputPath maps input path/name.go to generatedDir/path/name.g.go. Test
// files keep their _test suffix last so the go tool still treats the output
// as a test file: name_test.go becomes name.g_test.go.
func OutputPath(input, generatedDir string) string {
	dir, base := path.Split(input)
	if stem, ok := strings.CutSuffix(base, testSourceSuffix); ok {
		base = stem + generatedTestSuffix
	} else {
		base = strings.TrimSuffix(base, sourceSuffix) + GeneratedSuffix
	}
	return path.Join(generatedDir, dir, base)
}

// InputPath reverses OutputPath. It reports false for paths that are not
// outputs under generatedDir.
func InputPath(output, generatedDir string) (string, bool) {
	rel := output
	if generatedDir != "" && generatedDir != "." {
		prefix := strings.TrimSuffix(generatedDir, "/") + "/"
		var ok bool
		if rel, ok = strings.CutPrefix(output, prefix); !ok {
			return "", false
		}
	}
	if stem, ok := strings.CutSuffix(rel, generatedTestSuffix); ok {
		return stem + testSourceSuffix, true
	}
	if stem, ok := strings.CutSuffix(rel, GeneratedSuffix); ok {
		return stem + sourceSuffix, true
	}
	return "", false
}

// CleanGeneratedDir returns generatedDir in the slash-separated, cleaned
// form enumerated paths use. Outputs beside their inputs are "".
func CleanGeneratedDir(generatedDir string) string {
	if strings.TrimSpace(generatedDir) == "" {
		return ""
	}
	clean := path.Clean(filepath.ToSlash(generatedDir))
	if clean == "." {
		return ""
	}
	return clean
}

// IsGenerated reports whether name is a generated file name.
func IsGenerated(name string) bool {
	return strings.HasSuffix(name, GeneratedSuffix) || strings.HasSuffix(name, generatedTestSuffix)
}

// NormalizeInput returns the slash-separated, cleaned form of input, or a
// path policy error: inputs must be relative Go source files that do not
// climb out of the working directory, do not live under generatedDir and,
// when outputs live beside inputs, are not generated files themselves.
func NormalizeInput(input, generatedDir string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", errors.PathPolicy("empty input path")
	}
	slashed := filepath.ToSlash(input)
	if filepath.IsAbs(input) || path.IsAbs(slashed) || filepath.VolumeName(input) != "" {
		return "", errors.PathPolicy("%s: input paths must be relative", input)
	}
	if slices.Contains(strings.Split(slashed, "/"), "..") {
		return "", errors.PathPolicy("%s: input paths must not contain ..", input)
	}

	clean := path.Clean(slashed)
	if !strings.HasSuffix(clean, sourceSuffix) {
		return "", errors.PathPolicy("%s: not a Go source file", input)
	}

	outside := generatedDir == "" || path.Clean(filepath.ToSlash(generatedDir)) == "."
	if !outside && underDir(clean, path.Clean(filepath.ToSlash(generatedDir))) {
		return "", errors.PathPolicy("%s: input lies under the generated directory %s", input, generatedDir)
	}
	if outside && IsGenerated(clean) {
		return "", errors.PathPolicy("%s: generated files are not inputs", input)
	}
	return clean, nil
}
