package pipeline

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ioklo/Pretune/internal/errors"
)

// FileProvider is the persistence boundary of a run. Paths are
// slash-separated and relative to the provider's root.
type FileProvider interface {
	Read(p string) ([]byte, error)
	// WriteIfChanged writes data unless p already holds exactly data. It
	// reports whether it wrote.
	WriteIfChanged(p string, data []byte) (bool, error)
	Exists(p string) bool
	// Enumerate lists files under dir whose names end with suffix, in
	// lexical order.
	Enumerate(dir, suffix string) ([]string, error)
	Remove(p string) error
}

type osProvider struct {
	root string
}

// NewOSProvider creates a provider over the file system rooted at root.
func NewOSProvider(root string) FileProvider {
	return &osProvider{root: root}
}

func (o *osProvider) abs(p string) string {
	return filepath.Join(o.root, filepath.FromSlash(p))
}

func (o *osProvider) Read(p string) ([]byte, error) {
	return os.ReadFile(o.abs(p))
}

func (o *osProvider) WriteIfChanged(p string, data []byte) (bool, error) {
	target := o.abs(p)
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, err
	}

	// Write next to the target and rename, so readers never see a partial
	// file.
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return false, err
	}
	return true, nil
}

func (o *osProvider) Exists(p string) bool {
	info, err := os.Stat(o.abs(p))
	return err == nil && !info.IsDir()
}

// Enumerate skips directories the go tool ignores: names starting with "."
// or "_", and testdata.
func (o *osProvider) Enumerate(dir, suffix string) ([]string, error) {
	root := o.abs(dir)
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if p != root && ignoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		rel, err := filepath.Rel(o.root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (o *osProvider) Remove(p string) error {
	return os.Remove(o.abs(p))
}

func ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata"
}

// underDir reports whether p lies in dir or below it. The empty dir and "."
// contain everything.
func underDir(p, dir string) bool {
	if dir == "" || dir == "." {
		return true
	}
	return p == dir || strings.HasPrefix(p, strings.TrimSuffix(dir, "/")+"/")
}

// visible reports whether p, relative to dir, crosses no ignored directory.
func visible(p, dir string) bool {
	rel := p
	if dir != "" && dir != "." {
		rel = strings.TrimPrefix(p, strings.TrimSuffix(dir, "/")+"/")
	}
	for _, part := range strings.Split(path.Dir(rel), "/") {
		if part != "." && ignoredDir(part) {
			return false
		}
	}
	return true
}
