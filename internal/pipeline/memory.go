package pipeline

import (
	"bytes"
	"io/fs"
	"slices"
	"strings"

	"github.com/ioklo/Pretune/internal/errors"
)

// MemoryProvider keeps files in memory. It counts writes so tests can check
// that an unchanged run touches nothing.
type MemoryProvider struct {
	files  map[string][]byte
	writes int
}

// NewMemoryProvider creates a provider holding files.
func NewMemoryProvider(files map[string]string) *MemoryProvider {
	m := &MemoryProvider{files: map[string][]byte{}}
	for p, text := range files {
		m.files[p] = []byte(text)
	}
	return m
}

// Writes returns how many writes happened.
func (m *MemoryProvider) Writes() int { return m.writes }

// File returns the content of p.
func (m *MemoryProvider) File(p string) (string, bool) {
	data, ok := m.files[p]
	return string(data), ok
}

// Set stores text at p without counting a write.
func (m *MemoryProvider) Set(p, text string) {
	m.files[p] = []byte(text)
}

// Paths returns every stored path in lexical order.
func (m *MemoryProvider) Paths() []string {
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (m *MemoryProvider) Read(p string) ([]byte, error) {
	data, ok := m.files[p]
	if !ok {
		return nil, errors.Wrapf(fs.ErrNotExist, "read %s", p)
	}
	return bytes.Clone(data), nil
}

func (m *MemoryProvider) WriteIfChanged(p string, data []byte) (bool, error) {
	if existing, ok := m.files[p]; ok && bytes.Equal(existing, data) {
		return false, nil
	}
	m.files[p] = bytes.Clone(data)
	m.writes++
	return true, nil
}

func (m *MemoryProvider) Exists(p string) bool {
	_, ok := m.files[p]
	return ok
}

func (m *MemoryProvider) Enumerate(dir, suffix string) ([]string, error) {
	var out []string
	for _, p := range m.Paths() {
		if strings.HasSuffix(p, suffix) && underDir(p, dir) && visible(p, dir) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryProvider) Remove(p string) error {
	if _, ok := m.files[p]; !ok {
		return errors.Wrapf(fs.ErrNotExist, "remove %s", p)
	}
	delete(m.files, p)
	return nil
}
