package cli

import (
	"os"
	"strings"

	"github.com/ioklo/Pretune/internal/errors"
)

// ExpandResponseFiles replaces every @file argument with the lines of file.
// Empty lines are dropped; each remaining line is one argument, spaces
// included. Response files do not nest.
func ExpandResponseFiles(args []string, readFile func(string) ([]byte, error)) ([]string, error) {
	if readFile == nil {
		readFile = os.ReadFile
	}

	out := make([]string, 0, len(args))
	for _, arg := range args {
		name, ok := strings.CutPrefix(arg, "@")
		if !ok {
			out = append(out, arg)
			continue
		}
		if name == "" {
			return nil, errors.Usage("empty response file name")
		}
		data, err := readFile(name)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "read response file %s", name), errors.ErrUsage)
		}
		for _, line := range strings.FieldsFunc(string(data), func(r rune) bool { return r == '\r' || r == '\n' }) {
			out = append(out, line)
		}
	}
	return out, nil
}
