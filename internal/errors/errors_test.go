package errors

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMarks(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{name: "configuration", err: Configuration("duplicate comparer for %s", "[]int"), sentinel: ErrConfiguration},
		{name: "input", err: Input("no symbol for %s", "T"), sentinel: ErrInput},
		{name: "path policy", err: PathPolicy("%s is absolute", "/a.go"), sentinel: ErrPathPolicy},
		{name: "usage", err: Usage("missing inputs"), sentinel: ErrUsage},
		{name: "pipeline", err: Pipeline(fs.ErrNotExist, "read %s", "a.go"), sentinel: ErrPipeline},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, Is(tc.err, tc.sentinel))
			assert.NotEqual(t, tc.sentinel.Error(), tc.err.Error())
		})
	}
}

func TestPipeline_KeepsCause(t *testing.T) {
	err := Pipeline(fs.ErrPermission, "write %s", "gen/a.g.go")
	assert.True(t, Is(err, fs.ErrPermission))
	assert.Contains(t, err.Error(), "write gen/a.g.go")
	assert.Nil(t, Pipeline(nil, "unused"))
}

func TestJoin_PreservesMarks(t *testing.T) {
	err := Join(Configuration("a"), Input("b"))
	assert.True(t, Is(err, ErrConfiguration))
	assert.True(t, Is(err, ErrInput))
	assert.False(t, Is(err, ErrPipeline))
}
