package rewriter

import "github.com/dave/jennifer/jen"

type frameKind int

const (
	frameFile frameKind = iota
	frameGroup
	frameType
)

// frame accumulates the declarations emitted inside one lexical scope.
type frame struct {
	kind  frameKind
	name  string
	bases []jen.Code
	decls []jen.Code
}

func (f *frame) empty() bool {
	return len(f.bases) == 0 && len(f.decls) == 0
}

// frameStack is the explicit scope stack of one rewrite. The file frame is
// at the bottom.
type frameStack struct {
	frames []*frame
}

func (s *frameStack) push(kind frameKind, name string) *frame {
	f := &frame{kind: kind, name: name}
	s.frames = append(s.frames, f)
	return f
}

func (s *frameStack) top() *frame {
	return s.frames[len(s.frames)-1]
}

func (s *frameStack) depth() int { return len(s.frames) }

// pop removes the top frame and folds its declarations into the new top.
// Empty frames are discarded. The popped frame is returned.
func (s *frameStack) pop() *frame {
	f := s.top()
	s.frames = s.frames[:len(s.frames)-1]
	if f.empty() || len(s.frames) == 0 {
		return f
	}
	parent := s.top()
	parent.decls = append(parent.decls, f.decls...)
	return f
}
