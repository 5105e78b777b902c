package resolver

import "go/types"

// Targets are the types that gain generated Equal and Hash methods in the
// current run, mapped to whether they are value-like. Class-like targets get
// pointer receivers.
type Targets map[*types.TypeName]bool

// TargetsAware can consume the current run's equality targets.
type TargetsAware interface {
	SetTargets(Targets)
}
