// Package pretune is the runtime half of the pretune code generator.
//
// User code opts a struct into generation by declaring one of the marker
// types of this package as a field:
//
//	type Person struct {
//		_ pretune.AutoConstructor
//		_ pretune.ImplementEquatable
//
//		name string
//		age  int
//	}
//
// Running pretune over the file then produces a companion name.g.go file with
// NewPerson, Equal, EqualAny and Hash. Generated code calls back into the
// helpers declared here (HashCode, HashOf, DefaultEqual, DefaultHash and the
// change notification plumbing).
package pretune

// ImportPath is the import path of this package as seen by generated code.
const ImportPath = "github.com/ioklo/Pretune/pretune"
