package people

import "github.com/ioklo/Pretune/pretune"

// Point is a value-like pair of coordinates.
type Point struct {
	_ pretune.ValueType
	_ pretune.AutoConstructor
	_ pretune.ImplementEquatable

	x, y int
}
