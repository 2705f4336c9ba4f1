// Package bits contains the low level kernels used to compute column
// statistics and to build row indexes from masks.
package bits

import "math"

// Integer is the set of fixed-width integer element types stored in columns.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Float is the set of floating point element types stored in columns.
type Float interface {
	~float32 | ~float64
}

func isNaN[T Float](v T) bool { return math.IsNaN(float64(v)) }
