// Package quick runs property checks over randomly generated column data.
//
// Unlike testing/quick, inputs cover the sizes where the bit-packed and
// word-at-a-time code paths of the module change behavior (multiples of 8
// and 64, and the blocks of compressed columns), and generators include the
// NA sentinel of each type.
package quick

import (
	"fmt"
	"math"
	"math/rand"
)

// Value is the set of element types Check can generate.
type Value interface {
	bool | int8 | int16 | int32 | int64 | float32 | float64
}

// Sizes are the input lengths tested by Check; each is tested Repeat times.
var Sizes = [...]int{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9,
	15, 16, 17, 31, 32, 33,
	63, 64, 65, 100,
	127, 128, 129,
	255, 256, 257,
	1023, 1024, 1025,
	4095, 4096, 4097,
}

const Repeat = 3

// The probability that a generated integer or float is the NA sentinel.
const naRate = 16

// Check calls f with random slices of each size in Sizes and returns an
// error describing the first input for which f returned false. The random
// source is seeded so failures are reproducible.
func Check[T Value](f func([]T) bool) error {
	r := rand.New(rand.NewSource(0))
	gen := generator[T](r)

	for _, n := range Sizes {
		for i := 0; i < Repeat; i++ {
			in := make([]T, n)
			for j := range in {
				in[j] = gen()
			}
			if !f(in) {
				return fmt.Errorf("test #%d: failed on input of size %d: %v", i+1, n, in)
			}
		}
	}
	return nil
}

func generator[T Value](r *rand.Rand) func() T {
	var g any
	switch any(*new(T)).(type) {
	case bool:
		g = func() bool { return r.Intn(2) != 0 }
	case int8:
		g = func() int8 { return int8(r.Intn(math.MaxUint8+1) + math.MinInt8) }
	case int16:
		g = func() int16 { return withNA(r, int16(math.MinInt16), int16(r.Intn(math.MaxUint16+1)+math.MinInt16)) }
	case int32:
		g = func() int32 { return withNA(r, int32(math.MinInt32), r.Int31()) }
	case int64:
		g = func() int64 { return withNA(r, int64(math.MinInt64), r.Int63()-r.Int63()) }
	case float32:
		g = func() float32 { return withNA(r, float32(math.NaN()), r.Float32()*2-1) }
	case float64:
		g = func() float64 { return withNA(r, math.NaN(), r.NormFloat64()) }
	}
	return g.(func() T)
}

func withNA[T Value](r *rand.Rand, na, v T) T {
	if r.Intn(naRate) == 0 {
		return na
	}
	return v
}
