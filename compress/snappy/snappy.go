// Package snappy implements the SNAPPY codec.
package snappy

import (
	"github.com/klauspost/compress/snappy"
)

type Codec struct{}

func (c *Codec) String() string { return "SNAPPY" }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	// snappy.Encode only uses dst if it is large enough.
	return snappy.Encode(dst[:cap(dst)], src), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return snappy.Decode(dst[:cap(dst)], src)
}
