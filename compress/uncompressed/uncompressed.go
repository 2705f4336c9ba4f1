// Package uncompressed implements a codec which stores blocks as-is.
package uncompressed

type Codec struct{}

func (c *Codec) String() string { return "UNCOMPRESSED" }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}
