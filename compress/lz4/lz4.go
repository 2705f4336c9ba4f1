// Package lz4 implements the LZ4 frame codec.
package lz4

import (
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/segmentio/datatable-go/compress"
)

// Codec compresses each block as an LZ4 frame.
type Codec struct {
	// BlockChecksum enables the checksums of the LZ4 blocks of a frame.
	BlockChecksum bool

	streams compress.Streams
}

func (c *Codec) String() string { return "LZ4" }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) { return c.init().Encode(dst, src) }
func (c *Codec) Decode(dst, src []byte) ([]byte, error) { return c.init().Decode(dst, src) }

func (c *Codec) init() *compress.Streams {
	return c.streams.Init(
		func(r io.Reader) (compress.Reader, error) { return reader{lz4.NewReader(r)}, nil },
		func(w io.Writer) (compress.Writer, error) {
			z := lz4.NewWriter(w)
			if err := z.Apply(lz4.BlockChecksumOption(c.BlockChecksum)); err != nil {
				return nil, err
			}
			return writer{z}, nil
		},
	)
}

type reader struct{ *lz4.Reader }

func (r reader) Close() error             { return nil }
func (r reader) Reset(rr io.Reader) error { r.Reader.Reset(rr); return nil }

type writer struct{ *lz4.Writer }

func (w writer) Reset(ww io.Writer) { w.Writer.Reset(ww) }
