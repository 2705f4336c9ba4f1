// Package gzip implements the GZIP codec.
package gzip

import (
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/segmentio/datatable-go/compress"
)

const (
	NoCompression      = gzip.NoCompression
	BestSpeed          = gzip.BestSpeed
	BestCompression    = gzip.BestCompression
	DefaultCompression = gzip.DefaultCompression
	HuffmanOnly        = gzip.HuffmanOnly
)

// Codec compresses each block as a gzip stream.
type Codec struct {
	Level int

	streams compress.Streams
}

func (c *Codec) String() string { return "GZIP" }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) { return c.init().Encode(dst, src) }
func (c *Codec) Decode(dst, src []byte) ([]byte, error) { return c.init().Decode(dst, src) }

func (c *Codec) init() *compress.Streams {
	return c.streams.Init(
		func(r io.Reader) (compress.Reader, error) {
			z, err := gzip.NewReader(r)
			if err != nil {
				return nil, err
			}
			return reader{z}, nil
		},
		func(w io.Writer) (compress.Writer, error) {
			z, err := gzip.NewWriterLevel(w, c.level())
			if err != nil {
				return nil, err
			}
			return writer{z}, nil
		},
	)
}

func (c *Codec) level() int {
	if c.Level != 0 {
		return c.Level
	}
	return DefaultCompression
}

type reader struct{ *gzip.Reader }

func (r reader) Reset(rr io.Reader) error {
	if rr == nil {
		rr = strings.NewReader(emptyStream)
	}
	return r.Reader.Reset(rr)
}

type writer struct{ *gzip.Writer }

func (w writer) Reset(ww io.Writer) {
	if ww == nil {
		ww = io.Discard
	}
	w.Writer.Reset(ww)
}

// A valid empty gzip stream, Reset(nil) must be able to read its header.
const emptyStream = "\x1f\x8b\x08\x00\x00\x00\x00\x00\x00\xff\x03\x00\x00\x00\x00\x00\x00\x00\x00\x00"
