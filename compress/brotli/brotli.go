// Package brotli implements the BROTLI codec.
package brotli

import (
	"io"

	"github.com/andybalholm/brotli"

	"github.com/segmentio/datatable-go/compress"
)

const (
	DefaultQuality = 0
	DefaultLGWin   = 0
)

type Codec struct {
	// Quality controls the compression-speed vs compression-density trade-offs.
	// The higher the quality, the slower the compression. Range is 0 to 11.
	Quality int
	// LGWin is the base 2 logarithm of the sliding window size.
	// Range is 10 to 24. 0 indicates automatic configuration based on Quality.
	LGWin int

	streams compress.Streams
}

func (c *Codec) String() string { return "BROTLI" }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) { return c.init().Encode(dst, src) }
func (c *Codec) Decode(dst, src []byte) ([]byte, error) { return c.init().Decode(dst, src) }

func (c *Codec) init() *compress.Streams {
	options := brotli.WriterOptions{Quality: c.Quality, LGWin: c.LGWin}
	return c.streams.Init(
		func(r io.Reader) (compress.Reader, error) { return reader{brotli.NewReader(r)}, nil },
		func(w io.Writer) (compress.Writer, error) { return writer{brotli.NewWriterOptions(w, options)}, nil },
	)
}

type reader struct{ *brotli.Reader }

func (r reader) Close() error { return nil }

type writer struct{ *brotli.Writer }

func (w writer) Reset(ww io.Writer) { w.Writer.Reset(ww) }
