// Package compress defines the codecs compressing the blocks of compressed
// columns. Each sub-package implements one codec.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrBlockSize is returned by DecodeBlock when a block does not decode to the
// expected number of bytes.
var ErrBlockSize = errors.New("decoded block size mismatch")

// Codec compresses and decompresses whole blocks of column data.
//
// Codecs are shared by every column compressed with them and must be safe
// for concurrent use.
type Codec interface {
	// String returns the name under which the codec is registered.
	String() string

	// Encode appends the compressed form of src to dst[:0]. A new slice is
	// allocated when dst is too small.
	Encode(dst, src []byte) ([]byte, error)

	// Decode appends the decompressed form of src to dst[:0]. A new slice is
	// allocated when dst is too small.
	Decode(dst, src []byte) ([]byte, error)
}

// DecodeBlock decompresses src into dst, which must have the exact length of
// the decompressed block.
func DecodeBlock(codec Codec, dst, src []byte) error {
	out, err := codec.Decode(dst[:0:len(dst)], src)
	if err != nil {
		return err
	}
	if len(out) != len(dst) {
		return fmt.Errorf("%s: %w: got %d bytes, expected %d", codec, ErrBlockSize, len(out), len(dst))
	}
	if len(out) > 0 && &out[0] != &dst[0] {
		copy(dst, out)
	}
	return nil
}

// Reader is a resettable decompressing stream.
type Reader interface {
	io.ReadCloser
	Reset(io.Reader) error
}

// Writer is a resettable compressing stream.
type Writer interface {
	io.WriteCloser
	Reset(io.Writer)
}

// Streams adapts stream based compression formats to the block oriented
// Codec interface. Readers and writers are pooled and reset between blocks.
//
// The zero value is ready to use once NewReader and NewWriter are set; the
// codecs of this module set them lazily with Init.
type Streams struct {
	NewReader func(io.Reader) (Reader, error)
	NewWriter func(io.Writer) (Writer, error)

	once    sync.Once
	readers sync.Pool
	writers sync.Pool
}

// Init sets the stream constructors of s the first time it is called.
func (s *Streams) Init(newReader func(io.Reader) (Reader, error), newWriter func(io.Writer) (Writer, error)) *Streams {
	s.once.Do(func() {
		s.NewReader, s.NewWriter = newReader, newWriter
	})
	return s
}

func (s *Streams) writer(w io.Writer) (Writer, error) {
	if z, ok := s.writers.Get().(Writer); ok {
		z.Reset(w)
		return z, nil
	}
	return s.NewWriter(w)
}

func (s *Streams) reader(r io.Reader) (Reader, error) {
	if z, ok := s.readers.Get().(Reader); ok {
		if err := z.Reset(r); err != nil {
			return nil, err
		}
		return z, nil
	}
	return s.NewReader(r)
}

// Encode compresses src as a complete stream.
func (s *Streams) Encode(dst, src []byte) ([]byte, error) {
	out := bytes.NewBuffer(dst[:0])
	z, err := s.writer(out)
	if err != nil {
		return dst[:0], err
	}

	_, err = z.Write(src)
	if err == nil {
		err = z.Close()
	}
	z.Reset(io.Discard)
	s.writers.Put(z)
	return out.Bytes(), err
}

// Decode decompresses the stream held in src.
func (s *Streams) Decode(dst, src []byte) ([]byte, error) {
	z, err := s.reader(bytes.NewReader(src))
	if err != nil {
		return dst[:0], err
	}

	out := bytes.NewBuffer(dst[:0])
	_, err = out.ReadFrom(z)
	if z.Reset(nil) == nil {
		s.readers.Put(z)
	}
	return out.Bytes(), err
}
