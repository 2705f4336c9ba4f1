// Package mmap maps persisted column buffers into memory.
package mmap

import (
	"errors"
	"os"

	"go.uber.org/atomic"
)

var (
	ErrClosed      = errors.New("mmap: mapping is closed")
	ErrInvalidSize = errors.New("mmap: invalid mapping size")
)

// Mapping is a read-only view of a file region. The memory is released by
// Close, after which Bytes returns nil.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	unmap  func([]byte) error
}

// Open maps the first size bytes of the file at path. A negative size maps
// the whole file.
func Open(path string, size int64) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if size < 0 {
		fi, err := f.Stat()
		if err != nil {
			return nil, err
		}
		size = fi.Size()
	}
	if size == 0 {
		return &Mapping{}, nil
	}
	if size < 0 || int64(int(size)) != size {
		return nil, ErrInvalidSize
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, unmap: unmap}, nil
}

// Bytes returns the mapped memory. The slice must not be written to.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Len returns the size of the mapping in bytes.
func (m *Mapping) Len() int { return len(m.data) }

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}
