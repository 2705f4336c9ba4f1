package datatable

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/thrift"
	"go.uber.org/atomic"

	"github.com/segmentio/datatable-go/internal/mmap"
	"github.com/segmentio/datatable-go/internal/unsafecast"
)

const bufferMagic = "DTB1"

var (
	ErrInvalidBuffer = errors.New("invalid persisted buffer")
)

// Buffer is a reference counted region of memory holding the data of a
// column. Buffers are either allocated on the heap or mapped from a file
// created by a persistent BufferPool; mapped buffers are read-only.
//
// Buffers are shared between clones of a column, modifications must go
// through Editable which copies the buffer when it is shared.
type Buffer struct {
	data    []byte
	refs    atomic.Int32
	id      uuid.UUID
	path    string
	mapping *mmap.Mapping
	remove  bool
}

func newBuffer(data []byte) *Buffer {
	b := &Buffer{data: data}
	b.refs.Store(1)
	return b
}

// newBufferOf allocates a zeroed buffer large enough to hold n values of
// type T, aligned for T.
func newBufferOf[T any](n int) *Buffer {
	return newBuffer(unsafecast.Bytes(make([]T, n)))
}

// alignedCopy returns a copy of data in memory aligned for any fixed-width
// element type.
func alignedCopy(data []byte) []byte {
	words := make([]uint64, (len(data)+7)/8)
	b := unsafecast.Bytes(words)[:len(data)]
	copy(b, data)
	return b
}

func bufferValues[T any](b *Buffer) []T {
	if b == nil {
		return nil
	}
	return unsafecast.Slice[T](b.data)
}

// Bytes returns the content of the buffer. The returned slice must not be
// modified unless the buffer was obtained from Editable.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Len returns the size of the buffer in bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// ID returns the unique identifier of persisted buffers, or the zero UUID
// for buffers allocated in memory.
func (b *Buffer) ID() uuid.UUID { return b.id }

// Path returns the path of the file backing b, or an empty string.
func (b *Buffer) Path() string { return b.path }

// IsMapped reports whether b is backed by a memory mapped file.
func (b *Buffer) IsMapped() bool { return b != nil && b.mapping != nil }

// IsEditable reports whether b may be written to in place: it must live on
// the heap and be referenced only once.
func (b *Buffer) IsEditable() bool {
	return b != nil && b.mapping == nil && b.refs.Load() == 1
}

// Retain increments the reference count of b and returns it.
func (b *Buffer) Retain() *Buffer {
	if b != nil {
		b.refs.Inc()
	}
	return b
}

// Release decrements the reference count of b, unmapping the memory of
// persisted buffers when it drops to zero.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	if b.refs.Dec() == 0 && b.mapping != nil {
		runtime.SetFinalizer(b, nil)
		b.close()
	}
}

func (b *Buffer) close() {
	b.mapping.Close()
	if b.remove {
		os.Remove(b.path)
	}
}

// Editable returns a buffer with the same content as b which can be written
// to. When b is not editable the reference held by the caller on b is
// released and replaced with the one on the returned copy.
func (b *Buffer) Editable() *Buffer {
	if b.IsEditable() {
		return b
	}
	c := newBuffer(alignedCopy(b.Bytes()))
	b.Release()
	return c
}

// BufferPool is the interface implemented by the allocators of buffers
// holding the persistable form of materialized columns.
type BufferPool interface {
	// NewBuffer returns a buffer holding a copy of data.
	NewBuffer(data []byte) (*Buffer, error)
}

// NewBufferPool creates a pool allocating buffers on the heap.
func NewBufferPool() BufferPool { return memoryBufferPool{} }

type memoryBufferPool struct{}

func (memoryBufferPool) NewBuffer(data []byte) (*Buffer, error) {
	return newBuffer(alignedCopy(data)), nil
}

type fileBufferPool struct {
	err     error
	tempdir string
	pattern string
	keep    bool
}

// NewFileBufferPool creates a pool writing buffers to files created in
// tempdir, then mapping them into memory. The files are removed once the
// last reference to their buffer is released.
//
// The pattern is passed to os.CreateTemp to generate the file names.
func NewFileBufferPool(tempdir, pattern string) BufferPool {
	pool := &fileBufferPool{
		tempdir: tempdir,
		pattern: pattern,
	}
	if pool.tempdir == "" {
		pool.tempdir = os.TempDir()
	}
	pool.tempdir, pool.err = filepath.Abs(pool.tempdir)
	return pool
}

// NewDirBufferPool is like NewFileBufferPool but the files are kept after
// their buffers were released, so they can be reopened with OpenBuffer.
func NewDirBufferPool(dir, pattern string) BufferPool {
	pool := NewFileBufferPool(dir, pattern).(*fileBufferPool)
	pool.keep = true
	return pool
}

type bufferFooter struct {
	ID       string `thrift:"1,required"`
	Size     int64  `thrift:"2,required"`
	Checksum int32  `thrift:"3,required"`
}

func (pool *fileBufferPool) NewBuffer(data []byte) (*Buffer, error) {
	if pool.err != nil {
		return nil, pool.err
	}
	f, err := os.CreateTemp(pool.tempdir, pool.pattern)
	if err != nil {
		return nil, err
	}
	path := f.Name()

	id := uuid.New()
	if err := writeBuffer(f, id, data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}

	b, err := mapBuffer(path, id, int64(len(data)))
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	b.remove = !pool.keep
	metrics.persistedBufferBytes.Add(float64(len(data)))
	return b, nil
}

func writeBuffer(f *os.File, id uuid.UUID, data []byte) error {
	if _, err := f.Write(data); err != nil {
		return err
	}

	footer, err := thrift.Marshal(new(thrift.CompactProtocol), &bufferFooter{
		ID:       id.String(),
		Size:     int64(len(data)),
		Checksum: int32(crc32.ChecksumIEEE(data)),
	})
	if err != nil {
		return err
	}

	length := len(footer)
	footer = append(footer, 0, 0, 0, 0)
	footer = append(footer, bufferMagic...)
	binary.LittleEndian.PutUint32(footer[length:], uint32(length))

	_, err = f.Write(footer)
	return err
}

// OpenBuffer maps the buffer persisted in the file at path. The checksum of
// the content is verified before the buffer is returned.
func OpenBuffer(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := stat.Size()

	var tail [8]byte
	if size < int64(len(tail)) {
		return nil, fmt.Errorf("%w: %s: file too short", ErrInvalidBuffer, path)
	}
	if _, err := f.ReadAt(tail[:], size-8); err != nil {
		return nil, fmt.Errorf("reading buffer footer of %s: %w", path, err)
	}
	if string(tail[4:]) != bufferMagic {
		return nil, fmt.Errorf("%w: %s: invalid magic footer %q", ErrInvalidBuffer, path, tail[4:])
	}

	footerSize := int64(binary.LittleEndian.Uint32(tail[:4]))
	if footerSize > size-8 {
		return nil, fmt.Errorf("%w: %s: footer size out of bounds", ErrInvalidBuffer, path)
	}
	footerData := make([]byte, footerSize)
	if _, err := f.ReadAt(footerData, size-(footerSize+8)); err != nil {
		return nil, fmt.Errorf("reading buffer footer of %s: %w", path, err)
	}

	footer := new(bufferFooter)
	if err := thrift.Unmarshal(new(thrift.CompactProtocol), footerData, footer); err != nil {
		return nil, fmt.Errorf("decoding buffer footer of %s: %w", path, err)
	}
	if footer.Size != size-(footerSize+8) {
		return nil, fmt.Errorf("%w: %s: size mismatch", ErrInvalidBuffer, path)
	}
	id, err := uuid.Parse(footer.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBuffer, path, err)
	}

	b, err := mapBuffer(path, id, footer.Size)
	if err != nil {
		return nil, err
	}
	if int32(crc32.ChecksumIEEE(b.data)) != footer.Checksum {
		b.Release()
		return nil, fmt.Errorf("%w: %s: checksum mismatch", ErrInvalidBuffer, path)
	}
	return b, nil
}

func mapBuffer(path string, id uuid.UUID, size int64) (*Buffer, error) {
	m, err := mmap.Open(path, size)
	if err != nil {
		return nil, err
	}
	b := &Buffer{
		data:    m.Bytes(),
		id:      id,
		path:    path,
		mapping: m,
	}
	b.refs.Store(1)
	runtime.SetFinalizer(b, (*Buffer).close)
	return b, nil
}
