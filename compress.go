package datatable

import (
	"fmt"
	"unsafe"

	"github.com/segmentio/datatable-go/compress"
)

// compressedColumn is the virtual representation of fixed-width columns
// whose buffer was split in blocks compressed independently.
//
// Reading an element decodes its block into a cache holding the last block
// accessed; the cache is not synchronized so the column does not allow
// parallel access.
type compressedColumn struct {
	ColumnBase
	codec     compress.Codec
	blockRows int
	blocks    [][]byte

	cached int
	block  Column
}

// Compress returns a column holding the values of c compressed with codec.
// The values are split in blocks of CompressionBlockSize rows. Only
// fixed-width columns can be compressed.
func Compress(c Column, codec compress.Codec, options ...Option) (Column, error) {
	config, err := newConfig(options...)
	if err != nil {
		return Column{}, err
	}
	t := c.Type()
	if !t.IsFixedWidth() {
		return Column{}, fmt.Errorf("compressing column of type %s: %w", t, ErrNotSupported)
	}

	src := c.Clone()
	defer src.Release()
	if err := src.materialize(true, config); err != nil {
		return Column{}, err
	}

	data := src.DataReadonly(0)
	blockSize := config.CompressionBlockSize * t.ElemSize()
	blocks := make([][]byte, 0, (len(data)+blockSize-1)/blockSize)

	for lo := 0; lo < len(data); lo += blockSize {
		hi := min(lo+blockSize, len(data))
		block, err := codec.Encode(nil, data[lo:hi])
		if err != nil {
			return Column{}, fmt.Errorf("compressing block %d with %s: %w", len(blocks), codec, err)
		}
		blocks = append(blocks, block)
	}

	impl := newCompressedColumn(t, src.NRows(), codec, config.CompressionBlockSize, blocks)
	impl.setStats(src.impl.columnBase().peekStats())
	return NewColumn(impl), nil
}

func newCompressedColumn(t SType, nrows int, codec compress.Codec, blockRows int, blocks [][]byte) *compressedColumn {
	c := &compressedColumn{
		codec:     codec,
		blockRows: blockRows,
		blocks:    blocks,
		cached:    -1,
	}
	c.Init(t, nrows)
	return c
}

// Codec returns the codec used to compress the blocks of c.
func (c *compressedColumn) Codec() compress.Codec { return c.codec }

func (c *compressedColumn) Clone() ColumnImpl {
	clone := newCompressedColumn(c.stype, c.nrows, c.codec, c.blockRows, c.blocks)
	clone.setStats(c.peekStats())
	return clone
}

func (c *compressedColumn) IsVirtual() bool                { return true }
func (c *compressedColumn) NAStorage() NAStorage           { return NAVirtual }
func (c *compressedColumn) AllowParallelAccess() bool      { return false }
func (c *compressedColumn) ComputationallyExpensive() bool { return true }
func (c *compressedColumn) release()                       { c.block.Release() }

func (c *compressedColumn) MemoryFootprint() int {
	n := int(unsafe.Sizeof(*c))
	for _, b := range c.blocks {
		n += len(b)
	}
	if !c.block.IsZero() {
		n += c.block.MemoryFootprint()
	}
	return n
}

func (c *compressedColumn) blockLength(b int) int {
	return min(c.blockRows, c.nrows-b*c.blockRows)
}

// decode decompresses block b into a new buffer. Decoding errors mean the
// blocks were corrupted after the column was created.
func (c *compressedColumn) decode(b int, dst []byte) {
	metrics.compressedBlockDecode.Inc()
	if err := compress.DecodeBlock(c.codec, dst, c.blocks[b]); err != nil {
		panic(fmt.Sprintf("datatable: decoding block %d of %s column: %v", b, c.stype, err))
	}
}

func (c *compressedColumn) blockAt(i int) (Column, int) {
	b := i / c.blockRows
	if b != c.cached {
		n := c.blockLength(b)
		size := n * c.stype.ElemSize()
		buf := newBufferOf[uint64]((size + 7) / 8)
		c.decode(b, buf.Bytes()[:size])
		c.block.reset(newFixedColumn(c.stype, n, buf))
		c.cached = b
	}
	return c.block, i - b*c.blockRows
}

func (c *compressedColumn) Materialize(toMemory bool, config *Config) (ColumnImpl, error) {
	size := c.nrows * c.stype.ElemSize()
	buf := newBufferOf[uint64]((size + 7) / 8)
	data := buf.Bytes()[:size]
	blockSize := c.blockRows * c.stype.ElemSize()

	for b := range c.blocks {
		lo := b * blockSize
		hi := min(lo+blockSize, size)
		c.decode(b, data[lo:hi])
	}

	impl := newFixedColumn(c.stype, c.nrows, buf)
	impl.columnBase().setStats(c.peekStats())
	return finishMaterialize(impl, toMemory, config)
}

func (c *compressedColumn) VerifyIntegrity() error {
	if want := (c.nrows + c.blockRows - 1) / c.blockRows; len(c.blocks) != want {
		return fmt.Errorf("compressed %s column of %d rows has %d blocks, expected %d", c.stype, c.nrows, len(c.blocks), want)
	}
	return nil
}

func (c *compressedColumn) GetInt8(i int) (int8, bool) {
	block, j := c.blockAt(i)
	return block.impl.(Int8Getter).GetInt8(j)
}

func (c *compressedColumn) GetInt16(i int) (int16, bool) {
	block, j := c.blockAt(i)
	return block.impl.(Int16Getter).GetInt16(j)
}

func (c *compressedColumn) GetInt32(i int) (int32, bool) {
	block, j := c.blockAt(i)
	return block.impl.(Int32Getter).GetInt32(j)
}

func (c *compressedColumn) GetInt64(i int) (int64, bool) {
	block, j := c.blockAt(i)
	return block.impl.(Int64Getter).GetInt64(j)
}

func (c *compressedColumn) GetFloat32(i int) (float32, bool) {
	block, j := c.blockAt(i)
	return block.impl.(Float32Getter).GetFloat32(j)
}

func (c *compressedColumn) GetFloat64(i int) (float64, bool) {
	block, j := c.blockAt(i)
	return block.impl.(Float64Getter).GetFloat64(j)
}
