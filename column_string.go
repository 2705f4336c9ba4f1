package datatable

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/segmentio/datatable-go/internal/unsafecast"
)

// stringColumn is the physical representation of Str32 and Str64 columns.
// The offsets buffer holds nrows+1 offsets (uint32 or uint64 depending on
// the type) into the chars buffer; missing values are recorded in the nulls
// bitmap.
type stringColumn struct {
	ColumnBase
	offsets *Buffer
	chars   *Buffer
	nulls   *roaring.Bitmap
}

func newStringColumn(t SType, nrows int, offsets, chars *Buffer, nulls *roaring.Bitmap) *stringColumn {
	c := &stringColumn{offsets: offsets, chars: chars, nulls: nulls}
	c.Init(t, nrows)
	return c
}

// NewStringColumn returns a Str32 column holding a copy of values.
func NewStringColumn(values []string) Column {
	b := newStringBuilder(len(values))
	for _, v := range values {
		b.appendString(v)
	}
	return NewColumn(b.build(Str32))
}

func (c *stringColumn) offset(i int) int {
	if c.stype == Str32 {
		return int(bufferValues[uint32](c.offsets)[i])
	}
	return int(bufferValues[uint64](c.offsets)[i])
}

func (c *stringColumn) isNull(i int) bool {
	return c.nulls != nil && c.nulls.Contains(uint32(i))
}

func (c *stringColumn) GetString(i int) ([]byte, bool) {
	if c.isNull(i) {
		return nil, false
	}
	return c.chars.Bytes()[c.offset(i):c.offset(i+1)], true
}

func (c *stringColumn) naCount() int {
	if c.nulls == nil {
		return 0
	}
	return int(c.nulls.GetCardinality())
}

func (c *stringColumn) Clone() ColumnImpl {
	clone := newStringColumn(c.stype, c.nrows, c.offsets.Retain(), c.chars.Retain(), c.nulls)
	clone.setStats(c.peekStats())
	return clone
}

func (c *stringColumn) IsVirtual() bool      { return false }
func (c *stringColumn) NAStorage() NAStorage { return NAValidity }
func (c *stringColumn) NumDataBuffers() int  { return 2 }

func (c *stringColumn) buffer(k int) *Buffer {
	switch k {
	case 0:
		return c.offsets
	case 1:
		return c.chars
	default:
		panic(c.errNoBuffer(k))
	}
}

func (c *stringColumn) DataSize(k int) int {
	switch k {
	case 0:
		return (c.nrows + 1) * c.stype.ElemSize()
	case 1:
		return c.offset(c.nrows)
	default:
		panic(c.errNoBuffer(k))
	}
}

func (c *stringColumn) DataReadonly(k int) []byte {
	return c.buffer(k).Bytes()[:c.DataSize(k)]
}

func (c *stringColumn) IsDataEditable(k int) bool { return c.buffer(k).IsEditable() }

func (c *stringColumn) DataEditable(k int) []byte {
	size := c.DataSize(k)
	switch k {
	case 0:
		c.offsets = c.offsets.Editable()
	case 1:
		c.chars = c.chars.Editable()
	}
	return c.buffer(k).Bytes()[:size]
}

func (c *stringColumn) MemoryFootprint() int {
	n := int(unsafe.Sizeof(*c)) + c.offsets.Len() + c.chars.Len()
	if c.nulls != nil {
		n += int(c.nulls.GetSizeInBytes())
	}
	return n
}

func (c *stringColumn) release() {
	c.offsets.Release()
	c.chars.Release()
}

func (c *stringColumn) Materialize(toMemory bool, config *Config) (ColumnImpl, error) {
	var offsets, chars *Buffer
	switch {
	case toMemory && (c.offsets.IsMapped() || c.chars.IsMapped()):
		offsets = newBuffer(alignedCopy(c.DataReadonly(0)))
		chars = newBuffer(alignedCopy(c.DataReadonly(1)))
	case !toMemory && !(c.offsets.IsMapped() && c.chars.IsMapped()):
		var err error
		if offsets, err = config.PersistentBuffers.NewBuffer(c.DataReadonly(0)); err != nil {
			return nil, err
		}
		if chars, err = config.PersistentBuffers.NewBuffer(c.DataReadonly(1)); err != nil {
			offsets.Release()
			return nil, err
		}
	default:
		return nil, nil
	}
	impl := newStringColumn(c.stype, c.nrows, offsets, chars, c.nulls)
	impl.setStats(c.peekStats())
	return impl, nil
}

func (c *stringColumn) Truncate(nrows int) ColumnImpl {
	nulls := c.nulls
	if nulls != nil && !nulls.IsEmpty() && int(nulls.Maximum()) >= nrows {
		nulls = nulls.Clone()
		nulls.RemoveRange(uint64(nrows), uint64(c.nrows))
	}
	return newStringColumn(c.stype, nrows, c.offsets.Retain(), c.chars.Retain(), nulls)
}

func (c *stringColumn) VerifyIntegrity() error {
	if c.offsets.Len() < (c.nrows+1)*c.stype.ElemSize() {
		return fmt.Errorf("%s column of %d rows has %d bytes of offsets", c.stype, c.nrows, c.offsets.Len())
	}
	if c.offset(0) != 0 {
		return fmt.Errorf("%s column: first offset is %d", c.stype, c.offset(0))
	}
	for i := 0; i < c.nrows; i++ {
		if c.offset(i+1) < c.offset(i) {
			return fmt.Errorf("%s column: offsets decrease at row %d", c.stype, i)
		}
	}
	if end := c.offset(c.nrows); end > c.chars.Len() {
		return fmt.Errorf("%s column: last offset %d beyond %d bytes of characters", c.stype, end, c.chars.Len())
	}
	if c.nulls != nil && !c.nulls.IsEmpty() && int(c.nulls.Maximum()) >= c.nrows {
		return fmt.Errorf("%s column: missing value at row %d beyond %d rows", c.stype, c.nulls.Maximum(), c.nrows)
	}
	return nil
}

type stringBuilder struct {
	offsets []uint64
	chars   []byte
	nulls   *roaring.Bitmap
}

func newStringBuilder(nrows int) *stringBuilder {
	offsets := make([]uint64, 1, nrows+1)
	return &stringBuilder{offsets: offsets}
}

func (b *stringBuilder) append(s []byte, ok bool) {
	if ok {
		b.chars = append(b.chars, s...)
	} else {
		if b.nulls == nil {
			b.nulls = roaring.New()
		}
		b.nulls.Add(uint32(len(b.offsets) - 1))
	}
	b.offsets = append(b.offsets, uint64(len(b.chars)))
}

func (b *stringBuilder) appendString(s string) {
	b.chars = append(b.chars, s...)
	b.offsets = append(b.offsets, uint64(len(b.chars)))
}

// build returns the column of the appended strings. Str32 columns are widened
// to Str64 when the characters exceed the range of 32-bit offsets.
func (b *stringBuilder) build(t SType) ColumnImpl {
	nrows := len(b.offsets) - 1
	if t == Str32 && len(b.chars) > math.MaxUint32 {
		t = Str64
	}

	var offsets *Buffer
	if t == Str32 {
		o := make([]uint32, len(b.offsets))
		for i, v := range b.offsets {
			o[i] = uint32(v)
		}
		offsets = newBuffer(unsafecast.Bytes(o))
	} else {
		offsets = newBuffer(unsafecast.Bytes(b.offsets))
	}
	if b.nulls != nil {
		b.nulls.RunOptimize()
	}
	return newStringColumn(t, nrows, offsets, newBuffer(b.chars), b.nulls)
}
