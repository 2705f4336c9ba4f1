package datatable

import (
	"fmt"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/segmentio/datatable-go/internal/unsafecast"
)

// listColumn is the physical representation of Arr32 columns: row i holds
// the rows [offsets[i], offsets[i+1]) of the child column.
type listColumn struct {
	ColumnBase
	offsets *Buffer
	child   Column
	nulls   *roaring.Bitmap
}

func newListColumn(nrows int, offsets *Buffer, child Column, nulls *roaring.Bitmap) *listColumn {
	c := &listColumn{offsets: offsets, child: child, nulls: nulls}
	c.Init(Arr32, nrows)
	return c
}

// NewListColumn returns a column where row i holds the values of items[i].
// Empty handles in items are missing values. The items are converted to
// their common type.
func NewListColumn(items []Column) (Column, error) {
	impl, err := buildList(items, currentConfig())
	if err != nil {
		return Column{}, err
	}
	return NewColumn(impl), nil
}

func buildList(items []Column, config *Config) (ColumnImpl, error) {
	offsets := make([]uint32, len(items)+1)
	parts := make([]Column, 0, len(items))
	var nulls *roaring.Bitmap

	for i, item := range items {
		if item.IsZero() {
			if nulls == nil {
				nulls = roaring.New()
			}
			nulls.Add(uint32(i))
		} else {
			parts = append(parts, item)
		}
		offsets[i+1] = offsets[i] + uint32(item.nrowsOrZero())
	}

	child := NewVoidColumn(0)
	if len(parts) > 0 {
		var err error
		if child, err = rbind(parts, config); err != nil {
			return nil, fmt.Errorf("building list column: %w", err)
		}
	}
	return newListColumn(len(items), newBuffer(unsafecast.Bytes(offsets)), child, nulls), nil
}

func (c Column) nrowsOrZero() int {
	if c.impl == nil {
		return 0
	}
	return c.NRows()
}

func (c *listColumn) bounds(i int) (int, int) {
	offsets := bufferValues[uint32](c.offsets)
	return int(offsets[i]), int(offsets[i+1])
}

// GetColumn returns a view of the child column holding the values of row i.
// The caller owns the returned handle.
func (c *listColumn) GetColumn(i int) (Column, bool) {
	if c.nulls != nil && c.nulls.Contains(uint32(i)) {
		return Column{}, false
	}
	start, end := c.bounds(i)
	item := c.child.Clone()
	item.ApplyRowIndex(NewArithmeticRowIndex(start, end-start, 1))
	return item, true
}

func (c *listColumn) Clone() ColumnImpl {
	return newListColumn(c.nrows, c.offsets.Retain(), c.child.Clone(), c.nulls)
}

func (c *listColumn) IsVirtual() bool      { return false }
func (c *listColumn) NAStorage() NAStorage { return NAValidity }
func (c *listColumn) NumChildren() int     { return 1 }
func (c *listColumn) NumDataBuffers() int  { return 1 }

func (c *listColumn) Child(i int) Column {
	if i != 0 {
		return c.ColumnBase.Child(i)
	}
	return c.child
}

func (c *listColumn) DataSize(k int) int {
	if k != 0 {
		panic(c.errNoBuffer(k))
	}
	return (c.nrows + 1) * Arr32.ElemSize()
}

func (c *listColumn) DataReadonly(k int) []byte { return c.offsets.Bytes()[:c.DataSize(k)] }
func (c *listColumn) IsDataEditable(k int) bool { return k == 0 && c.offsets.IsEditable() }

func (c *listColumn) DataEditable(k int) []byte {
	size := c.DataSize(k)
	c.offsets = c.offsets.Editable()
	return c.offsets.Bytes()[:size]
}

func (c *listColumn) AllowParallelAccess() bool { return c.child.AllowParallelAccess() }

func (c *listColumn) MemoryFootprint() int {
	n := int(unsafe.Sizeof(*c)) + c.offsets.Len() + c.child.MemoryFootprint()
	if c.nulls != nil {
		n += int(c.nulls.GetSizeInBytes())
	}
	return n
}

func (c *listColumn) release() {
	c.offsets.Release()
	c.child.Release()
}

func (c *listColumn) Materialize(toMemory bool, config *Config) (ColumnImpl, error) {
	child := c.child.Clone()
	if err := child.materialize(toMemory, config); err != nil {
		child.Release()
		return nil, err
	}

	var offsets *Buffer
	switch {
	case toMemory && c.offsets.IsMapped():
		offsets = newBuffer(alignedCopy(c.DataReadonly(0)))
	case !toMemory && !c.offsets.IsMapped():
		b, err := config.PersistentBuffers.NewBuffer(c.DataReadonly(0))
		if err != nil {
			child.Release()
			return nil, err
		}
		offsets = b
	default:
		if child.impl == c.child.impl {
			child.Release()
			return nil, nil
		}
		offsets = c.offsets.Retain()
	}
	return newListColumn(c.nrows, offsets, child, c.nulls), nil
}

func (c *listColumn) VerifyIntegrity() error {
	offsets := bufferValues[uint32](c.offsets)
	if len(offsets) < c.nrows+1 {
		return fmt.Errorf("arr32 column of %d rows has %d offsets", c.nrows, len(offsets))
	}
	if offsets[0] != 0 {
		return fmt.Errorf("arr32 column: first offset is %d", offsets[0])
	}
	for i := 0; i < c.nrows; i++ {
		if offsets[i+1] < offsets[i] {
			return fmt.Errorf("arr32 column: offsets decrease at row %d", i)
		}
	}
	if end := int(offsets[c.nrows]); end > c.child.NRows() {
		return fmt.Errorf("arr32 column: last offset %d beyond %d child rows", end, c.child.NRows())
	}
	return nil
}
