package datatable

import (
	"unsafe"
)

// objectColumn holds arbitrary Go values. Missing values are nil.
//
// The values are kept in a Go slice rather than a byte buffer, object columns
// therefore expose no data buffers and cannot be persisted.
type objectColumn struct {
	ColumnBase
	values []any
}

func newObjectColumn(values []any) *objectColumn {
	c := &objectColumn{values: values}
	c.Init(Obj, len(values))
	return c
}

// NewObjectColumn returns a column holding a copy of values.
func NewObjectColumn(values []any) Column {
	return NewColumn(newObjectColumn(append([]any(nil), values...)))
}

func (c *objectColumn) GetObject(i int) (any, bool) {
	v := c.values[i]
	return v, v != nil
}

func (c *objectColumn) Clone() ColumnImpl {
	clone := newObjectColumn(c.values)
	clone.setStats(c.peekStats())
	return clone
}

func (c *objectColumn) IsVirtual() bool      { return false }
func (c *objectColumn) NAStorage() NAStorage { return NASentinel }

// AllowParallelAccess returns false, the stored objects may not be safe to
// use from multiple goroutines.
func (c *objectColumn) AllowParallelAccess() bool { return false }

func (c *objectColumn) MemoryFootprint() int {
	return int(unsafe.Sizeof(*c)) + len(c.values)*int(unsafe.Sizeof(any(nil)))
}

func (c *objectColumn) Materialize(toMemory bool, config *Config) (ColumnImpl, error) {
	return nil, nil
}

func (c *objectColumn) Truncate(nrows int) ColumnImpl {
	return newObjectColumn(c.values[:nrows:nrows])
}

func (c *objectColumn) ReplaceValues(at RowIndex, with Column) error {
	src, ok := with.impl.(*objectColumn)
	if !ok {
		return ErrNotSupported
	}
	values := make([]any, len(c.values))
	copy(values, c.values)

	for i, n := 0, at.Size(c.nrows); i < n; i++ {
		j, _ := at.Get(i)
		if len(src.values) == 1 {
			values[j] = src.values[0]
		} else {
			values[j] = src.values[i]
		}
	}
	c.values = values
	return nil
}
