package datatable

import (
	"unsafe"
)

// rowMapping maps the rows of a virtual column to the rows of its source.
type rowMapping interface {
	sourceRow(i int) (int, bool)
}

type viewRows struct{ ri RowIndex }

func (m viewRows) sourceRow(i int) (int, bool) { return m.ri.Get(i) }

type repeatRows struct{ n int }

func (m repeatRows) sourceRow(i int) (int, bool) { return i % m.n, true }

type padRows struct{ n int }

func (m padRows) sourceRow(i int) (int, bool) { return i, i < m.n }

// mappedColumn is the virtual representation of columns whose rows are read
// from another column: row-selected views, repeated columns and columns
// padded with missing values.
type mappedColumn struct {
	ColumnBase
	src  Column
	rows rowMapping
}

func newMappedColumn(src Column, nrows int, rows rowMapping) *mappedColumn {
	c := &mappedColumn{src: src, rows: rows}
	c.Init(src.Type(), nrows)
	return c
}

// newViewColumn takes ownership of src and returns the view of the rows of
// src selected by ri. Views of views are collapsed into a single view over
// the composed row index.
func newViewColumn(src Column, ri RowIndex) ColumnImpl {
	if v, ok := src.impl.(*mappedColumn); ok {
		if inner, ok := v.rows.(viewRows); ok {
			composed := inner.ri.Compose(ri)
			base := v.src.Clone()
			src.Release()
			return newViewColumn(base, composed)
		}
	}
	return newMappedColumn(src, ri.Size(src.NRows()), viewRows{ri})
}

func newRepeatedColumn(src Column, ntimes int) ColumnImpl {
	c := newMappedColumn(src, src.NRows()*ntimes, repeatRows{src.NRows()})
	c.setStats(repeatStats(src.impl.columnBase(), ntimes))
	return c
}

func newNAPaddedColumn(src Column, nrows int) ColumnImpl {
	c := newMappedColumn(src, nrows, padRows{src.NRows()})
	c.setStats(padStats(src.impl.columnBase(), nrows))
	return c
}

func (c *mappedColumn) Clone() ColumnImpl {
	clone := newMappedColumn(c.src.Clone(), c.nrows, c.rows)
	clone.setStats(c.peekStats())
	return clone
}

func (c *mappedColumn) IsVirtual() bool      { return true }
func (c *mappedColumn) NAStorage() NAStorage { return NAVirtual }
func (c *mappedColumn) NumChildren() int     { return 1 }
func (c *mappedColumn) release()             { c.src.Release() }

func (c *mappedColumn) Child(i int) Column {
	if i != 0 {
		return c.ColumnBase.Child(i)
	}
	return c.src
}

func (c *mappedColumn) AllowParallelAccess() bool      { return c.src.AllowParallelAccess() }
func (c *mappedColumn) ComputationallyExpensive() bool { return c.src.ComputationallyExpensive() }

func (c *mappedColumn) MemoryFootprint() int {
	n := int(unsafe.Sizeof(*c)) + c.src.MemoryFootprint()
	if v, ok := c.rows.(viewRows); ok {
		n += 4 * len(v.ri.Array())
	}
	return n
}

func (c *mappedColumn) Materialize(toMemory bool, config *Config) (ColumnImpl, error) {
	if v, ok := c.rows.(viewRows); ok {
		if g, ok := c.src.impl.(interface{ gather(RowIndex) ColumnImpl }); ok {
			return finishMaterialize(g.gather(v.ri), toMemory, config)
		}
	}
	return materializeGeneric(Column{impl: c}, toMemory, config)
}

func (c *mappedColumn) GetInt8(i int) (int8, bool) {
	if j, ok := c.rows.sourceRow(i); ok {
		return c.src.impl.(Int8Getter).GetInt8(j)
	}
	return NAInt8, false
}

func (c *mappedColumn) GetInt16(i int) (int16, bool) {
	if j, ok := c.rows.sourceRow(i); ok {
		return c.src.impl.(Int16Getter).GetInt16(j)
	}
	return NAInt16, false
}

func (c *mappedColumn) GetInt32(i int) (int32, bool) {
	if j, ok := c.rows.sourceRow(i); ok {
		return c.src.impl.(Int32Getter).GetInt32(j)
	}
	return NAInt32, false
}

func (c *mappedColumn) GetInt64(i int) (int64, bool) {
	if j, ok := c.rows.sourceRow(i); ok {
		return c.src.impl.(Int64Getter).GetInt64(j)
	}
	return NAInt64, false
}

func (c *mappedColumn) GetFloat32(i int) (float32, bool) {
	if j, ok := c.rows.sourceRow(i); ok {
		return c.src.impl.(Float32Getter).GetFloat32(j)
	}
	return NAFloat32, false
}

func (c *mappedColumn) GetFloat64(i int) (float64, bool) {
	if j, ok := c.rows.sourceRow(i); ok {
		return c.src.impl.(Float64Getter).GetFloat64(j)
	}
	return NAFloat64, false
}

func (c *mappedColumn) GetString(i int) ([]byte, bool) {
	if j, ok := c.rows.sourceRow(i); ok {
		return c.src.impl.(StringGetter).GetString(j)
	}
	return nil, false
}

func (c *mappedColumn) GetObject(i int) (any, bool) {
	if j, ok := c.rows.sourceRow(i); ok {
		return c.src.impl.(ObjectGetter).GetObject(j)
	}
	return nil, false
}

func (c *mappedColumn) GetColumn(i int) (Column, bool) {
	if j, ok := c.rows.sourceRow(i); ok {
		return c.src.impl.(ColumnGetter).GetColumn(j)
	}
	return Column{}, false
}
