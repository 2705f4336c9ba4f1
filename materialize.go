package datatable

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// finishMaterialize converts impl, a representation held in memory, to its
// persistent form when toMemory is false.
func finishMaterialize(impl ColumnImpl, toMemory bool, config *Config) (ColumnImpl, error) {
	if toMemory {
		return impl, nil
	}
	if m, ok := impl.(Materializer); ok {
		p, err := m.Materialize(false, config)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}
	return impl, nil
}

// materializeGeneric computes every element of c through its getters and
// stores them in a new physical representation.
func materializeGeneric(c Column, toMemory bool, config *Config) (ColumnImpl, error) {
	var impl ColumnImpl
	var err error

	switch t := c.Type(); {
	case t == Void:
		return nil, nil
	case t.IsFixedWidth():
		impl, err = materializeFixed(c, config)
	default:
		impl, err = buildColumn(t, c.NRows(), func(i int) (Column, int, bool) { return c, i, true }, config)
	}
	if err != nil {
		return nil, err
	}
	return finishMaterialize(impl, toMemory, config)
}

func materializeFixed(c Column, config *Config) (ColumnImpl, error) {
	switch c.Type() {
	case Bool, Int8:
		return materializeFixedOf(c, c.impl.(Int8Getter).GetInt8, config)
	case Int16:
		return materializeFixedOf(c, c.impl.(Int16Getter).GetInt16, config)
	case Int32:
		return materializeFixedOf(c, c.impl.(Int32Getter).GetInt32, config)
	case Int64:
		return materializeFixedOf(c, c.impl.(Int64Getter).GetInt64, config)
	case Float32:
		return materializeFixedOf(c, c.impl.(Float32Getter).GetFloat32, config)
	case Float64:
		return materializeFixedOf(c, c.impl.(Float64Getter).GetFloat64, config)
	default:
		return nil, fmt.Errorf("%s is not a fixed-width type", c.Type())
	}
}

func materializeFixedOf[T fixedType](c Column, get func(int) (T, bool), config *Config) (ColumnImpl, error) {
	n := c.NRows()
	buf := newBufferOf[T](n)
	data := bufferValues[T](buf)
	na := naValue[T]()

	err := parallelRange(n, c.AllowParallelAccess(), config, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if v, ok := get(i); ok {
				data[i] = v
			} else {
				data[i] = na
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return newFixedColumn(c.Type(), n, buf), nil
}

// parallelRange calls fn on consecutive chunks of [0, n). The chunks are
// processed concurrently when parallel is true and n spans more than one
// chunk.
func parallelRange(n int, parallel bool, config *Config, fn func(lo, hi int)) error {
	chunk := config.ParallelChunkSize
	if !parallel || config.Parallelism <= 1 || n <= chunk {
		fn(0, n)
		return nil
	}

	var group errgroup.Group
	group.SetLimit(config.Parallelism)

	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		group.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	return group.Wait()
}

// rowSource returns the column and row to read the value of row i from, or
// false if the value is missing. The columns must be of the type being
// built.
type rowSource func(i int) (Column, int, bool)

// buildColumn creates a physical column of nrows rows of type t reading its
// values from source. Rows are requested in increasing order.
func buildColumn(t SType, nrows int, source rowSource, config *Config) (ColumnImpl, error) {
	switch t {
	case Void:
		return newConstColumn(nil, Void, nrows), nil
	case Bool, Int8:
		return buildFixed(t, nrows, source, func(c Column, i int) (int8, bool) {
			return c.impl.(Int8Getter).GetInt8(i)
		}), nil
	case Int16:
		return buildFixed(t, nrows, source, func(c Column, i int) (int16, bool) {
			return c.impl.(Int16Getter).GetInt16(i)
		}), nil
	case Int32:
		return buildFixed(t, nrows, source, func(c Column, i int) (int32, bool) {
			return c.impl.(Int32Getter).GetInt32(i)
		}), nil
	case Int64:
		return buildFixed(t, nrows, source, func(c Column, i int) (int64, bool) {
			return c.impl.(Int64Getter).GetInt64(i)
		}), nil
	case Float32:
		return buildFixed(t, nrows, source, func(c Column, i int) (float32, bool) {
			return c.impl.(Float32Getter).GetFloat32(i)
		}), nil
	case Float64:
		return buildFixed(t, nrows, source, func(c Column, i int) (float64, bool) {
			return c.impl.(Float64Getter).GetFloat64(i)
		}), nil

	case Str32, Str64:
		b := newStringBuilder(nrows)
		for i := 0; i < nrows; i++ {
			if c, j, ok := source(i); ok {
				b.append(c.impl.(StringGetter).GetString(j))
			} else {
				b.append(nil, false)
			}
		}
		return b.build(t), nil

	case Obj:
		values := make([]any, nrows)
		for i := range values {
			if c, j, ok := source(i); ok {
				values[i], _ = c.impl.(ObjectGetter).GetObject(j)
			}
		}
		return newObjectColumn(values), nil

	case Arr32:
		items := make([]Column, nrows)
		for i := range items {
			if c, j, ok := source(i); ok {
				items[i], _ = c.impl.(ColumnGetter).GetColumn(j)
			}
		}
		defer func() {
			for i := range items {
				items[i].Release()
			}
		}()
		return buildList(items, config)

	default:
		return nil, fmt.Errorf("cannot build column of type %s", t)
	}
}

func buildFixed[T fixedType](t SType, nrows int, source rowSource, read func(Column, int) (T, bool)) ColumnImpl {
	buf := newBufferOf[T](nrows)
	data := bufferValues[T](buf)
	na := naValue[T]()

	for i := range data {
		data[i] = na
		if c, j, ok := source(i); ok {
			if v, ok := read(c, j); ok {
				data[i] = v
			}
		}
	}
	return newFixedColumn(t, nrows, buf)
}

// replaceGeneric builds a copy of c where the rows selected by at read their
// values from with.
func replaceGeneric(c Column, at RowIndex, with Column) (ColumnImpl, error) {
	nrows := c.NRows()
	pos := make([]int32, nrows)
	for i := range pos {
		pos[i] = NARow
	}
	for i, n := 0, at.Size(nrows); i < n; i++ {
		j, _ := at.Get(i)
		if with.NRows() == 1 {
			pos[j] = 0
		} else {
			pos[j] = int32(i)
		}
	}

	return buildColumn(c.Type(), nrows, func(i int) (Column, int, bool) {
		if p := pos[i]; p != NARow {
			return with, int(p), true
		}
		return c, i, true
	}, currentConfig())
}
