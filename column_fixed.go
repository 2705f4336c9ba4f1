package datatable

import (
	"fmt"
	"unsafe"

	"github.com/segmentio/datatable-go/internal/bits"
	"github.com/segmentio/datatable-go/internal/unsafecast"
	"github.com/segmentio/datatable-go/sparse"
)

type fixedType interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

func naValue[T fixedType]() T {
	var v T
	switch p := any(&v).(type) {
	case *int8:
		*p = NAInt8
	case *int16:
		*p = NAInt16
	case *int32:
		*p = NAInt32
	case *int64:
		*p = NAInt64
	case *float32:
		*p = NAFloat32
	case *float64:
		*p = NAFloat64
	}
	return v
}

// fixedColumn is the physical representation of boolean, integer and real
// columns: a single buffer of nrows values with missing values stored as
// sentinels.
type fixedColumn[T fixedType] struct {
	ColumnBase
	buf *Buffer
	na  T
}

func (c *fixedColumn[T]) init(t SType, nrows int, buf *Buffer) {
	c.Init(t, nrows)
	c.buf = buf
	c.na = naValue[T]()
}

// newFixedColumn returns the representation of type t holding the nrows
// first values of buf. The reference held by the caller on buf is
// transferred to the column.
func newFixedColumn(t SType, nrows int, buf *Buffer) ColumnImpl {
	switch t {
	case Bool:
		c := new(boolColumn)
		c.init(t, nrows, buf)
		return c
	case Int8:
		c := new(int8Column)
		c.init(t, nrows, buf)
		return c
	case Int16:
		c := new(int16Column)
		c.init(t, nrows, buf)
		return c
	case Int32:
		c := new(int32Column)
		c.init(t, nrows, buf)
		return c
	case Int64:
		c := new(int64Column)
		c.init(t, nrows, buf)
		return c
	case Float32:
		c := new(float32Column)
		c.init(t, nrows, buf)
		return c
	case Float64:
		c := new(float64Column)
		c.init(t, nrows, buf)
		return c
	default:
		panic(fmt.Sprintf("datatable: %s is not a fixed-width type", t))
	}
}

func newFixedColumnOf[T fixedType](t SType, values []T) Column {
	data := make([]T, len(values))
	copy(data, values)
	return NewColumn(newFixedColumn(t, len(data), newBuffer(unsafecast.Bytes(data))))
}

// NewBoolColumn returns a column holding a copy of values.
func NewBoolColumn(values []bool) Column {
	data := make([]int8, len(values))
	for i, v := range values {
		if v {
			data[i] = 1
		}
	}
	return NewColumn(newFixedColumn(Bool, len(data), newBuffer(unsafecast.Bytes(data))))
}

// NewInt8Column returns a column holding a copy of values. Values equal to
// NAInt8 are missing; the same convention applies to the other integer
// constructors.
func NewInt8Column(values []int8) Column   { return newFixedColumnOf(Int8, values) }
func NewInt16Column(values []int16) Column { return newFixedColumnOf(Int16, values) }
func NewInt32Column(values []int32) Column { return newFixedColumnOf(Int32, values) }
func NewInt64Column(values []int64) Column { return newFixedColumnOf(Int64, values) }

// NewFloat32Column returns a column holding a copy of values. NaN values
// are missing.
func NewFloat32Column(values []float32) Column { return newFixedColumnOf(Float32, values) }
func NewFloat64Column(values []float64) Column { return newFixedColumnOf(Float64, values) }

func (c *fixedColumn[T]) values() []T { return bufferValues[T](c.buf)[:c.nrows] }

func (c *fixedColumn[T]) get(i int) (T, bool) {
	v := bufferValues[T](c.buf)[i]
	return v, v == v && v != c.na
}

func (c *fixedColumn[T]) Clone() ColumnImpl {
	impl := newFixedColumn(c.stype, c.nrows, c.buf.Retain())
	impl.columnBase().setStats(c.peekStats())
	return impl
}

func (c *fixedColumn[T]) IsVirtual() bool      { return false }
func (c *fixedColumn[T]) NAStorage() NAStorage { return NASentinel }
func (c *fixedColumn[T]) NumDataBuffers() int  { return 1 }

func (c *fixedColumn[T]) DataSize(k int) int {
	c.checkBuffer(k)
	return c.nrows * int(unsafe.Sizeof(c.na))
}

func (c *fixedColumn[T]) DataReadonly(k int) []byte {
	return c.buf.Bytes()[:c.DataSize(k)]
}

func (c *fixedColumn[T]) IsDataEditable(k int) bool {
	c.checkBuffer(k)
	return c.buf.IsEditable()
}

func (c *fixedColumn[T]) DataEditable(k int) []byte {
	size := c.DataSize(k)
	c.buf = c.buf.Editable()
	return c.buf.Bytes()[:size]
}

func (c *fixedColumn[T]) checkBuffer(k int) {
	if k != 0 {
		panic(c.errNoBuffer(k))
	}
}

func (c *fixedColumn[T]) MemoryFootprint() int {
	return int(unsafe.Sizeof(*c)) + c.buf.Len()
}

func (c *fixedColumn[T]) release() { c.buf.Release() }

func (c *fixedColumn[T]) Materialize(toMemory bool, config *Config) (ColumnImpl, error) {
	var buf *Buffer
	switch {
	case toMemory && c.buf.IsMapped():
		buf = newBuffer(alignedCopy(c.DataReadonly(0)))
	case !toMemory && !c.buf.IsMapped():
		b, err := config.PersistentBuffers.NewBuffer(c.DataReadonly(0))
		if err != nil {
			return nil, err
		}
		buf = b
	default:
		return nil, nil
	}
	impl := newFixedColumn(c.stype, c.nrows, buf)
	impl.columnBase().setStats(c.peekStats())
	return impl, nil
}

func (c *fixedColumn[T]) Repeat(ntimes int) ColumnImpl {
	nrows := c.nrows * ntimes
	buf := newBufferOf[T](nrows)
	bits.Fill(bufferValues[T](buf), c.values())
	impl := newFixedColumn(c.stype, nrows, buf)
	impl.columnBase().setStats(repeatStats(&c.ColumnBase, ntimes))
	return impl
}

func (c *fixedColumn[T]) NAPad(nrows int) ColumnImpl {
	buf := newBufferOf[T](nrows)
	data := bufferValues[T](buf)
	n := copy(data, c.values())
	for i := n; i < nrows; i++ {
		data[i] = c.na
	}
	impl := newFixedColumn(c.stype, nrows, buf)
	impl.columnBase().setStats(padStats(&c.ColumnBase, nrows))
	return impl
}

func (c *fixedColumn[T]) Truncate(nrows int) ColumnImpl {
	return newFixedColumn(c.stype, nrows, c.buf.Retain())
}

// gather returns a physical column holding the rows of c selected by ri.
func (c *fixedColumn[T]) gather(ri RowIndex) ColumnImpl {
	n := ri.Size(c.nrows)
	buf := newBufferOf[T](n)
	dst := bufferValues[T](buf)

	switch ri.Kind() {
	case RowIndexArithmetic:
		start, _, step := ri.Slice()
		sparse.GatherStride(dst, c.values(), start, step)
	case RowIndexArray:
		sparse.Gather(dst, c.values(), ri.Array(), c.na)
	default:
		copy(dst, c.values())
	}
	return newFixedColumn(c.stype, n, buf)
}

func (c *fixedColumn[T]) ReplaceValues(at RowIndex, with Column) error {
	src, ok := fixedData[T](with)
	if !ok {
		return ErrNotSupported
	}
	c.buf = c.buf.Editable()
	data := c.values()

	if len(src) == 1 {
		v := src[0]
		for i, n := 0, at.Size(c.nrows); i < n; i++ {
			if j, ok := at.Get(i); ok {
				data[j] = v
			}
		}
		return nil
	}

	switch at.Kind() {
	case RowIndexArray:
		sparse.Scatter(data, src, at.Array())
	default:
		for i := range src {
			if j, ok := at.Get(i); ok {
				data[j] = src[i]
			}
		}
	}
	return nil
}

func (c *fixedColumn[T]) VerifyIntegrity() error {
	if c.stype != Bool {
		return nil
	}
	for i, v := range c.values() {
		if v != 0 && v != 1 && v != c.na {
			return fmt.Errorf("bool8 column holds invalid value %v at row %d", v, i)
		}
	}
	return nil
}

// fixedData returns the values of c when it is backed by a buffer of T.
func fixedData[T fixedType](c Column) ([]T, bool) {
	if f, ok := c.impl.(interface{ values() []T }); ok {
		return f.values(), true
	}
	return nil, false
}

type boolColumn struct{ fixedColumn[int8] }

func (c *boolColumn) GetInt8(i int) (int8, bool) { return c.get(i) }

type int8Column struct{ fixedColumn[int8] }

func (c *int8Column) GetInt8(i int) (int8, bool) { return c.get(i) }

type int16Column struct{ fixedColumn[int16] }

func (c *int16Column) GetInt16(i int) (int16, bool) { return c.get(i) }

type int32Column struct{ fixedColumn[int32] }

func (c *int32Column) GetInt32(i int) (int32, bool) { return c.get(i) }

type int64Column struct{ fixedColumn[int64] }

func (c *int64Column) GetInt64(i int) (int64, bool) { return c.get(i) }

type float32Column struct{ fixedColumn[float32] }

func (c *float32Column) GetFloat32(i int) (float32, bool) { return c.get(i) }

type float64Column struct{ fixedColumn[float64] }

func (c *float64Column) GetFloat64(i int) (float64, bool) { return c.get(i) }
