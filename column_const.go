package datatable

import (
	"fmt"
	"strconv"
	"unsafe"
)

// constColumn is the virtual representation of columns holding the same
// value on every row. Void columns are constant columns of missing values.
type constColumn struct {
	ColumnBase
	// value is nil for missing values, otherwise a bool, int64, float64,
	// string, Column or arbitrary object depending on the logical type.
	value any
}

func newConstColumn(value any, t SType, nrows int) *constColumn {
	c := &constColumn{value: value}
	c.Init(t, nrows)
	c.setStats(c.constStats())
	return c
}

// NewConstColumn returns a column of nrows rows all holding value, converted
// to storage type t. A nil value produces a column of missing values.
func NewConstColumn(value any, t SType, nrows int) (Column, error) {
	v, err := constValue(value, t)
	if err != nil {
		return Column{}, err
	}
	return NewColumn(newConstColumn(v, t, nrows)), nil
}

// NewVoidColumn returns a column of nrows missing values of type Void.
func NewVoidColumn(nrows int) Column {
	return NewColumn(newConstColumn(nil, Void, nrows))
}

func constValue(value any, t SType) (any, error) {
	if value == nil {
		return nil, nil
	}
	var v any
	var ok bool
	switch t.LType() {
	case LTypeBool:
		v, ok = objectToBool(value)
	case LTypeInt:
		var i int64
		if i, ok = objectToInt(value); ok {
			switch t {
			case Int8:
				_, ok = narrowInt[int8](i, true)
			case Int16:
				_, ok = narrowInt[int16](i, true)
			case Int32:
				_, ok = narrowInt[int32](i, true)
			}
		}
		v = i
	case LTypeReal:
		var f float64
		f, ok = objectToFloat(value)
		if t == Float32 {
			f = float64(float32(f))
		}
		v = f
	case LTypeString:
		v, ok = objectToString(value), true
	case LTypeList:
		v, ok = value.(Column)
	case LTypeObject:
		v, ok = value, true
	}
	if !ok {
		return nil, fmt.Errorf("cannot use %v (%T) as a constant of type %s", value, value, t)
	}
	return v, nil
}

func (c *constColumn) constStats() *Stats {
	s := new(Stats)
	if c.value == nil {
		s.NACount = c.nrows
		return s
	}
	if c.nrows == 0 {
		return s
	}
	switch v := c.value.(type) {
	case bool:
		s.HasMinMax = true
		if v {
			s.MinInt, s.MaxInt = 1, 1
		}
	case int64:
		s.HasMinMax = true
		s.MinInt, s.MaxInt = v, v
	case float64:
		s.HasMinMax = true
		s.MinFloat, s.MaxFloat = v, v
	}
	return s
}

func (c *constColumn) Clone() ColumnImpl {
	v := c.value
	if col, ok := v.(Column); ok {
		v = col.Clone()
	}
	return newConstColumn(v, c.stype, c.nrows)
}

func (c *constColumn) IsVirtual() bool      { return true }
func (c *constColumn) NAStorage() NAStorage { return NAVirtual }

func (c *constColumn) MemoryFootprint() int {
	n := int(unsafe.Sizeof(*c))
	switch v := c.value.(type) {
	case string:
		n += len(v)
	case Column:
		n += v.MemoryFootprint()
	}
	return n
}

func (c *constColumn) release() {
	if col, ok := c.value.(Column); ok {
		col.Release()
	}
}

func (c *constColumn) with(nrows int) ColumnImpl {
	v := c.value
	if col, ok := v.(Column); ok {
		v = col.Clone()
	}
	return newConstColumn(v, c.stype, nrows)
}

func (c *constColumn) Repeat(ntimes int) ColumnImpl  { return c.with(c.nrows * ntimes) }
func (c *constColumn) Truncate(nrows int) ColumnImpl { return c.with(nrows) }

func (c *constColumn) NAPad(nrows int) ColumnImpl {
	if c.value == nil {
		return c.with(nrows)
	}
	return nil
}

func (c *constColumn) ApplyRowIndex(ri RowIndex) ColumnImpl {
	if c.value == nil || !ri.HasNA() {
		return c.with(ri.Size(c.nrows))
	}
	return nil
}

func (c *constColumn) CastReplace(t SType) (ColumnImpl, error) {
	if c.stype == Void || c.value == nil {
		return newConstColumn(nil, t, c.nrows), nil
	}
	value := c.value
	if f, ok := value.(float64); ok && c.stype == Float32 && t.IsString() {
		value = strconv.FormatFloat(f, 'g', -1, 32)
	}
	v, err := constValue(value, t)
	if err != nil {
		// values that cannot be converted become missing, the same way they
		// would when read through a cast column
		v = nil
	}
	return newConstColumn(v, t, c.nrows), nil
}

func (c *constColumn) Materialize(toMemory bool, config *Config) (ColumnImpl, error) {
	if c.stype == Void {
		return nil, nil
	}
	return materializeGeneric(Column{impl: c}, toMemory, config)
}

func (c *constColumn) GetInt8(i int) (int8, bool) {
	switch v := c.value.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int64:
		return int8(v), true
	}
	return NAInt8, false
}

func (c *constColumn) GetInt16(i int) (int16, bool) {
	if v, ok := c.value.(int64); ok {
		return int16(v), true
	}
	return NAInt16, false
}

func (c *constColumn) GetInt32(i int) (int32, bool) {
	if v, ok := c.value.(int64); ok {
		return int32(v), true
	}
	return NAInt32, false
}

func (c *constColumn) GetInt64(i int) (int64, bool) {
	if v, ok := c.value.(int64); ok {
		return v, true
	}
	return NAInt64, false
}

func (c *constColumn) GetFloat32(i int) (float32, bool) {
	if v, ok := c.value.(float64); ok {
		return float32(v), true
	}
	return NAFloat32, false
}

func (c *constColumn) GetFloat64(i int) (float64, bool) {
	if v, ok := c.value.(float64); ok {
		return v, true
	}
	return NAFloat64, false
}

func (c *constColumn) GetString(i int) ([]byte, bool) {
	if v, ok := c.value.(string); ok {
		return []byte(v), true
	}
	return nil, false
}

func (c *constColumn) GetObject(i int) (any, bool) {
	return c.value, c.value != nil
}

func (c *constColumn) GetColumn(i int) (Column, bool) {
	if v, ok := c.value.(Column); ok {
		return v.Clone(), true
	}
	return Column{}, false
}
