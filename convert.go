package datatable

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unsafe"

	"github.com/segmentio/datatable-go/internal/unsafecast"
)

// canCast reports whether the values of columns of type from can be
// converted to type to.
func canCast(from, to SType) bool {
	switch {
	case from == to, from == Void, to == Obj:
		return true
	case to == Void || to == Arr32:
		return false
	case to.IsString():
		return true
	default:
		return from != Arr32
	}
}

// Value returns the value at row i as a Go value: bool, int8, int16, int32,
// int64, float32, float64, string, Column for list columns, or the stored
// object. The second return value is false when the value is missing.
func (c Column) Value(i int) (any, bool) {
	switch c.Type() {
	case Bool:
		return c.GetBool(i)
	case Int8:
		return c.GetInt8(i)
	case Int16:
		return c.GetInt16(i)
	case Int32:
		return c.GetInt32(i)
	case Int64:
		return c.GetInt64(i)
	case Float32:
		return c.GetFloat32(i)
	case Float64:
		return c.GetFloat64(i)
	case Str32, Str64:
		s, ok := c.GetString(i)
		return string(s), ok
	case Arr32:
		return c.GetColumn(i)
	case Obj:
		return c.GetObject(i)
	default:
		return nil, false
	}
}

// intValue reads row i of a boolean or integer column.
func (c Column) intValue(i int) (int64, bool) {
	switch c.impl.Type() {
	case Bool, Int8:
		v, ok := c.impl.(Int8Getter).GetInt8(i)
		return int64(v), ok
	case Int16:
		v, ok := c.impl.(Int16Getter).GetInt16(i)
		return int64(v), ok
	case Int32:
		v, ok := c.impl.(Int32Getter).GetInt32(i)
		return int64(v), ok
	case Int64:
		return c.impl.(Int64Getter).GetInt64(i)
	default:
		return 0, false
	}
}

// floatValue reads row i of a boolean, integer or real column.
func (c Column) floatValue(i int) (float64, bool) {
	switch c.impl.Type() {
	case Float32:
		v, ok := c.impl.(Float32Getter).GetFloat32(i)
		return float64(v), ok
	case Float64:
		return c.impl.(Float64Getter).GetFloat64(i)
	default:
		v, ok := c.intValue(i)
		return float64(v), ok
	}
}

// The as* methods read row i of a column of any type, converting the value
// to the requested representation. Values that cannot be converted are
// reported as missing.

func (c Column) asBool(i int) (bool, bool) {
	switch c.LType() {
	case LTypeBool, LTypeInt:
		v, ok := c.intValue(i)
		return v != 0, ok
	case LTypeReal:
		v, ok := c.floatValue(i)
		return v != 0, ok
	case LTypeString:
		s, ok := c.impl.(StringGetter).GetString(i)
		if !ok {
			return false, false
		}
		return parseBool(unsafecast.String(s))
	case LTypeObject:
		v, ok := c.impl.(ObjectGetter).GetObject(i)
		if !ok {
			return false, false
		}
		return objectToBool(v)
	default:
		return false, false
	}
}

func (c Column) asInt64(i int) (int64, bool) {
	switch c.LType() {
	case LTypeBool, LTypeInt:
		return c.intValue(i)
	case LTypeReal:
		v, ok := c.floatValue(i)
		if !ok {
			return 0, false
		}
		return floatToInt(v)
	case LTypeString:
		s, ok := c.impl.(StringGetter).GetString(i)
		if !ok {
			return 0, false
		}
		return parseInt(unsafecast.String(s))
	case LTypeObject:
		v, ok := c.impl.(ObjectGetter).GetObject(i)
		if !ok {
			return 0, false
		}
		return objectToInt(v)
	default:
		return 0, false
	}
}

func (c Column) asFloat64(i int) (float64, bool) {
	switch c.LType() {
	case LTypeBool, LTypeInt, LTypeReal:
		return c.floatValue(i)
	case LTypeString:
		s, ok := c.impl.(StringGetter).GetString(i)
		if !ok {
			return 0, false
		}
		return parseFloat(unsafecast.String(s))
	case LTypeObject:
		v, ok := c.impl.(ObjectGetter).GetObject(i)
		if !ok {
			return 0, false
		}
		return objectToFloat(v)
	default:
		return 0, false
	}
}

func (c Column) asString(i int) (string, bool) {
	switch t := c.Type(); t {
	case Bool:
		v, ok := c.intValue(i)
		return formatBool(v != 0), ok
	case Int8, Int16, Int32, Int64:
		v, ok := c.intValue(i)
		return strconv.FormatInt(v, 10), ok
	case Float32:
		v, ok := c.impl.(Float32Getter).GetFloat32(i)
		return strconv.FormatFloat(float64(v), 'g', -1, 32), ok
	case Float64:
		v, ok := c.impl.(Float64Getter).GetFloat64(i)
		return strconv.FormatFloat(v, 'g', -1, 64), ok
	case Str32, Str64:
		s, ok := c.impl.(StringGetter).GetString(i)
		return string(s), ok
	case Arr32:
		v, ok := c.impl.(ColumnGetter).GetColumn(i)
		if !ok {
			return "", false
		}
		defer v.Release()
		return formatList(v), true
	case Obj:
		v, ok := c.impl.(ObjectGetter).GetObject(i)
		if !ok {
			return "", false
		}
		return objectToString(v), true
	default:
		return "", false
	}
}

func (c Column) asObject(i int) (any, bool) {
	switch c.Type() {
	case Bool:
		v, ok := c.intValue(i)
		return v != 0, ok
	case Int8, Int16, Int32, Int64:
		return c.intValue(i)
	case Float32, Float64:
		return c.floatValue(i)
	case Void:
		return nil, false
	default:
		return c.Value(i)
	}
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func formatList(col Column) string {
	s := new(strings.Builder)
	s.WriteByte('[')
	for i := 0; i < col.NRows(); i++ {
		if i != 0 {
			s.WriteString(", ")
		}
		if v, ok := col.asString(i); ok {
			s.WriteString(v)
		} else {
			s.WriteString("NA")
		}
	}
	s.WriteByte(']')
	return s.String()
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "true", "1":
		return true, true
	case "False", "false", "0":
		return false, true
	default:
		return false, false
	}
}

func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		if f, ok := parseFloat(s); ok {
			return floatToInt(f)
		}
		return 0, false
	}
	return v, v != NAInt64
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, !math.IsNaN(v)
}

func floatToInt(v float64) (int64, bool) {
	if math.IsNaN(v) || v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, false
	}
	i := int64(v)
	return i, i != NAInt64
}

func objectToBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		return parseBool(x)
	default:
		if f, ok := objectToFloat(v); ok {
			return f != 0, true
		}
		return false, false
	}
}

func objectToInt(v any) (int64, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, x != NAInt64
	case uint:
		return int64(x), uint64(x) <= math.MaxInt64
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	case float32:
		return floatToInt(float64(x))
	case float64:
		return floatToInt(x)
	case string:
		return parseInt(x)
	default:
		return 0, false
	}
}

func objectToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), x == x
	case float64:
		return x, x == x
	case string:
		return parseFloat(x)
	default:
		i, ok := objectToInt(v)
		return float64(i), ok
	}
}

func objectToString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return formatBool(x)
	case Column:
		return formatList(x)
	default:
		return fmt.Sprint(x)
	}
}

// narrowInt converts v to the integer type T, reporting values which do not
// fit or collide with the missing value sentinel of T as missing.
func narrowInt[T int8 | int16 | int32 | int64](v int64, ok bool) (T, bool) {
	na := naValue[T]()
	if !ok {
		return na, false
	}
	width := 8 * unsafe.Sizeof(na)
	lo := -int64(1) << (width - 1)
	hi := int64(uint64(1)<<(width-1) - 1)
	if v <= lo || v > hi {
		return na, false
	}
	return T(v), true
}

// castColumn is the virtual representation of a column converted to another
// storage type. Conversions happen when elements are read.
type castColumn struct {
	ColumnBase
	src Column
}

func newCastColumn(src Column, t SType) ColumnImpl {
	c := &castColumn{src: src}
	c.Init(t, src.NRows())
	return c
}

func (c *castColumn) Clone() ColumnImpl    { return newCastColumn(c.src.Clone(), c.stype) }
func (c *castColumn) IsVirtual() bool      { return true }
func (c *castColumn) NAStorage() NAStorage { return NAVirtual }
func (c *castColumn) NumChildren() int     { return 1 }
func (c *castColumn) release()             { c.src.Release() }

func (c *castColumn) AllowParallelAccess() bool { return c.src.AllowParallelAccess() }

func (c *castColumn) Child(i int) Column {
	if i != 0 {
		return c.ColumnBase.Child(i)
	}
	return c.src
}

func (c *castColumn) ComputationallyExpensive() bool {
	return c.src.ComputationallyExpensive() || c.src.LType() == LTypeString
}

func (c *castColumn) MemoryFootprint() int {
	return int(unsafe.Sizeof(*c)) + c.src.MemoryFootprint()
}

func (c *castColumn) GetInt8(i int) (int8, bool) {
	if c.stype == Bool {
		v, ok := c.src.asBool(i)
		if !ok {
			return NABool, false
		}
		if v {
			return 1, true
		}
		return 0, true
	}
	return narrowInt[int8](c.src.asInt64(i))
}

func (c *castColumn) GetInt16(i int) (int16, bool) { return narrowInt[int16](c.src.asInt64(i)) }
func (c *castColumn) GetInt32(i int) (int32, bool) { return narrowInt[int32](c.src.asInt64(i)) }
func (c *castColumn) GetInt64(i int) (int64, bool) { return narrowInt[int64](c.src.asInt64(i)) }

func (c *castColumn) GetFloat32(i int) (float32, bool) {
	v, ok := c.src.asFloat64(i)
	if !ok {
		return NAFloat32, false
	}
	return float32(v), true
}

func (c *castColumn) GetFloat64(i int) (float64, bool) {
	v, ok := c.src.asFloat64(i)
	if !ok {
		return NAFloat64, false
	}
	return v, true
}

func (c *castColumn) GetString(i int) ([]byte, bool) {
	s, ok := c.src.asString(i)
	if !ok {
		return nil, false
	}
	return []byte(s), true
}

func (c *castColumn) GetObject(i int) (any, bool) { return c.src.asObject(i) }

func (c *castColumn) GetColumn(i int) (Column, bool) {
	if c.src.Type() == Arr32 {
		return c.src.GetColumn(i)
	}
	return Column{}, false
}
