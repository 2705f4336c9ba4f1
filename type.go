package datatable

import (
	"fmt"
	"math"
)

// SType is the storage type of a column: it determines how the values of
// the column are laid out in memory.
type SType uint8

const (
	Void SType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	Str32
	Str64
	Arr32
	Obj
)

// LType is the logical type of a column. Several storage types may share the
// same logical type, for example Int8 and Int64 are both LTypeInt.
type LType uint8

const (
	LTypeVoid LType = iota
	LTypeBool
	LTypeInt
	LTypeReal
	LTypeString
	LTypeList
	LTypeObject
)

// Inline sentinels marking missing values in fixed-width buffers.
const (
	NABool  int8  = math.MinInt8
	NAInt8  int8  = math.MinInt8
	NAInt16 int16 = math.MinInt16
	NAInt32 int32 = math.MinInt32
	NAInt64 int64 = math.MinInt64
)

var (
	// NAFloat32 and NAFloat64 are the NaN values written in floating point
	// buffers for missing values. Any NaN is read back as missing.
	NAFloat32 = float32(math.NaN())
	NAFloat64 = math.NaN()
)

var stypeNames = [...]string{
	Void:    "void",
	Bool:    "bool8",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
	Str32:   "str32",
	Str64:   "str64",
	Arr32:   "arr32",
	Obj:     "obj64",
}

var stypeSizes = [...]int{
	Void:    0,
	Bool:    1,
	Int8:    1,
	Int16:   2,
	Int32:   4,
	Int64:   8,
	Float32: 4,
	Float64: 8,
	Str32:   4,
	Str64:   8,
	Arr32:   4,
	Obj:     8,
}

var stypeLTypes = [...]LType{
	Void:    LTypeVoid,
	Bool:    LTypeBool,
	Int8:    LTypeInt,
	Int16:   LTypeInt,
	Int32:   LTypeInt,
	Int64:   LTypeInt,
	Float32: LTypeReal,
	Float64: LTypeReal,
	Str32:   LTypeString,
	Str64:   LTypeString,
	Arr32:   LTypeList,
	Obj:     LTypeObject,
}

func (t SType) String() string {
	if int(t) < len(stypeNames) {
		return stypeNames[t]
	}
	return fmt.Sprintf("stype(%d)", uint8(t))
}

// LType returns the logical type that t belongs to.
func (t SType) LType() LType {
	if int(t) < len(stypeLTypes) {
		return stypeLTypes[t]
	}
	return LTypeVoid
}

// ElemSize returns the size in bytes of one element of the main data buffer
// of columns of type t. For string and list types this is the size of one
// offset.
func (t SType) ElemSize() int {
	if int(t) < len(stypeSizes) {
		return stypeSizes[t]
	}
	return 0
}

// IsFixedWidth reports whether columns of type t keep their values in a
// single dense buffer of ElemSize bytes per row.
func (t SType) IsFixedWidth() bool { return t >= Bool && t <= Float64 }

// IsInteger reports whether t is one of the integer storage types.
func (t SType) IsInteger() bool { return t.LType() == LTypeInt }

// IsString reports whether t is one of the string storage types.
func (t SType) IsString() bool { return t == Str32 || t == Str64 }

func (t LType) String() string {
	switch t {
	case LTypeVoid:
		return "void"
	case LTypeBool:
		return "bool"
	case LTypeInt:
		return "int"
	case LTypeReal:
		return "real"
	case LTypeString:
		return "str"
	case LTypeList:
		return "list"
	case LTypeObject:
		return "obj"
	default:
		return fmt.Sprintf("ltype(%d)", uint8(t))
	}
}

// NAStorage describes how missing values are encoded by a column
// representation.
type NAStorage uint8

const (
	// NANone means the representation cannot hold missing values.
	NANone NAStorage = iota
	// NASentinel means missing values are stored inline as a reserved value
	// of the data buffer.
	NASentinel
	// NAValidity means missing values are recorded in a validity structure
	// held outside of the data buffers.
	NAValidity
	// NAVirtual means the values, missing or not, are computed on demand.
	NAVirtual
)

func (s NAStorage) String() string {
	switch s {
	case NANone:
		return "none"
	case NASentinel:
		return "sentinel"
	case NAValidity:
		return "validity"
	case NAVirtual:
		return "virtual"
	default:
		return fmt.Sprintf("nastorage(%d)", uint8(s))
	}
}

// commonType returns the storage type able to hold the values of both t1
// and t2, used when concatenating columns.
func commonType(t1, t2 SType) SType {
	switch {
	case t1 == t2:
		return t1
	case t1 == Void:
		return t2
	case t2 == Void:
		return t1
	case t1 == Obj || t2 == Obj:
		return Obj
	case t1.IsString() && t2.IsString():
		return Str64
	case t1.IsFixedWidth() && t2.IsFixedWidth():
		return max(t1, t2)
	default:
		return Obj
	}
}
