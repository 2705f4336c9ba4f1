package datatable

import (
	"fmt"
	"strings"
)

// NumericArray is the interface of n-dimensional arrays that can be used as
// row selectors. Only one-dimensional arrays of booleans or integers select
// rows; two-dimensional arrays with one axis of length 1 are flattened with
// Reshape first.
type NumericArray interface {
	// Shape returns the length of each dimension of the array.
	Shape() []int
	// DType returns the name of the element type, such as "bool", "int32"
	// or "float64".
	DType() string
	// Reshape returns the array flattened to a single dimension of n
	// elements.
	Reshape(n int) (NumericArray, error)
	// ToFrame converts a one-dimensional array to a frame of one column.
	ToFrame() (*Frame, error)
}

type arrayValue interface {
	bool | int64 | float64
}

// array is the NumericArray implementation holding Go slices.
type array[T arrayValue] struct {
	values []T
	shape  []int
	dtype  string
	column func([]T) Column
}

// NewBoolArray returns an array of booleans of the given shape. The shape
// defaults to a single dimension. The function panics if the shape does not
// match the number of values.
func NewBoolArray(values []bool, shape ...int) NumericArray {
	return newArray(values, shape, "bool", NewBoolColumn)
}

// NewIntArray returns an array of integers of the given shape.
func NewIntArray(values []int64, shape ...int) NumericArray {
	return newArray(values, shape, "int64", NewInt64Column)
}

// NewFloatArray returns an array of reals of the given shape. Such arrays
// are not valid row selectors.
func NewFloatArray(values []float64, shape ...int) NumericArray {
	return newArray(values, shape, "float64", NewFloat64Column)
}

func newArray[T arrayValue](values []T, shape []int, dtype string, column func([]T) Column) *array[T] {
	if len(shape) == 0 {
		shape = []int{len(values)}
	}
	size := 1
	for _, dim := range shape {
		size *= dim
	}
	if size != len(values) {
		panic(fmt.Sprintf("datatable: array of %d values cannot have shape %s", len(values), formatShape(shape)))
	}
	return &array[T]{values: values, shape: shape, dtype: dtype, column: column}
}

func (a *array[T]) Shape() []int  { return a.shape }
func (a *array[T]) DType() string { return a.dtype }

func (a *array[T]) Reshape(n int) (NumericArray, error) {
	if n != len(a.values) {
		return nil, fmt.Errorf("cannot reshape array of shape %s to (%d,)", formatShape(a.shape), n)
	}
	return &array[T]{values: a.values, shape: []int{n}, dtype: a.dtype, column: a.column}, nil
}

func (a *array[T]) ToFrame() (*Frame, error) {
	if len(a.shape) != 1 {
		return nil, fmt.Errorf("cannot convert array of shape %s to a frame", formatShape(a.shape))
	}
	return NewFrame(nil, a.column(a.values))
}

func (a *array[T]) String() string {
	return fmt.Sprintf("array(shape=%s, dtype=%s)", formatShape(a.shape), a.dtype)
}

func formatShape(shape []int) string {
	s := new(strings.Builder)
	s.WriteByte('(')
	for i, dim := range shape {
		if i != 0 {
			s.WriteString(", ")
		}
		fmt.Fprintf(s, "%d", dim)
	}
	if len(shape) == 1 {
		s.WriteByte(',')
	}
	s.WriteByte(')')
	return s.String()
}
