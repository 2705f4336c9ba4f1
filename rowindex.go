package datatable

import (
	"fmt"
	"math"
	"strings"

	"github.com/segmentio/datatable-go/internal/bits"
	"github.com/segmentio/datatable-go/sparse"
)

// NARow is the index stored in array row indexes for rows that must read as
// missing values.
const NARow = sparse.Missing

// RowIndexKind enumerates the representations of RowIndex values.
type RowIndexKind uint8

const (
	// RowIndexAll selects every row of the source, in order.
	RowIndexAll RowIndexKind = iota
	// RowIndexArithmetic selects count rows starting at start and separated
	// by step, which may be zero or negative.
	RowIndexArithmetic
	// RowIndexArray selects rows from an explicit list of indices.
	RowIndexArray
)

func (k RowIndexKind) String() string {
	switch k {
	case RowIndexAll:
		return "all"
	case RowIndexArithmetic:
		return "arithmetic"
	case RowIndexArray:
		return "array"
	default:
		return fmt.Sprintf("rowindexkind(%d)", uint8(k))
	}
}

// RowIndex is an immutable mapping from output row positions to source row
// positions. The zero value selects all rows.
type RowIndex struct {
	kind    RowIndexKind
	start   int
	count   int
	step    int
	indices []int32
}

// AllRows returns the row index selecting every row.
func AllRows() RowIndex { return RowIndex{} }

// NewArithmeticRowIndex returns an arithmetic row index of count rows starting at
// start and separated by step. The function panics if any of the selected
// rows would be negative.
func NewArithmeticRowIndex(start, count, step int) RowIndex {
	if count < 0 {
		panic(fmt.Sprintf("datatable: negative row index count: %d", count))
	}
	if count == 0 {
		return RowIndex{kind: RowIndexArithmetic, step: 1}
	}
	if start < 0 || start+(count-1)*step < 0 {
		panic(fmt.Sprintf("datatable: row index range(%d, %d, %d) selects negative rows", start, count, step))
	}
	if count == 1 {
		step = 1
	}
	return RowIndex{kind: RowIndexArithmetic, start: start, count: count, step: step}
}

// NewArrayRowIndex returns a row index selecting the rows at the given
// indices. Indices equal to NARow produce missing values. The row index
// retains the slice, the caller must not modify it afterwards.
func NewArrayRowIndex(indices []int32) RowIndex {
	if indices == nil {
		indices = []int32{}
	}
	return RowIndex{kind: RowIndexArray, indices: indices}
}

// Kind returns the representation of ri.
func (ri RowIndex) Kind() RowIndexKind { return ri.kind }

// IsAll reports whether ri selects all rows.
func (ri RowIndex) IsAll() bool { return ri.kind == RowIndexAll }

// Slice returns the start, count and step of arithmetic row indexes.
func (ri RowIndex) Slice() (start, count, step int) { return ri.start, ri.count, ri.step }

// Array returns the indices of array row indexes. The slice is shared with
// ri and must not be modified.
func (ri RowIndex) Array() []int32 { return ri.indices }

// Size returns the number of rows selected by ri from a source of nrows rows.
func (ri RowIndex) Size(nrows int) int {
	switch ri.kind {
	case RowIndexArithmetic:
		return ri.count
	case RowIndexArray:
		return len(ri.indices)
	default:
		return nrows
	}
}

// Get returns the source row of output row i, and false if the row is
// missing.
func (ri RowIndex) Get(i int) (int, bool) {
	switch ri.kind {
	case RowIndexArithmetic:
		return ri.start + i*ri.step, true
	case RowIndexArray:
		j := ri.indices[i]
		return int(j), j != NARow
	default:
		return i, true
	}
}

// HasNA reports whether ri maps some output rows to missing values.
func (ri RowIndex) HasNA() bool {
	return ri.kind == RowIndexArray && bits.CountEqual(ri.indices, NARow) != 0
}

// MinMax returns the smallest and largest source rows referenced by ri,
// ignoring missing rows. The last return value is false when ri references
// no rows.
func (ri RowIndex) MinMax(nrows int) (min, max int, ok bool) {
	switch ri.kind {
	case RowIndexArithmetic:
		if ri.count == 0 {
			return 0, 0, false
		}
		first, last := ri.start, ri.start+(ri.count-1)*ri.step
		if first > last {
			first, last = last, first
		}
		return first, last, true
	case RowIndexArray:
		lo, hi, skipped := bits.MinMaxSkip(ri.indices, NARow)
		if skipped == len(ri.indices) {
			return 0, 0, false
		}
		return int(lo), int(hi), true
	default:
		if nrows == 0 {
			return 0, 0, false
		}
		return 0, nrows - 1, true
	}
}

// Indices returns the source rows selected by ri as a slice of int32. For
// array row indexes the returned slice is shared with ri.
func (ri RowIndex) Indices(nrows int) []int32 {
	switch ri.kind {
	case RowIndexArray:
		return ri.indices
	default:
		start, count, step := ri.start, ri.count, ri.step
		if ri.kind == RowIndexAll {
			start, count, step = 0, nrows, 1
		}
		indices := make([]int32, count)
		for i := range indices {
			indices[i] = int32(start + i*step)
		}
		return indices
	}
}

// Compose returns the row index equivalent to applying inner to the rows
// selected by ri: output row i reads source row ri[inner[i]].
func (ri RowIndex) Compose(inner RowIndex) RowIndex {
	switch {
	case ri.kind == RowIndexAll:
		return inner
	case inner.kind == RowIndexAll:
		return ri
	}

	switch ri.kind {
	case RowIndexArithmetic:
		if inner.kind == RowIndexArithmetic {
			if inner.count == 0 {
				return NewArithmeticRowIndex(0, 0, 1)
			}
			return RowIndex{
				kind:  RowIndexArithmetic,
				start: ri.start + inner.start*ri.step,
				count: inner.count,
				step:  ri.step * inner.step,
			}
		}
		indices := make([]int32, len(inner.indices))
		for i, j := range inner.indices {
			if j == NARow {
				indices[i] = NARow
			} else {
				indices[i] = int32(ri.start + int(j)*ri.step)
			}
		}
		return NewArrayRowIndex(indices)

	default:
		if inner.kind == RowIndexArithmetic {
			indices := make([]int32, inner.count)
			sparse.GatherStride(indices, ri.indices, inner.start, inner.step)
			return NewArrayRowIndex(indices)
		}
		indices := make([]int32, len(inner.indices))
		sparse.Gather(indices, ri.indices, inner.indices, NARow)
		return NewArrayRowIndex(indices)
	}
}

func (ri RowIndex) String() string {
	switch ri.kind {
	case RowIndexArithmetic:
		return fmt.Sprintf("RowIndex(start=%d, count=%d, step=%d)", ri.start, ri.count, ri.step)
	case RowIndexArray:
		s := new(strings.Builder)
		s.WriteString("RowIndex[")
		for i, j := range ri.indices {
			if i != 0 {
				s.WriteString(", ")
			}
			if i == 8 && len(ri.indices) > 10 {
				fmt.Fprintf(s, "... (%d more)", len(ri.indices)-i)
				break
			}
			if j == NARow {
				s.WriteString("NA")
			} else {
				fmt.Fprintf(s, "%d", j)
			}
		}
		s.WriteString("]")
		return s.String()
	default:
		return "RowIndex(all)"
	}
}

// RowIndexFromColumn builds a row index from a boolean mask or an integer
// column. Boolean columns select the rows where the mask is true; integer
// columns list the source rows to select, missing values producing missing
// rows.
func RowIndexFromColumn(col Column) (RowIndex, error) {
	nrows := col.NRows()
	if nrows > math.MaxInt32 {
		return RowIndex{}, fmt.Errorf("column of %d rows is too large to build a row index", nrows)
	}

	switch t := col.Type(); {
	case t == Bool:
		if data, ok := fixedData[int8](col); ok {
			return NewArrayRowIndex(bits.IndexEqual(nil, data, 1, 0)), nil
		}
		indices := make([]int32, 0, nrows)
		for i := 0; i < nrows; i++ {
			if v, ok := col.GetBool(i); ok && v {
				indices = append(indices, int32(i))
			}
		}
		return NewArrayRowIndex(indices), nil

	case t.IsInteger():
		indices := make([]int32, nrows)
		for i := range indices {
			v, ok := col.intValue(i)
			switch {
			case !ok:
				indices[i] = NARow
			case v < NARow || v > math.MaxInt32:
				return RowIndex{}, fmt.Errorf("row %d out of bounds at index %d", v, i)
			default:
				indices[i] = int32(v)
			}
		}
		return NewArrayRowIndex(indices), nil

	default:
		return RowIndex{}, fmt.Errorf("cannot build a row index from a column of type %s", t)
	}
}
