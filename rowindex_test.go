package datatable_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmentio/datatable-go"
	"github.com/segmentio/datatable-go/internal/quick"
)

func TestRowIndexShapes(t *testing.T) {
	tests := []struct {
		scenario string
		rowindex datatable.RowIndex
		nrows    int
		kind     datatable.RowIndexKind
		size     int
		indices  []int32
		hasNA    bool
		min, max int
		ok       bool
		str      string
	}{
		{
			scenario: "all",
			rowindex: datatable.AllRows(),
			nrows:    3,
			kind:     datatable.RowIndexAll,
			size:     3,
			indices:  []int32{0, 1, 2},
			min:      0,
			max:      2,
			ok:       true,
			str:      "RowIndex(all)",
		},
		{
			scenario: "all of nothing",
			rowindex: datatable.RowIndex{},
			nrows:    0,
			kind:     datatable.RowIndexAll,
			size:     0,
			indices:  []int32{},
			str:      "RowIndex(all)",
		},
		{
			scenario: "arithmetic",
			rowindex: datatable.NewArithmeticRowIndex(1, 3, 2),
			nrows:    10,
			kind:     datatable.RowIndexArithmetic,
			size:     3,
			indices:  []int32{1, 3, 5},
			min:      1,
			max:      5,
			ok:       true,
			str:      "RowIndex(start=1, count=3, step=2)",
		},
		{
			scenario: "arithmetic backward",
			rowindex: datatable.NewArithmeticRowIndex(6, 3, -3),
			nrows:    10,
			kind:     datatable.RowIndexArithmetic,
			size:     3,
			indices:  []int32{6, 3, 0},
			min:      0,
			max:      6,
			ok:       true,
			str:      "RowIndex(start=6, count=3, step=-3)",
		},
		{
			scenario: "arithmetic empty",
			rowindex: datatable.NewArithmeticRowIndex(4, 0, 7),
			nrows:    10,
			kind:     datatable.RowIndexArithmetic,
			size:     0,
			indices:  []int32{},
			str:      "RowIndex(start=0, count=0, step=1)",
		},
		{
			scenario: "array",
			rowindex: datatable.NewArrayRowIndex([]int32{3, datatable.NARow, 1, 3}),
			nrows:    10,
			kind:     datatable.RowIndexArray,
			size:     4,
			indices:  []int32{3, datatable.NARow, 1, 3},
			hasNA:    true,
			min:      1,
			max:      3,
			ok:       true,
			str:      "RowIndex[3, NA, 1, 3]",
		},
		{
			scenario: "array of missing rows",
			rowindex: datatable.NewArrayRowIndex([]int32{datatable.NARow}),
			nrows:    10,
			kind:     datatable.RowIndexArray,
			size:     1,
			indices:  []int32{datatable.NARow},
			hasNA:    true,
			str:      "RowIndex[NA]",
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			ri := test.rowindex
			assert.Equal(t, test.kind, ri.Kind())
			assert.Equal(t, test.kind == datatable.RowIndexAll, ri.IsAll())
			assert.Equal(t, test.size, ri.Size(test.nrows))
			assert.Equal(t, test.indices, ri.Indices(test.nrows))
			assert.Equal(t, test.hasNA, ri.HasNA())
			assert.Equal(t, test.str, ri.String())

			min, max, ok := ri.MinMax(test.nrows)
			assert.Equal(t, test.ok, ok)
			if ok {
				assert.Equal(t, test.min, min)
				assert.Equal(t, test.max, max)
			}

			for i, want := range test.indices {
				row, ok := ri.Get(i)
				assert.Equal(t, want != datatable.NARow, ok)
				if ok {
					assert.Equal(t, int(want), row)
				}
			}
		})
	}
}

func TestRowIndexNegativeRowsPanic(t *testing.T) {
	assert.Panics(t, func() { datatable.NewArithmeticRowIndex(-1, 2, 1) })
	assert.Panics(t, func() { datatable.NewArithmeticRowIndex(1, 3, -1) })
	assert.Panics(t, func() { datatable.NewArithmeticRowIndex(0, -1, 1) })
	assert.NotPanics(t, func() { datatable.NewArithmeticRowIndex(2, 3, -1) })
}

func TestRowIndexLongString(t *testing.T) {
	indices := make([]int32, 20)
	ri := datatable.NewArrayRowIndex(indices)
	assert.Equal(t, "RowIndex[0, 0, 0, 0, 0, 0, 0, 0, ... (12 more)]", ri.String())
}

func TestRowIndexCompose(t *testing.T) {
	all := datatable.AllRows()
	arith := datatable.NewArithmeticRowIndex(10, 5, 2) // 10 12 14 16 18
	array := datatable.NewArrayRowIndex([]int32{7, datatable.NARow, 3, 9})

	tests := []struct {
		scenario string
		outer    datatable.RowIndex
		inner    datatable.RowIndex
		kind     datatable.RowIndexKind
		indices  []int32
	}{
		{"all of all", all, all, datatable.RowIndexAll, []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"arithmetic of all", all, arith, datatable.RowIndexArithmetic, []int32{10, 12, 14, 16, 18}},
		{"all of arithmetic", arith, all, datatable.RowIndexArithmetic, []int32{10, 12, 14, 16, 18}},
		{
			"arithmetic of arithmetic",
			arith, datatable.NewArithmeticRowIndex(4, 3, -2),
			datatable.RowIndexArithmetic, []int32{18, 14, 10},
		},
		{
			"empty arithmetic of arithmetic",
			arith, datatable.NewArithmeticRowIndex(0, 0, 1),
			datatable.RowIndexArithmetic, []int32{},
		},
		{
			"array of arithmetic",
			arith, datatable.NewArrayRowIndex([]int32{4, datatable.NARow, 0}),
			datatable.RowIndexArray, []int32{18, datatable.NARow, 10},
		},
		{
			"arithmetic of array",
			array, datatable.NewArithmeticRowIndex(3, 2, -1),
			datatable.RowIndexArray, []int32{9, 3},
		},
		{
			"array of array",
			array, datatable.NewArrayRowIndex([]int32{1, 0, datatable.NARow, 3}),
			datatable.RowIndexArray, []int32{datatable.NARow, 7, datatable.NARow, 9},
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			ri := test.outer.Compose(test.inner)
			assert.Equal(t, test.kind, ri.Kind())
			assert.Equal(t, test.indices, ri.Indices(10))
		})
	}
}

func TestRowIndexComposeMatchesSequentialLookup(t *testing.T) {
	err := quick.Check(func(values []int32) bool {
		n := int32(len(values))
		outer := make([]int32, len(values))
		inner := make([]int32, len(values))
		for i, v := range values {
			v &= math.MaxInt32
			outer[i] = v % 1000
			inner[i] = (v / 1000) % n
		}

		ri := datatable.NewArrayRowIndex(outer).Compose(datatable.NewArrayRowIndex(inner))
		for i, j := range inner {
			row, ok := ri.Get(i)
			if !ok || row != int(outer[j]) {
				return false
			}
		}
		return true
	})
	if err != nil {
		t.Error(err)
	}
}

func TestRowIndexFromColumn(t *testing.T) {
	t.Run("bool", func(t *testing.T) {
		ri, err := datatable.RowIndexFromColumn(datatable.NewBoolColumn([]bool{false, true, true, false, true}))
		require.NoError(t, err)
		assert.Equal(t, []int32{1, 2, 4}, ri.Indices(5))
	})

	t.Run("virtual bool", func(t *testing.T) {
		c := datatable.NewBoolColumn([]bool{false, true, true})
		c.Repeat(2)
		defer c.Release()
		ri, err := datatable.RowIndexFromColumn(c)
		require.NoError(t, err)
		assert.Equal(t, []int32{1, 2, 4, 5}, ri.Indices(6))
	})

	t.Run("int", func(t *testing.T) {
		ri, err := datatable.RowIndexFromColumn(datatable.NewInt64Column([]int64{2, -1, datatable.NAInt64, 0}))
		require.NoError(t, err)
		assert.Equal(t, []int32{2, datatable.NARow, datatable.NARow, 0}, ri.Indices(3))
		assert.True(t, ri.HasNA())
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := datatable.RowIndexFromColumn(datatable.NewInt64Column([]int64{1 << 40}))
		assert.Error(t, err)
	})

	t.Run("string", func(t *testing.T) {
		_, err := datatable.RowIndexFromColumn(datatable.NewStringColumn([]string{"1"}))
		assert.Error(t, err)
	})
}
