package datatable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmentio/datatable-go"
)

func TestNewFrame(t *testing.T) {
	a := datatable.NewInt8Column([]int8{1, 2})
	defer a.Release()
	b := datatable.NewInt8Column([]int8{1})
	defer b.Release()

	tests := []struct {
		scenario string
		names    []string
		columns  []datatable.Column
		err      string
	}{
		{
			scenario: "row count mismatch",
			names:    []string{"a", "b"},
			columns:  []datatable.Column{a, b},
			err:      `column "b" has 1 rows, expected 2`,
		},
		{
			scenario: "duplicate names",
			names:    []string{"a", "a"},
			columns:  []datatable.Column{a, a},
			err:      `duplicate column name "a"`,
		},
		{
			scenario: "name count mismatch",
			names:    []string{"a"},
			columns:  []datatable.Column{a, a},
			err:      "frame of 2 columns cannot have 1 names",
		},
		{
			scenario: "empty handle",
			names:    []string{"a", "z"},
			columns:  []datatable.Column{a, {}},
			err:      `column "z" is empty`,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			_, err := datatable.NewFrame(test.names, test.columns...)
			assert.EqualError(t, err, test.err)
		})
	}
}

func TestFrameColumns(t *testing.T) {
	f, err := datatable.NewFrame(nil,
		datatable.NewInt32Column([]int32{1, 2, 3}),
		datatable.NewStringColumn([]string{"x", "y", "z"}),
	)
	require.NoError(t, err)
	defer f.Release()

	assert.Equal(t, 3, f.NRows())
	assert.Equal(t, 2, f.NCols())
	assert.Equal(t, []string{"C0", "C1"}, f.Names())

	c, ok := f.ColumnByName("C1")
	require.True(t, ok)
	assert.Equal(t, datatable.Str32, c.Type())

	_, ok = f.ColumnByName("C2")
	assert.False(t, ok)
}

func TestFrameApplyRowIndex(t *testing.T) {
	f := sequenceFrame(t, 10)
	defer f.Release()

	g := f.ApplyRowIndex(datatable.NewArrayRowIndex([]int32{9, datatable.NARow, 0}))
	defer g.Release()

	assert.Equal(t, 3, g.NRows())
	assert.Equal(t, []any{int64(9), nil, int64(0)}, values(g.Column(0)))
	assert.Equal(t, 10, f.NRows())
	assert.Equal(t, 2, f.Column(0).RefCount())

	require.NoError(t, g.Materialize(true))
	assert.False(t, g.Column(0).IsVirtual())
	assert.Equal(t, 1, f.Column(0).RefCount())
}

func TestFrameMaterializeParallel(t *testing.T) {
	const nrows = 5000
	columns := make([]datatable.Column, 6)
	for i := range columns {
		c := datatable.NewStringColumn([]string{"even", "odd"})
		c.Repeat(nrows / 2)
		columns[i] = c
	}

	f, err := datatable.NewFrame(nil, columns...)
	require.NoError(t, err)
	defer f.Release()

	require.NoError(t, f.Materialize(true, datatable.Parallelism(3), datatable.ParallelChunkSize(128)))

	for i := 0; i < f.NCols(); i++ {
		c := f.Column(i)
		require.False(t, c.IsVirtual())
		require.NoError(t, c.VerifyIntegrity())
		for _, j := range []int{0, 1, 127, 128, 4999} {
			s, ok := c.GetString(j)
			require.True(t, ok)
			assert.Equal(t, []string{"even", "odd"}[j%2], string(s))
		}
	}
}
