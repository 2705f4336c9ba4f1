package datatable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmentio/datatable-go"
)

func TestRbind(t *testing.T) {
	tests := []struct {
		scenario string
		columns  func() []datatable.Column
		stype    datatable.SType
		values   []any
	}{
		{
			scenario: "same type",
			columns: func() []datatable.Column {
				return []datatable.Column{
					datatable.NewInt16Column([]int16{1, 2}),
					datatable.NewInt16Column([]int16{3}),
				}
			},
			stype:  datatable.Int16,
			values: []any{int16(1), int16(2), int16(3)},
		},
		{
			scenario: "widening",
			columns: func() []datatable.Column {
				return []datatable.Column{
					datatable.NewInt8Column([]int8{1}),
					datatable.NewInt64Column([]int64{1 << 33}),
					datatable.NewBoolColumn([]bool{true}),
				}
			},
			stype:  datatable.Int64,
			values: []any{int64(1), int64(1 << 33), int64(1)},
		},
		{
			scenario: "void contributes missing values",
			columns: func() []datatable.Column {
				return []datatable.Column{
					datatable.NewVoidColumn(2),
					datatable.NewFloat32Column([]float32{0.25}),
				}
			},
			stype:  datatable.Float32,
			values: []any{nil, nil, float32(0.25)},
		},
		{
			scenario: "strings",
			columns: func() []datatable.Column {
				return []datatable.Column{
					datatable.NewStringColumn([]string{"x"}),
					datatable.NewVoidColumn(1),
					datatable.NewStringColumn([]string{"y", "z"}),
				}
			},
			stype:  datatable.Str32,
			values: []any{"x", nil, "y", "z"},
		},
		{
			scenario: "mixed types become objects",
			columns: func() []datatable.Column {
				return []datatable.Column{
					datatable.NewStringColumn([]string{"x"}),
					datatable.NewInt32Column([]int32{5}),
				}
			},
			stype:  datatable.Obj,
			values: []any{"x", int64(5)},
		},
		{
			scenario: "only void",
			columns: func() []datatable.Column {
				return []datatable.Column{datatable.NewVoidColumn(1), datatable.NewVoidColumn(2)}
			},
			stype:  datatable.Void,
			values: []any{nil, nil, nil},
		},
		{
			scenario: "empty inputs keep their type",
			columns: func() []datatable.Column {
				return []datatable.Column{datatable.NewInt32Column(nil), datatable.NewFloat64Column(nil)}
			},
			stype:  datatable.Float64,
			values: []any{},
		},
		{
			scenario: "views",
			columns: func() []datatable.Column {
				c := datatable.NewInt32Column([]int32{1, 2, 3})
				c.ApplyRowIndex(datatable.NewArithmeticRowIndex(2, 2, -1))
				return []datatable.Column{c, datatable.NewInt32Column([]int32{4})}
			},
			stype:  datatable.Int32,
			values: []any{int32(3), int32(2), int32(4)},
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			columns := test.columns()
			defer func() {
				for i := range columns {
					columns[i].Release()
				}
			}()

			c, err := datatable.Rbind(columns...)
			require.NoError(t, err)
			defer c.Release()

			assert.Equal(t, test.stype, c.Type())
			assert.Equal(t, test.values, values(c))
			require.NoError(t, c.VerifyIntegrity())
		})
	}
}
