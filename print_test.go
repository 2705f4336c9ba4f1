package datatable_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/stretchr/testify/require"

	"github.com/segmentio/datatable-go"
)

func assertOutput(t *testing.T, want, got string) {
	t.Helper()
	if want != got {
		edits := myers.ComputeEdits(span.URIFromPath("want"), want, got)
		t.Errorf("output mismatch:\n%s", gotextdiff.ToUnified("want", "got", want, edits))
	}
}

func printFrame(t *testing.T) *datatable.Frame {
	t.Helper()
	tags := []datatable.Column{
		datatable.NewInt32Column([]int32{1, 2}),
		{},
		datatable.NewInt32Column(nil),
	}
	list, err := datatable.NewListColumn(tags)
	for i := range tags {
		tags[i].Release()
	}
	require.NoError(t, err)

	flags := datatable.NewBoolColumn([]bool{true})
	flags.Repeat(3)

	f, err := datatable.NewFrame([]string{"id", "name", "tags", "flag"},
		datatable.NewInt64Column([]int64{1, 2, 3}),
		datatable.NewStringColumn([]string{"a", "bc", "d"}),
		list,
		flags,
	)
	require.NoError(t, err)
	return f
}

func TestPrint(t *testing.T) {
	f := printFrame(t)
	defer f.Release()

	name := f.Column(1).Clone()
	require.NoError(t, name.ReplaceValues(datatable.NewArrayRowIndex([]int32{1}), datatable.NewVoidColumn(1)))
	f2, err := datatable.NewFrame(f.Names(), f.Column(0).Clone(), name, f.Column(2).Clone(), f.Column(3).Clone())
	require.NoError(t, err)
	defer f2.Release()

	tests := []struct {
		scenario string
		maxRows  int
		print    string
	}{
		{
			scenario: "all rows",
			maxRows:  -1,
			print: `+----+------+--------+------+
| id | name |  tags  | flag |
+----+------+--------+------+
|  1 |    a | [1, 2] | True |
|  2 |   NA |     NA | True |
|  3 |    d |     [] | True |
+----+------+--------+------+
`,
		},
		{
			scenario: "truncated",
			maxRows:  1,
			print: `+----+------+--------+------+
| id | name |  tags  | flag |
+----+------+--------+------+
|  1 |    a | [1, 2] | True |
+----+------+--------+------+
[3 rows x 4 columns]
`,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			buf := new(strings.Builder)
			require.NoError(t, f2.Print(buf, test.maxRows))
			assertOutput(t, test.print, buf.String())
		})
	}
}

func TestPrintSchema(t *testing.T) {
	f := printFrame(t)
	defer f.Release()

	buf := new(strings.Builder)
	require.NoError(t, datatable.PrintSchema(buf, f))
	assertOutput(t, `frame [3 rows] {
	int64 id;
	str32 name;
	arr32 tags {
		int32;
	}
	bool8 flag;
}`, buf.String())
}

func TestPrintSchemaIndent(t *testing.T) {
	f, err := datatable.NewFrame(nil, datatable.NewVoidColumn(2))
	require.NoError(t, err)
	defer f.Release()

	buf := new(strings.Builder)
	require.NoError(t, datatable.PrintSchemaIndent(buf, f, "", " "))
	assertOutput(t, "frame [2 rows] { void virtual C0; }", buf.String())
}

func ExamplePrint() {
	f, _ := datatable.NewFrame([]string{"x", "y"},
		datatable.NewFloat64Column([]float64{0.5, -1}),
		datatable.NewInt8Column([]int8{datatable.NAInt8, 4}),
	)
	defer f.Release()

	if err := datatable.Print(stdout{}, f); err != nil {
		fmt.Println(err)
	}
	// Output:
	// +-----+----+
	// |  x  | y  |
	// +-----+----+
	// | 0.5 | NA |
	// |  -1 |  4 |
	// +-----+----+
}

type stdout struct{}

func (stdout) Write(b []byte) (int, error) {
	fmt.Print(string(b))
	return len(b), nil
}
