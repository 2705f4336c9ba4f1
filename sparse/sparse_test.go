package sparse_test

import (
	"fmt"
	"testing"

	"github.com/segmentio/datatable-go/sparse"
)

func ExampleGather() {
	src := []int64{10, 11, 12, 13, 14}
	dst := make([]int64, 4)

	n := sparse.Gather(dst, src, []int32{4, sparse.Missing, 0, 0}, -1)

	for i, v := range dst[:n] {
		fmt.Printf("dst[%d] = %d\n", i, v)
	}

	// Output:
	// dst[0] = 14
	// dst[1] = -1
	// dst[2] = 10
	// dst[3] = 10
}

func TestGatherStride(t *testing.T) {
	src := []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		scenario    string
		start, step int
		count       int
		want        []float32
	}{
		{scenario: "forward", start: 1, step: 3, count: 3, want: []float32{1, 4, 7}},
		{scenario: "contiguous", start: 2, step: 1, count: 4, want: []float32{2, 3, 4, 5}},
		{scenario: "backward", start: 9, step: -2, count: 5, want: []float32{9, 7, 5, 3, 1}},
		{scenario: "empty", start: 0, step: 1, count: 0, want: []float32{}},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			dst := make([]float32, test.count)
			n := sparse.GatherStride(dst, src, test.start, test.step)
			if n != test.count {
				t.Fatalf("wrong count: want=%d got=%d", test.count, n)
			}
			for i := range test.want {
				if dst[i] != test.want[i] {
					t.Errorf("dst[%d]: want=%v got=%v", i, test.want[i], dst[i])
				}
			}
		})
	}
}

func TestScatter(t *testing.T) {
	dst := []string{"a", "b", "c", "d"}
	n := sparse.Scatter(dst, []string{"x", "y", "z"}, []int32{3, sparse.Missing, 0})
	if n != 3 {
		t.Fatalf("wrong count: %d", n)
	}
	want := []string{"z", "b", "c", "x"}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d]: want=%q got=%q", i, want[i], dst[i])
		}
	}
}
