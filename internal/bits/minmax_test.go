package bits_test

import (
	"math"
	"testing"

	"github.com/segmentio/datatable-go/internal/bits"
	"github.com/segmentio/datatable-go/internal/quick"
)

func TestMinMaxBool(t *testing.T) {
	err := quick.Check(func(values []bool) bool {
		min := len(values) > 0
		max := false
		for _, v := range values {
			if v {
				max = true
			} else {
				min = false
			}
		}
		minValue, maxValue := bits.MinMaxBool(values)
		return min == minValue && max == maxValue
	})
	if err != nil {
		t.Error(err)
	}
}

func TestMinMaxInt32(t *testing.T) {
	err := quick.Check(func(values []int32) bool {
		min := int32(0)
		max := int32(0)
		if len(values) > 0 {
			min = values[0]
			max = values[0]
			for _, v := range values[1:] {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
		}
		minValue, maxValue := bits.MinMax(values)
		return min == minValue && max == maxValue
	})
	if err != nil {
		t.Error(err)
	}
}

func TestMinMaxSkipInt8(t *testing.T) {
	const na = math.MinInt8

	err := quick.Check(func(values []int8) bool {
		min, max, skipped := int8(0), int8(0), 0
		seen := false
		for _, v := range values {
			if v == na {
				skipped++
				continue
			}
			if !seen || v < min {
				min = v
			}
			if !seen || v > max {
				max = v
			}
			seen = true
		}
		minValue, maxValue, n := bits.MinMaxSkip(values, na)
		return min == minValue && max == maxValue && skipped == n
	})
	if err != nil {
		t.Error(err)
	}
}

func TestMinMaxSkipAllMissing(t *testing.T) {
	values := []int64{math.MinInt64, math.MinInt64}
	min, max, skipped := bits.MinMaxSkip(values, math.MinInt64)
	if min != 0 || max != 0 || skipped != 2 {
		t.Errorf("wrong result: min=%d max=%d skipped=%d", min, max, skipped)
	}
}

func TestMinMaxFloat(t *testing.T) {
	values := []float64{math.NaN(), 2.5, -1, math.NaN(), 7}
	min, max, skipped := bits.MinMaxFloat(values)
	if min != -1 || max != 7 || skipped != 2 {
		t.Errorf("wrong result: min=%g max=%g skipped=%d", min, max, skipped)
	}
}

func TestIndexEqual(t *testing.T) {
	data := []int8{1, 0, 1, math.MinInt8, 1}
	got := bits.IndexEqual(nil, data, 1, 10)
	want := []int32{10, 12, 14}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: want=%d got=%d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("wrong index at %d: want=%d got=%d", i, want[i], got[i])
		}
	}
	if n := bits.CountEqual(data, 1); n != 3 {
		t.Errorf("wrong count: want=3 got=%d", n)
	}
}
