package datatable

import (
	"fmt"
	"math"
	"reflect"
)

// Slice is a row selector with the semantics of Python slices: bounds that
// fall outside of the frame are clipped. Nil fields are omitted bounds, other
// values must be integers for the slice to be usable as a selector.
//
// A zero step is allowed when both Start and Stop are given and Stop is not
// negative: the slice then selects row Start repeated Stop times.
type Slice struct {
	Start any
	Stop  any
	Step  any
}

// Range is a row selector with the semantics of Python ranges: unlike slices,
// a range which does not fit in the frame is an error.
type Range struct {
	Start int64
	Stop  int64
	Step  int64
}

// Len returns the number of integers in r, which is zero for empty ranges.
// Ranges of more than math.MaxInt64 integers report math.MaxInt64.
func (r Range) Len() int64 {
	n := r.count()
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

func (r Range) count() uint64 {
	switch {
	case r.Step > 0 && r.Stop > r.Start:
		return stepCount(uint64(r.Stop)-uint64(r.Start), uint64(r.Step))
	case r.Step < 0 && r.Stop < r.Start:
		return stepCount(uint64(r.Start)-uint64(r.Stop), -uint64(r.Step))
	default:
		return 0
	}
}

// stepCount returns the number of multiples of step in [0, span), where
// span > 0. Both are magnitudes, so steps of any int64 fit.
func stepCount(span, step uint64) uint64 {
	return (span-1)/step + 1
}

func (r Range) String() string {
	return fmt.Sprintf("range(%d, %d, %d)", r.Start, r.Stop, r.Step)
}

type ellipsis struct{}

func (ellipsis) String() string { return "..." }

// Ellipsis selects all rows, like a nil selector.
var Ellipsis ellipsis

// sliceBounds holds the integer bounds of a Slice. Omitted bounds have their
// has flag unset, any int64 value being a valid bound.
type sliceBounds struct {
	start, stop, step          int64
	hasStart, hasStop, hasStep bool
}

// stepOrDefault returns the step of b, 1 when omitted.
func (b sliceBounds) stepOrDefault() int64 {
	if b.hasStep {
		return b.step
	}
	return 1
}

// isRepeat reports whether b has an explicit zero step.
func (b sliceBounds) isRepeat() bool { return b.hasStep && b.step == 0 }

// validRepeat reports whether a zero-step slice has both bounds, with a
// non-negative stop.
func (b sliceBounds) validRepeat() bool { return b.hasStart && b.hasStop && b.stop >= 0 }

func (s Slice) String() string {
	bound := func(v any) string {
		if v == nil {
			return "None"
		}
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("slice(%s, %s, %s)", bound(s.Start), bound(s.Stop), bound(s.Step))
}

// isTrivial reports whether s selects all rows, as ":" does.
func (s Slice) isTrivial() bool {
	if s.Start != nil || s.Stop != nil {
		return false
	}
	if s.Step == nil {
		return true
	}
	step, ok, _ := toInt64(s.Step)
	return ok && step == 1
}

// bounds returns the integer bounds of s. The second return value is false
// if any bound is neither nil nor an integer.
func (s Slice) bounds() (b sliceBounds, numeric bool) {
	convert := func(v any, bound *int64, has *bool) bool {
		if v == nil {
			return true
		}
		i, ok, inRange := toInt64(v)
		*bound, *has = i, true
		return ok && inRange
	}
	numeric = convert(s.Start, &b.start, &b.hasStart)
	numeric = convert(s.Stop, &b.stop, &b.hasStop) && numeric
	numeric = convert(s.Step, &b.step, &b.hasStep) && numeric
	return b, numeric
}

// normalizeSlice resolves b against a frame of nrows rows, clipping the
// bounds to the valid range. The step of b must not be zero. The count is
// computed on unsigned magnitudes so that no step overflows it.
func normalizeSlice(nrows int64, b sliceBounds) (start, count, step int64) {
	step = b.stepOrDefault()
	if step > 0 {
		start = clipBound(b.start, b.hasStart, nrows, 0, 0, nrows)
		stop := clipBound(b.stop, b.hasStop, nrows, nrows, 0, nrows)
		if stop <= start {
			return 0, 0, 1
		}
		count = int64(stepCount(uint64(stop-start), uint64(step)))
	} else {
		start = clipBound(b.start, b.hasStart, nrows, nrows-1, -1, nrows-1)
		stop := clipBound(b.stop, b.hasStop, nrows, -1, -1, nrows-1)
		if start <= stop {
			return 0, 0, 1
		}
		count = int64(stepCount(uint64(start-stop), -uint64(step)))
	}
	if count == 1 {
		step = 1
	}
	return start, count, step
}

func clipBound(v int64, has bool, nrows, omitted, lo, hi int64) int64 {
	switch {
	case !has:
		return omitted
	case v < 0:
		v += nrows
	}
	return max(lo, min(v, hi))
}

// normalizeRange resolves r against a frame of nrows rows. The last return
// value is false when some of the rows of r fall outside of the frame, or
// when the first and last rows do not have the same sign. Negative rows are
// counted from the end of the frame.
func normalizeRange(nrows int64, r Range) (start, count, step int64, ok bool) {
	n := r.count()
	if n == 0 {
		return 0, 0, 1, true
	}
	// The integers of r are distinct, so more of them than rows cannot fit.
	if n > uint64(nrows) {
		return 0, 0, 0, false
	}
	count = int64(n)
	// The last integer lies between Start and Stop, wrapping arithmetic
	// computes it exactly.
	first, last := r.Start, r.Start+(count-1)*r.Step
	if (first < 0) != (last < 0) {
		return 0, 0, 0, false
	}
	if first < 0 {
		first += nrows
		last += nrows
	}
	if first < 0 || first >= nrows || last < 0 || last >= nrows {
		return 0, 0, 0, false
	}
	if count == 1 {
		return first, 1, 1, true
	}
	return first, count, r.Step, true
}

// toInt64 converts Go integers to int64. The second return value reports
// whether v is an integer, the third whether it fits in an int64. Booleans
// are not integers.
func toInt64(v any) (int64, bool, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true, true
	case int64:
		return x, true, true
	case int32:
		return int64(x), true, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, true, false
		}
		return int64(u), true, true
	default:
		return 0, false, false
	}
}

func pluralRows[T int64 | uint64](n T) string {
	if n == 1 {
		return "1 row"
	}
	return fmt.Sprintf("%d rows", n)
}
