package datatable

import (
	"math"

	"github.com/segmentio/datatable-go/internal/bits"
)

// Stats holds statistics computed over the values of a column.
//
// Statistics are computed once and cached by the column representation.
// Operations producing new values discard them; operations for which the
// statistics can be derived cheaply (such as repeating a column) carry them
// over.
type Stats struct {
	NACount int
	// HasMinMax is true when the column is of a boolean, integer or real type
	// and holds at least one value which is not missing.
	HasMinMax bool
	// Bounds of boolean and integer columns.
	MinInt int64
	MaxInt int64
	// Bounds of real columns.
	MinFloat float64
	MaxFloat float64
}

// Stats returns the statistics of c, computing them on first use.
func (c Column) Stats() *Stats {
	return c.impl.columnBase().cachedStats(func() *Stats { return computeStats(c) })
}

// NACount returns the number of missing values in c.
func (c Column) NACount() int { return c.Stats().NACount }

func computeStats(c Column) *Stats {
	t := c.Type()
	switch {
	case t == Bool || t == Int8:
		if data, ok := fixedData[int8](c); ok {
			return intStats(data, NAInt8)
		}
	case t == Int16:
		if data, ok := fixedData[int16](c); ok {
			return intStats(data, NAInt16)
		}
	case t == Int32:
		if data, ok := fixedData[int32](c); ok {
			return intStats(data, NAInt32)
		}
	case t == Int64:
		if data, ok := fixedData[int64](c); ok {
			return intStats(data, NAInt64)
		}
	case t == Float32:
		if data, ok := fixedData[float32](c); ok {
			return floatStats(data)
		}
	case t == Float64:
		if data, ok := fixedData[float64](c); ok {
			return floatStats(data)
		}
	case t.IsString():
		if s, ok := c.impl.(*stringColumn); ok {
			return &Stats{NACount: s.naCount()}
		}
	}
	return scanStats(c)
}

func intStats[T bits.Integer](data []T, na T) *Stats {
	lo, hi, skipped := bits.MinMaxSkip(data, na)
	return &Stats{
		NACount:   skipped,
		HasMinMax: skipped < len(data),
		MinInt:    int64(lo),
		MaxInt:    int64(hi),
	}
}

func floatStats[T bits.Float](data []T) *Stats {
	lo, hi, skipped := bits.MinMaxFloat(data)
	return &Stats{
		NACount:   skipped,
		HasMinMax: skipped < len(data),
		MinFloat:  float64(lo),
		MaxFloat:  float64(hi),
	}
}

// scanStats computes the statistics of virtual columns through the element
// getters.
func scanStats(c Column) *Stats {
	s := new(Stats)
	n := c.NRows()

	switch c.LType() {
	case LTypeBool, LTypeInt:
		s.MinInt, s.MaxInt = math.MaxInt64, math.MinInt64
		for i := 0; i < n; i++ {
			v, ok := c.intValue(i)
			if !ok {
				s.NACount++
				continue
			}
			s.MinInt = min(s.MinInt, v)
			s.MaxInt = max(s.MaxInt, v)
		}
		s.HasMinMax = s.NACount < n
		if !s.HasMinMax {
			s.MinInt, s.MaxInt = 0, 0
		}

	case LTypeReal:
		s.MinFloat, s.MaxFloat = math.Inf(+1), math.Inf(-1)
		for i := 0; i < n; i++ {
			v, ok := c.floatValue(i)
			if !ok {
				s.NACount++
				continue
			}
			s.MinFloat = math.Min(s.MinFloat, v)
			s.MaxFloat = math.Max(s.MaxFloat, v)
		}
		s.HasMinMax = s.NACount < n
		if !s.HasMinMax {
			s.MinFloat, s.MaxFloat = 0, 0
		}

	default:
		for i := 0; i < n; i++ {
			if _, ok := c.Value(i); !ok {
				s.NACount++
			}
		}
	}
	return s
}

// repeatStats derives the statistics of a column repeated ntimes from the
// statistics of the source, if they were already computed.
func repeatStats(src *ColumnBase, ntimes int) *Stats {
	s := src.peekStats()
	if s == nil {
		return nil
	}
	r := *s
	r.NACount *= ntimes
	if ntimes == 0 {
		r = Stats{}
	}
	return &r
}

// padStats derives the statistics of a column padded with missing values.
func padStats(src *ColumnBase, nrows int) *Stats {
	s := src.peekStats()
	if s == nil {
		return nil
	}
	r := *s
	r.NACount += nrows - src.nrows
	return &r
}
