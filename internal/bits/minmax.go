package bits

func boolEqualAll(data []bool, value bool) bool {
	for i := range data {
		if data[i] != value {
			return false
		}
	}
	return len(data) > 0
}

func MinMaxBool(data []bool) (min, max bool) {
	if len(data) > 0 {
		switch {
		case boolEqualAll(data, true):
			min, max = true, true
		case boolEqualAll(data, false):
			min, max = false, false
		default:
			min, max = false, true
		}
	}
	return min, max
}

// MinMax returns the smallest and largest values of data. Both are the zero
// value when data is empty.
func MinMax[T Integer | Float](data []T) (min, max T) {
	if len(data) > 0 {
		min = data[0]
		max = data[0]

		for _, v := range data[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max
}

// MinMaxSkip is like MinMax but ignores the values equal to na. It returns
// the number of values that were skipped; when every value is skipped, min
// and max are both the zero value.
func MinMaxSkip[T Integer](data []T, na T) (min, max T, skipped int) {
	i := 0
	for i < len(data) && data[i] == na {
		i++
	}
	skipped = i
	if i == len(data) {
		return min, max, skipped
	}

	min = data[i]
	max = data[i]

	for _, v := range data[i+1:] {
		switch {
		case v == na:
			skipped++
		case v < min:
			min = v
		case v > max:
			max = v
		}
	}
	return min, max, skipped
}

// MinMaxFloat is the floating point version of MinMaxSkip, NaN values are
// skipped.
func MinMaxFloat[T Float](data []T) (min, max T, skipped int) {
	i := 0
	for i < len(data) && isNaN(data[i]) {
		i++
	}
	skipped = i
	if i == len(data) {
		return min, max, skipped
	}

	min = data[i]
	max = data[i]

	for _, v := range data[i+1:] {
		switch {
		case isNaN(v):
			skipped++
		case v < min:
			min = v
		case v > max:
			max = v
		}
	}
	return min, max, skipped
}
