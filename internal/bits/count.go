package bits

// CountEqual returns the number of values of data equal to value.
func CountEqual[T comparable](data []T, value T) int {
	n := 0
	for _, v := range data {
		if v == value {
			n++
		}
	}
	return n
}

// CountNaN returns the number of NaN values in data.
func CountNaN[T Float](data []T) int {
	n := 0
	for _, v := range data {
		if isNaN(v) {
			n++
		}
	}
	return n
}

// IndexEqual appends to dst the positions of data holding value, each
// shifted by offset, and returns the extended slice.
func IndexEqual[T comparable](dst []int32, data []T, value T, offset int) []int32 {
	for i, v := range data {
		if v == value {
			dst = append(dst, int32(i+offset))
		}
	}
	return dst
}
