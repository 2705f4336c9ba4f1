package bits

// Fill writes repeated copies of pattern to dst and returns the number of
// values written. Each step doubles the filled prefix, so filling n values
// takes O(log n) calls to copy.
func Fill[T any](dst, pattern []T) int {
	n := copy(dst, pattern)
	for n > 0 && n < len(dst) {
		n += copy(dst[n:], dst[:n])
	}
	return n
}
