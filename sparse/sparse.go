// Package sparse contains the kernels used to gather values from sparse
// locations of a column buffer, driven by row indexes.
package sparse

// Missing is the index value that produces a missing (na) element.
const Missing = -1

// Gather copies src[indices[i]] into dst[i] for every index. Indices equal
// to Missing write na instead. The function returns the number of values
// written, which is the smaller of len(dst) and len(indices).
func Gather[T any](dst, src []T, indices []int32, na T) int {
	n := min(len(dst), len(indices))
	dst = dst[:n]

	for i, j := range indices[:n] {
		if j == Missing {
			dst[i] = na
		} else {
			dst[i] = src[j]
		}
	}

	return n
}

// GatherStride copies the values of src found at positions start,
// start+step, start+2*step... into dst. The step may be negative. The
// function returns the number of values written, which is len(dst).
func GatherStride[T any](dst, src []T, start, step int) int {
	if step == 1 {
		return copy(dst, src[start:start+len(dst)])
	}

	j := start
	for i := range dst {
		dst[i] = src[j]
		j += step
	}

	return len(dst)
}

// Scatter is the inverse of Gather: it writes values[i] to dst[indices[i]].
// Indices equal to Missing are skipped.
func Scatter[T any](dst, values []T, indices []int32) int {
	n := min(len(values), len(indices))

	for i, j := range indices[:n] {
		if j != Missing {
			dst[j] = values[i]
		}
	}

	return n
}
