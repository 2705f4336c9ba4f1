// Package unsafecast exposes functions to bypass the Go type system and
// reinterpret column buffers as typed slices without copying.
//
// Values returned by these functions share memory with their input; the
// caller is responsible for keeping the original memory alive.
package unsafecast

import "unsafe"

// Slice converts the data slice of type []From to a slice of type []To
// sharing the same backing array. The length and capacity of the returned
// slice are scaled according to the size difference between the source and
// destination types.
func Slice[To, From any](data []From) []To {
	var zf From
	var zt To
	if len(data) == 0 && cap(data) == 0 {
		return nil
	}
	sizeFrom := unsafe.Sizeof(zf)
	sizeTo := unsafe.Sizeof(zt)
	n := (uintptr(len(data)) * sizeFrom) / sizeTo
	c := (uintptr(cap(data)) * sizeFrom) / sizeTo
	return unsafe.Slice((*To)(unsafe.Pointer(unsafe.SliceData(data))), c)[:n:c]
}

// Bytes returns the raw memory of data.
func Bytes[T any](data []T) []byte { return Slice[byte](data) }

// String returns a string sharing memory with b.
func String(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
