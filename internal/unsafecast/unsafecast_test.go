package unsafecast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/segmentio/datatable-go/internal/unsafecast"
)

func TestSliceScalesLengthAndCapacity(t *testing.T) {
	offsets := make([]uint32, 4, 13)
	offsets[0], offsets[2] = 1, 2

	wide := unsafecast.Slice[int64](offsets)
	assert.Len(t, wide, 2)
	assert.Equal(t, 6, cap(wide))
	assert.Equal(t, []int64{1, 2}, wide)

	narrow := unsafecast.Slice[uint32](wide)
	assert.Len(t, narrow, 4)
	assert.Equal(t, 12, cap(narrow))
	assert.Equal(t, offsets, narrow)

	narrow[1] = 7
	assert.Equal(t, uint32(7), offsets[1])
}

func TestSliceEmpty(t *testing.T) {
	assert.Nil(t, unsafecast.Slice[int32]([]int8(nil)))
	assert.NotNil(t, unsafecast.Slice[int32](make([]int8, 0, 4)))
}

func TestBytesAndString(t *testing.T) {
	values := []int16{0x0201, 0x0403}
	b := unsafecast.Bytes(values)
	assert.Len(t, b, 4)

	b[0] = 0x05
	assert.Equal(t, int16(0x0205), values[0])

	chars := []byte("datatable")
	assert.Equal(t, "data", unsafecast.String(chars[:4]))
	assert.Equal(t, "", unsafecast.String(nil))
}
