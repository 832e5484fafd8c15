package laika

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_fifo_ordering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var values = rapid.SliceOf(rapid.Byte()).Draw(t, "values")

		var queue fifo[byte]
		queue.preset(len(values) + 1)

		for _, value := range values {
			assert.True(t, queue.write(value))
		}
		assert.Equal(t, len(values), queue.read_ready())

		for _, expected := range values {
			var got, ok = queue.read()
			assert.True(t, ok)
			assert.Equal(t, expected, got)
		}
		assert.True(t, queue.empty())
	})
}

func Test_fifo_full(t *testing.T) {
	var queue fifo[byte]
	queue.preset(4)

	assert.True(t, queue.write(1))
	assert.True(t, queue.write(2))
	assert.True(t, queue.write(3))
	assert.True(t, queue.full())
	assert.False(t, queue.write(4))

	var got, ok = queue.read()
	assert.True(t, ok)
	assert.Equal(t, byte(1), got)
	assert.True(t, queue.write(4))
}

func Test_fifo_empty_read(t *testing.T) {
	var queue fifo[byte]
	queue.preset(8)

	var _, ok = queue.read()
	assert.False(t, ok)
}

func Test_circular_buffer_rows(t *testing.T) {
	var buffer circular_buffer[int]
	buffer.preset(8, 3)

	for idx := 0; idx < 8; idx++ {
		var row = buffer.offset_row(0)
		for jdx := range row {
			row[jdx] = idx*10 + jdx
		}
		buffer.advance(1)
	}
	// pointer wrapped all the way around
	assert.Equal(t, 0, buffer.ptr)

	assert.Equal(t, []int{70, 71, 72}, buffer.offset_row(-1))
	assert.Equal(t, []int{0, 1, 2}, buffer.offset_row(0))
	assert.Equal(t, []int{30, 31, 32}, buffer.row(3))
}

func Test_circular_buffer_wrap_diff_phase(t *testing.T) {
	var buffer circular_buffer[int]
	buffer.preset(256, 1)

	assert.InDelta(t, 1.0, buffer.wrap_diff_phase(1.0), 1e-12)
	assert.InDelta(t, -2.0, buffer.wrap_diff_phase(254.0), 1e-12)
	assert.InDelta(t, 2.0, buffer.wrap_diff_phase(-254.0), 1e-12)
	assert.InDelta(t, -128.0, buffer.wrap_diff_phase(128.0), 1e-12)
}
