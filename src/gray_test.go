package laika

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_gray_code_roundtrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var n = rapid.Uint8().Draw(t, "n")

		assert.Equal(t, n, binary_code(gray_code(n)))
		assert.Equal(t, n, gray_code(binary_code(n)))
	})
}

func Test_gray_code_adjacent(t *testing.T) {
	// consecutive values must differ in exactly one bit
	for n := 0; n < 255; n++ {
		var diff = gray_code(uint8(n)) ^ gray_code(uint8(n+1))
		assert.Zerof(t, diff&(diff-1), "gray(%d) and gray(%d) differ in more than one bit", n, n+1)
	}
}
