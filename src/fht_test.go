package laika

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_fht_roundtrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var data = rapid.SliceOfN(rapid.Float64Range(-100, 100), 64, 64).Draw(t, "data")

		var work = make([]float64, 64)
		copy(work, data)

		fht(work)
		ifht(work)

		for idx := range work {
			assert.InDelta(t, 64*data[idx], work[idx], 1e-6)
		}
	})
}

func Test_ifht_then_fht(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var data = rapid.SliceOfN(rapid.Int32Range(-1000, 1000), 64, 64).Draw(t, "data")

		var work = make([]int32, 64)
		copy(work, data)

		ifht(work)
		fht(work)

		for idx := range work {
			assert.Equal(t, 64*data[idx], work[idx])
		}
	})
}

func Test_fht_basis(t *testing.T) {
	// the transform of a one-hot vector is a +/-1 Walsh function and
	// transforming it back concentrates all energy in the peak again
	for pos := 0; pos < 64; pos++ {
		var data = make([]int8, 64)
		data[pos] = 1
		ifht(data)
		for idx := range data {
			assert.Contains(t, []int8{-1, 1}, data[idx])
		}
		fht(data)
		for idx := range data {
			if idx == pos {
				assert.Equal(t, int8(64), data[idx])
			} else {
				assert.Zero(t, data[idx])
			}
		}
	}
}
