package laika

import (
	"math"
	"math/rand"
)

// white_noise draws one complex Gaussian sample (Box-Muller) with the
// given RMS per component pair.  The source is per-instance so several
// modems can run in one process without sharing generator state.
func white_noise(random *rand.Rand, amplitude float64) (float64, float64) {
	var magnitude = amplitude * math.Sqrt(-2.0*math.Log(1.0-random.Float64()))
	var phase = 2 * math.Pi * random.Float64()
	return magnitude * math.Cos(phase), magnitude * math.Sin(phase)
}

// AddWhiteNoise adds real white Gaussian noise of the given RMS to the
// buffer and returns the noise energy that went in.
func AddWhiteNoise(random *rand.Rand, data []float64, rms float64) float64 {
	var noise_energy float64
	for idx := range data {
		var re, _ = white_noise(random, rms)
		data[idx] += re
		noise_energy += re * re
	}
	return noise_energy
}
