package laika

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_inputproc_silence_in_silence_out(t *testing.T) {
	var proc input_processor
	proc.default_settings()
	proc.preset()

	for window := 0; window < 4; window++ {
		proc.process(nil)
		for idx, sample := range proc.output {
			require.Zerof(t, sample, "window %d sample %d not zero", window, idx)
		}
	}
}

func Test_inputproc_reconstructs_noise(t *testing.T) {
	// broadband noise has a flat spectrum already: apart from the
	// whitening gain the conditioner must pass it through with the
	// overlap-add pair reconstructing cleanly (no clicks, no gaps)
	var proc input_processor
	proc.default_settings()
	proc.preset()

	var random = rand.New(rand.NewSource(3))
	var window = make([]float64, proc.window_len)

	var out_rms float64
	for round := 0; round < 6; round++ {
		for idx := range window {
			var re, _ = white_noise(random, 0.1)
			window[idx] = re
		}
		proc.process(window)
		if round < 2 {
			continue // pipeline fill
		}
		for _, sample := range proc.output {
			out_rms += sample * sample
		}
	}
	out_rms = math.Sqrt(out_rms / float64(4*proc.window_len))

	// whitened output keeps a sensible, stable level
	assert.Greater(t, out_rms, 1e-4)
	assert.Less(t, out_rms, 10.0)
}

func Test_inputproc_narrowband_suppression(t *testing.T) {
	// a strong steady carrier over a weak noise floor must come out
	// with its relative spectral peak knocked down by orders of
	// magnitude
	var proc input_processor
	proc.default_settings()
	proc.preset()

	var random = rand.New(rand.NewSource(7))
	const tone_freq = 66.0 / 1024.0 // the first default carrier, as a fraction of the rate

	var window = make([]float64, proc.window_len)
	var sample_clock = 0

	var fill = func() {
		for idx := range window {
			var re, _ = white_noise(random, 0.02)
			window[idx] = re + 0.05*math.Cos(2*math.Pi*tone_freq*float64(sample_clock))
			sample_clock++
		}
	}

	var tone_ratio = func(data []float64) float64 {
		// energy at the tone bin versus the mean of the
		// surrounding band, measured on a Hann window
		var size = len(data)
		var bin_energy = func(bin int) float64 {
			var re, im float64
			for idx, sample := range data {
				var w = 0.5 - 0.5*math.Cos(2*math.Pi*float64(idx)/float64(size))
				var phase = 2 * math.Pi * float64(bin) * float64(idx) / float64(size)
				re += w * sample * math.Cos(phase)
				im += w * sample * math.Sin(phase)
			}
			return re*re + im*im
		}
		var tone_bin = int(math.Round(tone_freq * float64(size)))
		var peak = bin_energy(tone_bin)
		var neighbours float64
		var count = 0
		for ofs := 16; ofs <= 64; ofs += 8 {
			neighbours += bin_energy(tone_bin-ofs) + bin_energy(tone_bin+ofs)
			count += 2
		}
		return peak / (neighbours / float64(count))
	}

	fill()
	var input_ratio = tone_ratio(window)

	var output_ratio float64
	for round := 0; round < 4; round++ {
		fill()
		proc.process(window)
		output_ratio = tone_ratio(proc.output)
	}

	require.Greater(t, input_ratio, 1000.0) // the carrier really dominates going in
	assert.Less(t, output_ratio, input_ratio/50)
	assert.Less(t, output_ratio, 100.0)
}
