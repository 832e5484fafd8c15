package laika

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_modulator_released_cells_zero(t *testing.T) {
	var p Parameters
	p.Default()
	require.NoError(t, p.Preset())

	var mod modulator
	mod.preset(&p)

	mod.send(0)

	var buffer = make([]float64, p.SymbolSepar)
	var overlap = p.SymbolLen / p.SymbolSepar
	for idx := 0; idx < overlap; idx++ {
		mod.output(buffer)
	}

	// the shape has fully drained: the tap must be all zeros again
	for idx, cell := range mod.out_tap {
		assert.Zerof(t, cell, "tap cell %d not cleared", idx)
	}
}

func Test_modulator_output_bounded(t *testing.T) {
	var p Parameters
	p.Default()
	require.NoError(t, p.Preset())

	var mod modulator
	mod.preset(&p)

	var buffer = make([]float64, p.SymbolSepar)
	var peak float64
	var energy float64
	var count = 0
	for idx := 0; idx < 256; idx++ {
		mod.send(uint8(idx % p.Carriers))
		mod.output(buffer)
		for _, sample := range buffer {
			peak = math.Max(peak, math.Abs(sample))
			energy += sample * sample
			count++
		}
	}

	assert.Less(t, peak, 1.0)
	var rms = math.Sqrt(energy / float64(count))
	assert.Greater(t, rms, 0.05) // the carrier is actually there
	assert.Less(t, rms, 0.7)
}

func Test_modulator_tone_placement(t *testing.T) {
	var p Parameters
	p.Default()
	require.NoError(t, p.Preset())

	var mod modulator
	mod.preset(&p)

	// constant symbol stream; the energy must sit in the band around
	// the assigned carrier regardless of the phase dither
	const symbol = 5
	var tone_bin = p.FirstCarrier + CarrierSepar*int(gray_code(symbol))

	var buffer = make([]float64, p.SymbolSepar)
	var audio []float64
	for idx := 0; idx < 64; idx++ {
		mod.send(symbol)
		mod.output(buffer)
		audio = append(audio, buffer...)
	}

	// discard the leading transient, analyze a whole number of symbols
	var chunk = audio[4*p.SymbolSepar : 4*p.SymbolSepar+4096]
	var scale = float64(len(chunk)) / float64(p.SymbolLen) // chunk bins per symbol FFT bin

	var band_energy, total_energy float64
	for bin := 1; bin < len(chunk)/2; bin++ {
		var re, im float64
		for idx, sample := range chunk {
			var phase = 2 * math.Pi * float64(bin) * float64(idx) / float64(len(chunk))
			re += sample * math.Cos(phase)
			im += sample * math.Sin(phase)
		}
		var bin_energy = re*re + im*im
		total_energy += bin_energy
		if math.Abs(float64(bin)-float64(tone_bin)*scale) <= 8*scale {
			band_energy += bin_energy
		}
	}

	assert.Greater(t, band_energy/total_energy, 0.9)
}
