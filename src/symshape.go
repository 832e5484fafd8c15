package laika

import "math"

// The symbol shape described in the frequency domain.  The same
// four-term prototype windows the transmitted tone bursts and the
// receiver's analysis slices; it is part of the on-air format.
var symbol_freq_shape = []float64{+1.0000000000, +2.1373197349, +1.1207588117, -0.0165609232}

// make_symbol_shape synthesizes the time-domain window of symbol_len
// samples from the frequency prototype, scaled by the given factor.
func make_symbol_shape(symbol_len int, scale float64) []float64 {
	var shape = make([]float64, symbol_len)

	for time := 0; time < symbol_len; time++ {
		shape[time] = symbol_freq_shape[0]
	}
	for freq := 1; freq < len(symbol_freq_shape); freq++ {
		var ampl = symbol_freq_shape[freq]
		if freq&1 != 0 {
			ampl = -ampl
		}
		var phase = 0
		for time := 0; time < symbol_len; time++ {
			shape[time] += ampl * math.Cos(2*math.Pi*float64(phase)/float64(symbol_len))
			phase += freq
			if phase >= symbol_len {
				phase -= symbol_len
			}
		}
	}
	for time := 0; time < symbol_len; time++ {
		shape[time] *= scale
	}

	return shape
}
