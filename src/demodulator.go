package laika

/*------------------------------------------------------------------
 *
 * Purpose:	Spectral (FFT) demodulator.
 *
 *		Consumes one symbol period of audio per call and produces
 *		four spectral slices, 4x oversampling the symbol rate.
 *		Per-bin energies in the band of interest land in a
 *		circular history deep enough for the synchronizer's
 *		integration plus the block being decoded.
 *
 *----------------------------------------------------------------*/

type demodulator struct {
	parameters *Parameters

	input_len int // input must come in batches of that length [samples]

	symbol_separ int
	symbol_len   int

	decode_margin int // frequency margin for decoding [FFT bins]
	decode_width  int // width of the stored spectra   [FFT bins]

	slice_separ int // time separation between slices [samples]

	wrap_mask int

	inp_tap     []float64
	inp_tap_ptr int

	symbol_shape []float64 // the analysis window

	fft      two_real_fft
	fft_buff []complex128

	spectra_len int
	spectra     [2][]complex128

	history circular_buffer[float64] // spectra (energy) history
}

func (d *demodulator) preset(parameters *Parameters) {
	d.parameters = parameters

	d.symbol_separ = parameters.SymbolSepar
	d.symbol_len = parameters.SymbolLen

	d.input_len = d.symbol_separ
	d.decode_margin = parameters.RxSyncMargin * CarrierSepar

	d.wrap_mask = d.symbol_len - 1

	d.inp_tap = make([]float64, d.symbol_len)
	d.inp_tap_ptr = 0

	d.fft.preset(d.symbol_len)
	d.fft_buff = make([]complex128, d.symbol_len)
	d.slice_separ = d.symbol_separ / SpectraPerSymbol

	d.symbol_shape = make_symbol_shape(d.symbol_len, 1.0/float64(d.symbol_len))

	d.spectra_len = d.symbol_len / 2
	d.spectra[0] = make([]complex128, d.spectra_len)
	d.spectra[1] = make([]complex128, d.spectra_len)

	d.decode_width = (parameters.Carriers-1)*CarrierSepar + 1 + 2*d.decode_margin

	d.history.preset((parameters.RxSyncIntegLen+2)*SpectraPerBlock, d.decode_width)
	d.history.clear()
}

func (d *demodulator) reset() {
	d.history.clear()
}

// history_row returns a history row relative to the current pointer.
func (d *demodulator) history_row(idx int) []float64 {
	return d.history.offset_row(idx)
}

func (d *demodulator) slide_one_slice(input []float64) int {
	for inp_idx := 0; inp_idx < d.slice_separ; inp_idx++ {
		d.inp_tap[d.inp_tap_ptr] = input[inp_idx]
		d.inp_tap_ptr = (d.inp_tap_ptr + 1) & d.wrap_mask
	}
	return d.slice_separ
}

// process consumes symbol_separ samples and appends SpectraPerSymbol
// rows of band energies to the history.
func (d *demodulator) process(input []float64) {
	var inp_idx = 0
	for slice := 0; slice < SpectraPerSymbol; slice += 2 {
		inp_idx += d.slide_one_slice(input[inp_idx:])

		for time := 0; time < d.symbol_len; time++ {
			d.fft_buff[time] = complex(d.inp_tap[d.inp_tap_ptr]*d.symbol_shape[time], 0)
			d.inp_tap_ptr = (d.inp_tap_ptr + 1) & d.wrap_mask
		}

		inp_idx += d.slide_one_slice(input[inp_idx:])

		for time := 0; time < d.symbol_len; time++ {
			d.fft_buff[time] = complex(real(d.fft_buff[time]), d.inp_tap[d.inp_tap_ptr]*d.symbol_shape[time])
			d.inp_tap_ptr = (d.inp_tap_ptr + 1) & d.wrap_mask
		}

		d.fft.forward(d.fft_buff)
		d.fft.separ_two_reals(d.fft_buff, d.spectra[0], d.spectra[1])

		var data0 = d.history.offset_row(0)
		var data1 = d.history.offset_row(1)

		var freq = d.parameters.FirstCarrier - d.decode_margin
		for idx := 0; idx < d.decode_width; idx, freq = idx+1, freq+1 {
			data0[idx] = energy(d.spectra[0][freq])
			data1[idx] = energy(d.spectra[1][freq])
		}

		d.history.advance(2)
	}
}

// pick_block extracts a SymbolsPerBlock x Carriers matrix of energies
// from the history at the given block phase and frequency offset.
func (d *demodulator) pick_block(spectra []float64, time_offset int, freq_offset int) bool {
	if time_offset > -SpectraPerBlock || -time_offset > d.history.length {
		return false
	}

	var carriers = d.parameters.Carriers

	if freq_offset < 0 || freq_offset+(carriers-1)*CarrierSepar >= d.decode_width {
		return false
	}

	var out = 0
	for symbol := 0; symbol < SymbolsPerBlock; symbol, time_offset = symbol+1, time_offset+SpectraPerSymbol {
		var hist = d.history.offset_row(time_offset)
		var bin = freq_offset
		for freq := 0; freq < carriers; freq, bin = freq+1, bin+CarrierSepar {
			spectra[out] = hist[bin]
			out++
		}
	}

	return true
}
