package laika

/*------------------------------------------------------------------
 *
 * Purpose:	Input conditioner: equalizes the receive spectrum and
 *		knocks down narrow-band carriers and pulse noise before
 *		the demodulator sees the audio.
 *
 *		Runs a 50% overlap-add analysis/synthesis pair with sine
 *		windows (their product is a Hann window, so unmodified
 *		audio reconstructs exactly).  In the frequency domain the
 *		strong bins are limited against a running local mean,
 *		three passes, then the spectrum is whitened.  Back in the
 *		time domain samples beyond limiter_level times the RMS
 *		are clipped, two passes.
 *
 *----------------------------------------------------------------*/

import "math"

type input_processor struct {
	window_len    int     // spectral analysis (FFT) window length
	limiter_level float64 // amplitude limit over the local mean / RMS

	wrap_mask int

	inp_tap     []float64 // input buffer for the analysis window
	inp_tap_ptr int

	out_tap     []float64 // output buffer for the reconstruction window
	out_tap_ptr int

	window_shape []float64

	slice_separ int // time separation between analysis slices

	fft      two_real_fft
	fft_buff []complex128

	spectra_len int
	spectra     [2][]complex128

	output []float64 // final audio after the pulse limiter

	energy []float64 // energy vs frequency

	filter box_filter // spectral energy averaging filter
}

func (p *input_processor) default_settings() {
	p.window_len = 8192
	p.limiter_level = 2.5
}

func (p *input_processor) preset() {
	p.wrap_mask = p.window_len - 1

	p.inp_tap = make([]float64, p.window_len)
	p.inp_tap_ptr = 0
	p.out_tap = make([]float64, p.window_len)
	p.out_tap_ptr = 0

	p.fft.preset(p.window_len)
	p.fft_buff = make([]complex128, p.window_len)
	p.slice_separ = p.window_len / 2

	// sine window on both sides; the 1/sqrt(len) absorbs the
	// unnormalized forward+inverse transform pair
	var shape_scale = 1.0 / math.Sqrt(float64(p.window_len))
	p.window_shape = make([]float64, p.window_len)
	for idx := 0; idx < p.window_len; idx++ {
		p.window_shape[idx] = shape_scale * math.Sin(math.Pi*float64(idx)/float64(p.window_len))
	}

	p.spectra_len = p.window_len / 2
	p.spectra[0] = make([]complex128, p.spectra_len)
	p.spectra[1] = make([]complex128, p.spectra_len)

	p.output = make([]float64, p.window_len)

	p.energy = make([]float64, p.spectra_len)

	p.filter.preset(p.window_len / 16)
}

func (p *input_processor) reset() {
	for idx := range p.inp_tap {
		p.inp_tap[idx] = 0
	}
	p.inp_tap_ptr = 0
	for idx := range p.out_tap {
		p.out_tap[idx] = 0
	}
	p.out_tap_ptr = 0
}

// limit_spectra_peaks attacks bins that stick out of the local mean
// energy; the box filter output is delayed by half the box length.
func (p *input_processor) limit_spectra_peaks(spectra []complex128, box_len int) {
	p.filter.preset(box_len)

	var max_freq = 3 * (p.spectra_len / 4)
	var threshold = p.limiter_level * p.limiter_level

	var freq = 0
	for ; freq < box_len; freq++ {
		p.filter.process(p.energy[freq])
	}

	for idx := box_len / 2; freq < max_freq; freq, idx = freq+1, idx+1 {
		p.filter.process(p.energy[freq])
		var signal = p.energy[idx]
		var limit = (p.filter.output / float64(box_len)) * threshold
		if signal > limit {
			spectra[idx] *= complex(math.Sqrt(limit/signal), 0)
			p.energy[idx] = limit
		}
	}
}

func (p *input_processor) limit_output_peaks() {
	var rms float64
	for idx := 0; idx < p.window_len; idx++ {
		var signal = p.output[idx]
		rms += signal * signal
	}
	rms = math.Sqrt(rms / float64(p.window_len))
	var limit = rms * p.limiter_level

	for idx := 0; idx < p.window_len; idx++ {
		var signal = p.output[idx]
		if signal > limit {
			p.output[idx] = limit
		} else if signal < -limit {
			p.output[idx] = -limit
		}
	}
}

// average_energy box-smooths the energy array in place, delayed by half
// the averaging length.
func (p *input_processor) average_energy(length int) {
	p.filter.preset(length)

	var max_freq = 3 * (p.spectra_len / 4)
	var scale = 1.0 / float64(length)

	var freq = 0
	for ; freq < length; freq++ {
		p.filter.process(p.energy[freq])
	}

	var idx = 0
	for ; idx < length/2; idx++ {
		p.energy[idx] = p.filter.output * scale
	}

	for ; freq < max_freq; freq, idx = freq+1, idx+1 {
		p.filter.process(p.energy[freq])
		p.energy[idx] = p.filter.output * scale
	}

	for ; idx < p.spectra_len; idx++ {
		p.energy[idx] = p.filter.output * scale
	}
}

// process_spectra runs the limiter passes and the whitening on one of
// the two half spectra.
func (p *input_processor) process_spectra(spectra []complex128) {
	for freq := 0; freq < p.spectra_len; freq++ {
		p.energy[freq] = energy(spectra[freq])
	}

	p.limit_spectra_peaks(spectra, p.window_len/64)
	p.limit_spectra_peaks(spectra, p.window_len/64)
	p.limit_spectra_peaks(spectra, p.window_len/64)

	p.average_energy(p.window_len / 96)
	p.average_energy(p.window_len / 64)

	for freq := 0; freq < p.spectra_len; freq++ {
		var corr = p.energy[freq]
		if corr <= 0 {
			continue
		}
		spectra[freq] *= complex(1.0/math.Sqrt(corr), 0)
	}
}

func (p *input_processor) process_inp_tap(input []float64) {
	for inp_idx := 0; inp_idx < p.slice_separ; inp_idx++ {
		if input != nil {
			p.inp_tap[p.inp_tap_ptr] = input[inp_idx]
		} else {
			p.inp_tap[p.inp_tap_ptr] = 0
		}
		p.inp_tap_ptr = (p.inp_tap_ptr + 1) & p.wrap_mask
	}
}

func (p *input_processor) process_inp_window_re() {
	for time := 0; time < p.window_len; time++ {
		p.fft_buff[time] = complex(p.inp_tap[p.inp_tap_ptr]*p.window_shape[time], imag(p.fft_buff[time]))
		p.inp_tap_ptr = (p.inp_tap_ptr + 1) & p.wrap_mask
	}
}

func (p *input_processor) process_inp_window_im() {
	for time := 0; time < p.window_len; time++ {
		p.fft_buff[time] = complex(real(p.fft_buff[time]), p.inp_tap[p.inp_tap_ptr]*p.window_shape[time])
		p.inp_tap_ptr = (p.inp_tap_ptr + 1) & p.wrap_mask
	}
}

func (p *input_processor) process_out_window_re() {
	for time := 0; time < p.window_len; time++ {
		p.out_tap[p.out_tap_ptr] += real(p.fft_buff[time]) * p.window_shape[time]
		p.out_tap_ptr = (p.out_tap_ptr + 1) & p.wrap_mask
	}
}

func (p *input_processor) process_out_window_im() {
	for time := 0; time < p.window_len; time++ {
		p.out_tap[p.out_tap_ptr] += imag(p.fft_buff[time]) * p.window_shape[time]
		p.out_tap_ptr = (p.out_tap_ptr + 1) & p.wrap_mask
	}
}

func (p *input_processor) process_out_tap(output []float64) {
	for out_idx := 0; out_idx < p.slice_separ; out_idx++ {
		output[out_idx] = p.out_tap[p.out_tap_ptr]
		p.out_tap[p.out_tap_ptr] = 0
		p.out_tap_ptr = (p.out_tap_ptr + 1) & p.wrap_mask
	}
}

// process consumes window_len input samples (nil input stands for
// silence) and leaves window_len conditioned samples in p.output.
func (p *input_processor) process(input []float64) int {
	p.process_inp_tap(input)
	p.process_inp_window_re()
	if input != nil {
		p.process_inp_tap(input[p.slice_separ:])
	} else {
		p.process_inp_tap(nil)
	}
	p.process_inp_window_im()

	p.fft.forward(p.fft_buff)
	p.fft.separ_two_reals(p.fft_buff, p.spectra[0], p.spectra[1])

	p.process_spectra(p.spectra[0])
	p.process_spectra(p.spectra[1])

	p.fft.join_two_reals(p.spectra[0], p.spectra[1], p.fft_buff)
	p.fft.inverse(p.fft_buff)

	p.process_out_window_re()
	p.process_out_tap(p.output)
	p.process_out_window_im()
	p.process_out_tap(p.output[p.slice_separ:])

	p.limit_output_peaks()
	p.limit_output_peaks()

	return p.window_len
}
