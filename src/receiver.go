package laika

/*------------------------------------------------------------------
 *
 * Purpose:	MFSK receiver: rate converter -> input conditioner ->
 *		demodulator -> synchronizer -> iterative decoder.
 *
 *		The caller feeds audio batches of any size; decoded
 *		characters queue up for GetChar().  Every sample either
 *		turns into characters or is flushed out as pipeline
 *		latency by Flush().
 *
 *----------------------------------------------------------------*/

type Receiver struct {
	parameters *Parameters

	rate_converter  rate_converter
	input_buffer    []float64
	input_processor input_processor
	demodulator     demodulator
	synchronizer    synchronizer
	decoder         iter_decoder
	output          fifo[uint8]
}

// Preset sizes all internal buffers for the given (frozen) parameters.
func (r *Receiver) Preset(parameters *Parameters) error {
	r.parameters = parameters

	r.rate_converter.default_settings()
	r.rate_converter.output_rate = float64(parameters.SampleRate) / parameters.InputSampleRate
	r.rate_converter.preset()

	r.input_processor.default_settings()
	r.input_processor.window_len = 32 * parameters.SymbolSepar
	r.input_processor.preset()

	r.input_buffer = make([]float64, 0, r.input_processor.window_len+2048)

	r.demodulator.preset(parameters)
	r.synchronizer.preset(parameters)
	r.decoder.preset(parameters)

	r.output.preset(1024)

	return nil
}

// Reset discards all buffered audio and decoder state.
func (r *Receiver) Reset() {
	r.rate_converter.reset()
	r.input_buffer = r.input_buffer[:0]
	r.input_processor.reset()
	r.demodulator.reset()
	r.synchronizer.reset()
	r.output.reset()
}

// SyncSNR is the S/N seen by the FEC synchronizer.
func (r *Receiver) SyncSNR() float64 {
	return r.synchronizer.fec_snr()
}

// FrequencyOffset is the measured carrier offset [Hz].
func (r *Receiver) FrequencyOffset() float64 {
	return r.synchronizer.frequency_offset()
}

// FrequencyDrift is the carrier drift rate [Hz/s].
func (r *Receiver) FrequencyDrift() float64 {
	return r.synchronizer.frequency_drift_rate()
}

// TimeDrift is the sampling rate mismatch as a fraction (1e-6 = 1 ppm).
func (r *Receiver) TimeDrift() float64 {
	return r.synchronizer.time_drift_rate()
}

// InputSNRdB is the signal to noise of the decoded signal [dB].
func (r *Receiver) InputSNRdB() float64 {
	return r.decoder.input_snr_db()
}

// StableLock reports whether the synchronizer trusts its estimate.
func (r *Receiver) StableLock() bool {
	return r.synchronizer.stable_lock
}

// Process feeds an audio batch (at the true input rate) into the pipeline.
func (r *Receiver) Process(input []float64) {
	r.input_buffer = r.rate_converter.process(input, r.input_buffer)
	r.process_input_buffer()
}

// ProcessS16 feeds 16-bit soundcard samples into the pipeline.
func (r *Receiver) ProcessS16(input []int16) {
	var batch [512]float64
	for len(input) > 0 {
		var chunk = len(input)
		if chunk > len(batch) {
			chunk = len(batch)
		}
		convert_from_s16(input[:chunk], batch[:chunk])
		r.Process(batch[:chunk])
		input = input[chunk:]
	}
}

// Flush pushes the buffered tail plus enough silence through the
// pipeline that everything decodable comes out.
func (r *Receiver) Flush() {
	r.process_input_buffer()

	var window_len = r.input_processor.window_len
	for idx := len(r.input_buffer); idx < window_len; idx++ {
		r.input_buffer = append(r.input_buffer, 0)
	}
	r.process_input_buffer()

	var flush_len = r.parameters.SymbolSepar * SymbolsPerBlock * r.parameters.RxSyncIntegLen * 2
	for idx := 0; idx < flush_len; idx += window_len {
		r.input_buffer = r.input_buffer[:window_len]
		for jdx := range r.input_buffer {
			r.input_buffer[jdx] = 0
		}
		r.process_input_buffer()
	}
}

// GetChar takes one decoded character off the output queue.
func (r *Receiver) GetChar() (byte, bool) {
	return r.output.read()
}

// process_input_buffer runs the conditioner over every complete window
// in the staging buffer, then the demodulator symbol by symbol.
func (r *Receiver) process_input_buffer() {
	var window_len = r.input_processor.window_len
	for len(r.input_buffer) >= window_len {
		r.input_processor.process(r.input_buffer[:window_len])
		var kept = copy(r.input_buffer, r.input_buffer[window_len:])
		r.input_buffer = r.input_buffer[:kept]
		for idx := 0; idx < window_len; idx += r.parameters.SymbolSepar {
			r.process_symbol(r.input_processor.output[idx:])
		}
	}
}

// process_symbol pushes one symbol period of conditioned audio through
// the demodulator and lets the synchronizer look at each new slice.
func (r *Receiver) process_symbol(input []float64) {
	r.demodulator.process(input)
	for hist_ofs := -SpectraPerSymbol; hist_ofs < 0; hist_ofs++ {
		var spectra = r.demodulator.history_row(hist_ofs)
		r.synchronizer.process(spectra)
		if r.synchronizer.decode_reference != 0 {
			continue
		}
		if !r.synchronizer.stable_lock {
			continue
		}

		// a settled block is about to fall out of the history:
		// search the micro-grid around the interpolated peak
		var time_offset = hist_ofs - ((r.parameters.RxSyncIntegLen+1)*SpectraPerBlock + SpectraPerBlock/2 - 1)
		var freq_offset = r.synchronizer.best_freq_offset

		var best_signal float64
		var best_time = 0
		var best_freq = 0
		for freq_search := -1; freq_search <= 1; freq_search++ {
			for time_search := -2; time_search <= 2; time_search++ {
				if !r.demodulator.pick_block(r.decoder.input, time_offset+time_search, freq_offset+freq_search) {
					continue
				}
				r.decoder.process(8)
				var signal = r.decoder.input_signal_energy
				if signal > best_signal {
					best_signal = signal
					best_freq = freq_search
					best_time = time_search
				}
			}
		}

		r.demodulator.pick_block(r.decoder.input, time_offset+best_time, freq_offset+best_freq)
		r.decoder.process(32)
		r.decoder.write_output_block(&r.output)
	}
}
