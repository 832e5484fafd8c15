package laika

/*------------------------------------------------------------------
 *
 * Purpose:	Synchronizer: a 2-D search over frequency offset and
 *		block phase.
 *
 *		Every spectral slice is scored by a bank of lightweight
 *		soft decoders, one per frequency hypothesis.  The FEC
 *		signal and noise figures integrate through one-pole
 *		filters arranged on a (block phase x frequency offset)
 *		grid.  The best cell is tracked continuously; when the
 *		running phase passes the decode reference point the peak
 *		is interpolated and the lock decision made.
 *
 *----------------------------------------------------------------*/

import "math"

type synchronizer struct {
	parameters *Parameters

	freq_offsets int // number of frequency hypotheses
	block_phases int // number of time phases within a FEC block

	decoder []soft_decoder

	block_phase int // current running block time-phase

	sync_signal       circular_buffer[lowpass_filter] // FEC signal integrators
	sync_noise_energy circular_buffer[lowpass_filter] // FEC noise integrators
	filter_weight     float64

	best_signal      float64 // best integrated signal
	best_block_phase int
	best_freq_offset int
	snr              float64
	decode_reference int // 0 right in the middle of a FEC block

	precise_freq_offset float64 // interpolated peak position [bins]
	precise_block_phase float64 // interpolated peak position [slices]
	stable_lock         bool
	freq_drift          lowpass_filter // [bins per FEC block]
	time_drift          lowpass_filter // [fraction of a block per block, 1e-6 = 1 ppm]
}

func (s *synchronizer) preset(parameters *Parameters) {
	s.parameters = parameters

	s.freq_offsets = 2*parameters.RxSyncMargin*CarrierSepar + 1
	s.block_phases = SpectraPerSymbol * SymbolsPerBlock

	s.decoder = make([]soft_decoder, s.freq_offsets)
	for idx := range s.decoder {
		s.decoder[idx].preset(parameters)
	}

	s.sync_signal.preset(s.block_phases, s.freq_offsets)
	s.sync_noise_energy.preset(s.block_phases, s.freq_offsets)

	s.filter_weight = 1.0 / float64(parameters.RxSyncIntegLen)

	s.reset()
}

func (s *synchronizer) reset() {
	for idx := range s.decoder {
		s.decoder[idx].reset()
	}

	s.sync_signal.clear()
	s.sync_noise_energy.clear()

	s.block_phase = 0

	s.best_signal = 0
	s.best_block_phase = 0
	s.best_freq_offset = 0
	s.snr = 0
	s.decode_reference = -s.block_phases / 2

	s.precise_freq_offset = 0
	s.precise_block_phase = 0
	s.stable_lock = false
	s.freq_drift.reset()
	s.time_drift.reset()
}

// process scores one spectral slice (a history row) against every
// frequency hypothesis and updates the lock state.
func (s *synchronizer) process(spectra []float64) {
	var signal_row = s.sync_signal.row(s.block_phase)
	var noise_row = s.sync_noise_energy.row(s.block_phase)

	var best_slice_signal float64
	var best_slice_offset = 0
	for offset := 0; offset < s.freq_offsets; offset++ {
		var decoder = &s.decoder[offset]
		decoder.spectral_input(spectra[offset:])
		decoder.process()

		noise_row[offset].process(decoder.noise_energy, s.filter_weight)
		signal_row[offset].process(decoder.signal, s.filter_weight)
		var signal = signal_row[offset].output

		if signal > best_slice_signal {
			best_slice_signal = signal
			best_slice_offset = offset
		}
	}

	if s.block_phase == s.best_block_phase {
		s.best_signal = best_slice_signal
		s.best_freq_offset = best_slice_offset
	} else if best_slice_signal > s.best_signal {
		s.best_signal = best_slice_signal
		s.best_block_phase = s.block_phase
		s.best_freq_offset = best_slice_offset
	}

	s.decode_reference = s.block_phase - s.best_block_phase
	if s.decode_reference < 0 {
		s.decode_reference += s.block_phases
	}
	s.decode_reference -= s.block_phases / 2

	if s.decode_reference == 0 {
		var best_noise = s.sync_noise_energy.row(s.best_block_phase)[s.best_freq_offset].output
		if best_noise > 0 {
			best_noise = math.Sqrt(best_noise)
		} else {
			best_noise = 0
		}
		var min_noise = float64(SymbolsPerBlock) / 10000
		if best_noise < min_noise {
			best_noise = min_noise
		}

		s.snr = s.best_signal / best_noise

		// parabolic fit along the frequency axis
		var new_precise_freq_offset = float64(s.best_freq_offset)
		if s.freq_offsets >= 3 {
			var signal_row = s.sync_signal.row(s.best_block_phase)
			var fit_idx = limit(s.best_freq_offset, 1, s.freq_offsets-2)
			var pos, _, fit_ok = fit_peak(signal_row[fit_idx-1].output,
				signal_row[fit_idx].output, signal_row[fit_idx+1].output)
			if fit_ok {
				new_precise_freq_offset = float64(fit_idx) + limit(pos, -1.0, 1.0)
			}
		}

		// parabolic fit along the block-phase axis
		var fit_idx_l = s.sync_signal.decr_ptr(s.best_block_phase, 1)
		var fit_idx_c = s.best_block_phase
		var fit_idx_r = s.sync_signal.incr_ptr(s.best_block_phase, 1)
		var new_precise_block_phase = float64(s.best_block_phase)
		var pos, _, fit_ok = fit_peak(s.sync_signal.row(fit_idx_l)[s.best_freq_offset].output,
			s.sync_signal.row(fit_idx_c)[s.best_freq_offset].output,
			s.sync_signal.row(fit_idx_r)[s.best_freq_offset].output)
		if fit_ok {
			new_precise_block_phase = s.sync_signal.wrap_phase(limit(pos, -1.0, 1.0) + float64(fit_idx_c))
		}

		var freq_delta = new_precise_freq_offset - s.precise_freq_offset
		var phase_delta = s.sync_signal.wrap_diff_phase(new_precise_block_phase - s.precise_block_phase)

		var delta_dist2 = freq_delta*freq_delta + phase_delta*phase_delta
		if delta_dist2 <= 1.0 && s.snr >= s.parameters.RxSyncThreshold {
			s.stable_lock = true
			s.freq_drift.process(freq_delta, s.filter_weight)
			s.time_drift.process(phase_delta/float64(s.block_phases), s.filter_weight)
		} else {
			s.stable_lock = false
			s.freq_drift.reset()
			s.time_drift.reset()
		}

		s.precise_freq_offset = new_precise_freq_offset
		s.precise_block_phase = new_precise_block_phase
	}

	s.block_phase = s.sync_signal.incr_ptr(s.block_phase, 1)
}

func (s *synchronizer) fec_snr() float64 {
	return s.snr
}

func (s *synchronizer) frequency_offset() float64 {
	return (s.precise_freq_offset - float64(s.freq_offsets/2)) * s.parameters.FFTbinBandwidth()
}

func (s *synchronizer) frequency_drift_rate() float64 {
	return s.freq_drift.output * s.parameters.FFTbinBandwidth() / s.parameters.BlockPeriod()
}

func (s *synchronizer) time_drift_rate() float64 {
	return s.time_drift.output
}
