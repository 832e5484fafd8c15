package laika

/*------------------------------------------------------------------
 *
 * Purpose:	Iterative soft-input FEC decoder; this one produces the
 *		characters handed to the caller.
 *
 *		The state carried between iterations is an extrinsic
 *		probability for every (symbol, tone) cell.  An iteration
 *		multiplies the channel likelihood back in, demodulates to
 *		soft bits, de-interleaves and descrambles into Walsh
 *		codewords, transforms, picks the hard characters, then
 *		builds a soft replica and pushes refined probabilities
 *		back through the reverse path.
 *
 *----------------------------------------------------------------*/

import "math"

// Exponent of the soft replica taken from the FHT output before the
// L1 normalization.  2 measured better than the theoretical 3.
const soft_replica_power = 2

type iter_decoder struct {
	parameters *Parameters

	input []float64 // demodulated spectra energies, SymbolsPerBlock rows of Carriers

	bits_per_symbol int
	carriers        int

	input_extrinsic []float64 // extrinsic information fed back across iterations
	fht_codeword    []float64 // codewords of every bit plane
	symbol_bit      []float64

	input_signal_energy float64
	input_noise_energy  float64
	fec_signal_energy   float64
	fec_noise_energy    float64

	output_block []uint8
}

func (d *iter_decoder) preset(parameters *Parameters) {
	d.parameters = parameters
	d.bits_per_symbol = parameters.BitsPerSymbol
	d.carriers = parameters.Carriers
	d.input = make([]float64, SymbolsPerBlock*d.carriers)
	d.input_extrinsic = make([]float64, SymbolsPerBlock*d.carriers)
	d.fht_codeword = make([]float64, SymbolsPerBlock*d.bits_per_symbol)
	d.symbol_bit = make([]float64, d.bits_per_symbol)
	d.output_block = make([]uint8, d.bits_per_symbol)
}

func (d *iter_decoder) scramble_codeword(codeword []float64, scramble_idx int) {
	var code_wrap = SymbolsPerBlock - 1
	scramble_idx &= code_wrap
	for idx := 0; idx < SymbolsPerBlock; idx++ {
		if ScramblingCode&(uint64(1)<<scramble_idx) != 0 {
			codeword[idx] = -codeword[idx]
		}
		scramble_idx = (scramble_idx + 1) & code_wrap
	}
}

func (d *iter_decoder) normalize_abs_sum(data []float64, norm float64) bool {
	var sum float64
	for idx := range data {
		sum += math.Abs(data[idx])
	}
	if sum <= 0 {
		return false
	}
	var corr = norm / sum
	for idx := range data {
		data[idx] *= corr
	}
	return true
}

// soft_replica raises the codeword to the replica power, keeping signs.
func (d *iter_decoder) soft_replica(data []float64) {
	for idx := range data {
		var value = data[idx]
		var magnitude = math.Pow(math.Abs(value), soft_replica_power)
		if value < 0 {
			data[idx] = -magnitude
		} else {
			data[idx] = magnitude
		}
	}
}

// decode_char picks the peak of a transformed codeword and accumulates
// the (unbiased) FEC signal and noise energies.
func (d *iter_decoder) decode_char(fht_buffer []float64) uint8 {
	var peak float64
	var peak_pos = 0
	var noise_energy float64
	for time_bit := 0; time_bit < SymbolsPerBlock; time_bit++ {
		var signal = fht_buffer[time_bit]
		noise_energy += signal * signal
		if math.Abs(signal) > math.Abs(peak) {
			peak = signal
			peak_pos = time_bit
		}
	}
	var char = uint8(peak_pos)
	if peak < 0 {
		char += SymbolsPerBlock
	}
	var signal_energy = peak * peak
	noise_energy -= signal_energy
	signal_energy -= noise_energy / (SymbolsPerBlock - 1)
	noise_energy *= float64(SymbolsPerBlock) / (SymbolsPerBlock - 1)

	d.fec_signal_energy += signal_energy
	d.fec_noise_energy += noise_energy

	return char
}

// process runs max_iter refinement iterations over the block
// currently loaded into d.input.
func (d *iter_decoder) process(max_iter int) {
	var input_size = d.carriers * SymbolsPerBlock
	var block_size = d.bits_per_symbol * SymbolsPerBlock

	for inp_idx := 0; inp_idx < input_size; inp_idx++ {
		d.input_extrinsic[inp_idx] = 1.0 / float64(d.carriers)
	}

	for ; max_iter > 0; max_iter-- {

		// multiply the channel likelihood back into the extrinsic state
		for inp_idx := 0; inp_idx < input_size; inp_idx++ {
			var input_energy = d.input[inp_idx]
			if decode_square_energy {
				input_energy *= input_energy
			}
			d.input_extrinsic[inp_idx] *= input_energy
		}

		// demodulate to soft bits and spread them over the codewords
		var rotate = 0
		var inp_idx = 0
		for time_bit := 0; time_bit < SymbolsPerBlock; time_bit, inp_idx = time_bit+1, inp_idx+d.carriers {
			soft_demodulate(d.symbol_bit, d.input_extrinsic[inp_idx:], d.bits_per_symbol, 1, false)

			var block_idx = time_bit + rotate*SymbolsPerBlock
			for bit := 0; bit < d.bits_per_symbol; bit++ {
				d.fht_codeword[block_idx] = d.symbol_bit[bit]
				block_idx += SymbolsPerBlock
				if block_idx >= block_size {
					block_idx -= block_size
				}
			}

			if rotate > 0 {
				rotate--
			} else {
				rotate += d.bits_per_symbol - 1
			}
		}

		// descramble, transform, decode, build the soft replica
		d.fec_signal_energy = 0
		d.fec_noise_energy = 0
		var block_idx = 0
		for bit := 0; bit < d.bits_per_symbol; bit, block_idx = bit+1, block_idx+SymbolsPerBlock {
			var codeword = d.fht_codeword[block_idx : block_idx+SymbolsPerBlock]
			d.scramble_codeword(codeword, scrambling_mult*bit)
			fht(codeword)

			d.output_block[bit] = d.decode_char(codeword)

			d.soft_replica(codeword)
			d.normalize_abs_sum(codeword, 1.0)
			ifht(codeword)
			d.scramble_codeword(codeword, scrambling_mult*bit)
		}

		// gather the refined soft bits back into tone probabilities
		rotate = 0
		inp_idx = 0
		for time_bit := 0; time_bit < SymbolsPerBlock; time_bit, inp_idx = time_bit+1, inp_idx+d.carriers {
			var block_idx = time_bit + rotate*SymbolsPerBlock
			for bit := 0; bit < d.bits_per_symbol; bit++ {
				d.symbol_bit[bit] = d.fht_codeword[block_idx]
				block_idx += SymbolsPerBlock
				if block_idx >= block_size {
					block_idx -= block_size
				}
			}

			soft_modulate(d.input_extrinsic[inp_idx:], d.symbol_bit, d.bits_per_symbol)

			if rotate > 0 {
				rotate--
			} else {
				rotate += d.bits_per_symbol - 1
			}
		}

		// estimate the input signal and noise seen through the
		// current tone probabilities
		d.input_signal_energy = 0
		d.input_noise_energy = 0
		for inp_idx := 0; inp_idx < input_size; inp_idx++ {
			var tone_energy = d.input[inp_idx]
			var sig_prob = d.input_extrinsic[inp_idx]
			d.input_signal_energy += sig_prob * tone_energy
			d.input_noise_energy += (1 - sig_prob) * tone_energy
		}
		d.input_signal_energy -= d.input_noise_energy / float64(d.carriers-1)
		d.input_noise_energy *= float64(d.carriers) / float64(d.carriers-1)

	}
}

func (d *iter_decoder) input_snr_db() float64 {
	return 10 * math.Log10(d.input_signal_energy/d.input_noise_energy)
}

// write_output_block pushes the decoded characters of the block into
// the receiver's output queue.
func (d *iter_decoder) write_output_block(output *fifo[uint8]) int {
	var written = 0
	for bit := 0; bit < d.bits_per_symbol; bit++ {
		if !output.write(d.output_block[bit]) {
			break
		}
		written++
	}
	return written
}
