package laika

/*------------------------------------------------------------------
 *
 * Purpose:	Fractional sample rate converter, to absorb the
 *		difference between the nominal processing rate and the
 *		true soundcard rate.
 *
 *		Polyphase FIR: a Blackman-Harris windowed sinc of
 *		tap_len * over_sampling points, convolved at the two
 *		oversampled phases either side of the fractional output
 *		time and linearly interpolated between them.
 *
 *----------------------------------------------------------------*/

import "math"

type rate_converter struct {
	tap_len       int     // filter tap length [input samples]
	over_sampling int     // internal oversampling factor
	upper_freq    float64 // lowpass cutoff [fraction of the input rate]
	output_rate   float64 // output rate [in terms of the input rate]

	filter_len    int
	filter_shape  []float64
	input_tap     []float64
	input_tap_ptr int
	input_wrap    int

	output_time   float64
	output_period float64
	output_before float64
	output_after  float64
	output_ptr    int
}

func (rc *rate_converter) default_settings() {
	rc.tap_len = 16
	rc.over_sampling = 16
	rc.upper_freq = 3.0 / 8
	rc.output_rate = 1.0
}

func (rc *rate_converter) preset() {
	rc.filter_len = rc.tap_len * rc.over_sampling

	rc.filter_shape = make([]float64, rc.filter_len)
	rc.input_tap = make([]float64, rc.tap_len)

	for idx := 0; idx < rc.filter_len; idx++ {
		var phase = math.Pi * float64(2*idx-rc.filter_len) / float64(rc.filter_len)
		var window = 0.35875 + 0.48829*math.Cos(phase) + 0.14128*math.Cos(2*phase) + 0.01168*math.Cos(3*phase) // Blackman-Harris
		var filter = 1.0
		if phase != 0 {
			phase *= rc.upper_freq * float64(rc.tap_len)
			filter = math.Sin(phase) / phase
		}
		rc.filter_shape[idx] = window * filter * 2 * rc.upper_freq // unity DC gain
	}

	rc.reset()
}

func (rc *rate_converter) reset() {
	rc.input_wrap = rc.tap_len - 1
	for idx := range rc.input_tap {
		rc.input_tap[idx] = 0
	}
	rc.input_tap_ptr = 0

	rc.output_time = 0
	rc.output_period = float64(rc.over_sampling) / rc.output_rate
	rc.output_before = 0
	rc.output_after = 0
	rc.output_ptr = 0
}

func (rc *rate_converter) convolute(shift int) float64 {
	var sum float64
	shift = (rc.over_sampling - 1) - shift
	var idx = rc.input_tap_ptr
	for ; shift < rc.filter_len; shift += rc.over_sampling {
		sum += rc.input_tap[idx] * rc.filter_shape[shift]
		idx = (idx + 1) & rc.input_wrap
	}
	return sum
}

func (rc *rate_converter) new_input(input float64) {
	rc.input_tap[rc.input_tap_ptr] = input
	rc.input_tap_ptr = (rc.input_tap_ptr + 1) & rc.input_wrap
}

// process consumes the input batch and appends the converted samples
// to output, returning the grown slice.
func (rc *rate_converter) process(input []float64, output []float64) []float64 {
	var input_idx = 0
	for {
		if rc.output_ptr != 0 {
			var idx = int(math.Floor(rc.output_time)) + 1
			if idx >= rc.over_sampling {
				if input_idx >= len(input) {
					break
				}
				rc.new_input(input[input_idx])
				input_idx++
				idx -= rc.over_sampling
				rc.output_time -= float64(rc.over_sampling)
			}
			rc.output_after = rc.convolute(idx)
			var weight = float64(idx) - rc.output_time
			output = append(output, weight*rc.output_before+(1.0-weight)*rc.output_after)
			rc.output_ptr = 0
		} else {
			var idx = int(math.Floor(rc.output_time + rc.output_period))
			if idx >= rc.over_sampling {
				if input_idx >= len(input) {
					break
				}
				rc.new_input(input[input_idx])
				input_idx++
				idx -= rc.over_sampling
				rc.output_time -= float64(rc.over_sampling)
			}
			rc.output_before = rc.convolute(idx)
			rc.output_time += rc.output_period
			rc.output_ptr = 1
		}
	}
	return output
}
