package laika

// box_filter is a running-box (moving sum) filter.  The output is the
// sum over the last len taps; divide by the length for the mean.
type box_filter struct {
	tap    []float64
	ptr    int
	output float64
}

func (f *box_filter) preset(length int) {
	if cap(f.tap) >= length {
		f.tap = f.tap[:length]
	} else {
		f.tap = make([]float64, length)
	}
	f.clear()
}

func (f *box_filter) clear() {
	for idx := range f.tap {
		f.tap[idx] = 0
	}
	f.ptr = 0
	f.output = 0
}

func (f *box_filter) process(input float64) {
	f.output -= f.tap[f.ptr]
	f.output += input
	f.tap[f.ptr] = input
	f.ptr++
	if f.ptr >= len(f.tap) {
		f.ptr = 0
	}
}

// lowpass_filter is a one-pole low pass integrator:
// output += weight * (input - output).
type lowpass_filter struct {
	output float64
}

func (f *lowpass_filter) process(input float64, weight float64) {
	f.output += weight * (input - f.output)
}

func (f *lowpass_filter) reset() {
	f.output = 0
}
