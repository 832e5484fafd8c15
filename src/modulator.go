package laika

/*------------------------------------------------------------------
 *
 * Purpose:	MFSK modulator: synthesis of the tone bursts.
 *
 *		Symbols accumulate into a circular output tap of one
 *		symbol length with 4x overlap-add.  A shared integer
 *		phase indexes the cosine table so consecutive bursts on
 *		the same tone stay phase continuous; an optional 90
 *		degree dither decorrelates the bursts.
 *
 *----------------------------------------------------------------*/

import (
	"math"
	"math/rand"
)

type modulator struct {
	parameters *Parameters

	output_len int // output length per transmitted symbol [samples]

	symbol_len   int
	symbol_separ int

	cosine_table []float64
	symbol_shape []float64
	symbol_phase int // running tone phase [table entries]
	out_tap      []float64
	tap_ptr      int
	wrap_mask    int

	random *rand.Rand
}

func (m *modulator) preset(parameters *Parameters) {
	m.parameters = parameters

	m.symbol_len = parameters.SymbolLen
	m.symbol_separ = parameters.SymbolSepar

	m.cosine_table = make([]float64, m.symbol_len)
	for idx := 0; idx < m.symbol_len; idx++ {
		m.cosine_table[idx] = math.Cos(2 * math.Pi * float64(idx) / float64(m.symbol_len))
	}

	m.symbol_shape = make_symbol_shape(m.symbol_len, 1.0/(2*CarrierSepar))

	m.out_tap = make([]float64, m.symbol_len)
	m.tap_ptr = 0

	m.wrap_mask = m.symbol_len - 1
	m.symbol_phase = 0

	m.output_len = m.symbol_separ

	if m.random == nil {
		m.random = rand.New(rand.NewSource(1))
	}
}

func (m *modulator) reset() {
	for idx := range m.out_tap {
		m.out_tap[idx] = 0
	}
	m.tap_ptr = 0
	m.symbol_phase = 0
}

// send accumulates one symbol into the output tap.
func (m *modulator) send(symbol uint8) {
	if use_gray_code {
		symbol = gray_code(symbol)
	}

	var symbol_freq = m.parameters.FirstCarrier + CarrierSepar*int(symbol)

	// centre the shape over the current symbol_separ block
	var time_shift = m.symbol_separ/2 - m.symbol_len/2
	m.symbol_phase += symbol_freq * time_shift
	m.symbol_phase &= m.wrap_mask

	m.add_symbol(symbol_freq, m.symbol_phase)

	time_shift = m.symbol_separ/2 + m.symbol_len/2
	m.symbol_phase += symbol_freq * time_shift
	m.symbol_phase &= m.wrap_mask

	if phase_differ {
		var phase_shift = m.symbol_len / 4
		if m.random.Intn(2) != 0 {
			phase_shift = -phase_shift
		}
		m.symbol_phase += phase_shift
	}

	m.symbol_phase &= m.wrap_mask
}

// output takes symbol_separ samples out of the tap, zeroing the
// released cells so later symbols accumulate into a clean buffer.
func (m *modulator) output(buffer []float64) int {
	for idx := 0; idx < m.symbol_separ; idx++ {
		buffer[idx] = m.out_tap[m.tap_ptr]
		m.out_tap[m.tap_ptr] = 0
		m.tap_ptr = (m.tap_ptr + 1) & m.wrap_mask
	}
	return m.symbol_separ
}

func (m *modulator) add_symbol(freq int, phase int) {
	for time := 0; time < m.symbol_len; time++ {
		m.out_tap[m.tap_ptr] += m.cosine_table[phase] * m.symbol_shape[time]
		phase = (phase + freq) & m.wrap_mask
		m.tap_ptr = (m.tap_ptr + 1) & m.wrap_mask
	}
}
