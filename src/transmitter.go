package laika

/*------------------------------------------------------------------
 *
 * Purpose:	MFSK transmitter: FEC encoder + modulator + output rate
 *		converter behind a character queue.
 *
 *		The caller pulls audio one symbol period at a time with
 *		Output().  After Stop() the transmitter keeps running
 *		until the input queue is drained and the last FEC block
 *		has gone out in full.
 *
 *----------------------------------------------------------------*/

import (
	"math"
	"math/rand"
)

const (
	state_running  = 0x0001
	state_stop_req = 0x0010
)

type Transmitter struct {
	parameters *Parameters

	MaxOutputLen int // maximum length of one audio batch from Output()

	bits_per_symbol int

	state int

	input       fifo[uint8] // characters waiting to be encoded
	input_block []uint8
	monitor     fifo[uint8] // characters actually going out

	encoder    encoder
	symbol_ptr int

	modulator modulator

	modulator_output []float64
	rate_converter   rate_converter
	converter_output []float64
}

// Preset sizes the internal buffers for the given (frozen) parameters.
func (t *Transmitter) Preset(parameters *Parameters) error {
	t.parameters = parameters

	t.bits_per_symbol = parameters.BitsPerSymbol

	t.input.preset(1024)
	t.monitor.preset(256)
	t.input_block = make([]uint8, t.bits_per_symbol)

	t.encoder.preset(t.bits_per_symbol)

	t.modulator.preset(parameters)

	t.modulator_output = make([]float64, t.modulator.output_len)

	t.rate_converter.default_settings()
	t.rate_converter.output_rate = parameters.OutputSampleRate / float64(parameters.SampleRate)
	t.rate_converter.preset()

	t.MaxOutputLen = int(math.Ceil(float64(parameters.SymbolSepar)*parameters.OutputSampleRate/float64(parameters.SampleRate))) + 2
	t.converter_output = make([]float64, 0, t.MaxOutputLen)

	t.Reset()

	return nil
}

// Reset discards all queued characters and in-flight audio.
func (t *Transmitter) Reset() {
	t.input.reset()
	t.monitor.reset()
	t.symbol_ptr = 0
	t.state = 0
	t.modulator.reset()
	t.rate_converter.reset()
}

// SeedDither fixes the phase dither source, for reproducible tests.
func (t *Transmitter) SeedDither(seed int64) {
	t.modulator.random = rand.New(rand.NewSource(seed))
}

// Start begins the transmission.
func (t *Transmitter) Start() {
	t.state |= state_running
}

// Stop requests the transmission to complete: the transmitter only
// stops after all queued data has been sent.
func (t *Transmitter) Stop() {
	t.state |= state_stop_req
}

// Running reports whether the transmission is still going.
func (t *Transmitter) Running() bool {
	return t.state&state_running != 0
}

// PutChar queues a character for transmission; false when the queue is full.
func (t *Transmitter) PutChar(char byte) bool {
	return t.input.write(char)
}

// GetChar takes one character from the monitor queue.
func (t *Transmitter) GetChar() (byte, bool) {
	return t.monitor.read()
}

// Output produces the audio for one symbol period (resampled to the
// output device rate).  The returned slice is reused between calls.
func (t *Transmitter) Output() []float64 {
	if t.symbol_ptr == 0 { // at the block boundary
		if t.state&state_stop_req != 0 && t.input.empty() {
			t.state = 0
		} else if t.state&state_running != 0 {
			// form and encode a new block
			var idx = 0
			for ; idx < t.bits_per_symbol; idx++ {
				var char, ok = t.input.read()
				if !ok {
					break
				}
				t.input_block[idx] = char
				t.monitor.write(char)
			}
			for ; idx < t.bits_per_symbol; idx++ {
				t.input_block[idx] = 0
			}
			t.encoder.encode_block(t.input_block)
		}
	}
	if t.state&state_running != 0 {
		t.modulator.send(t.encoder.output_block[t.symbol_ptr])
		t.symbol_ptr++
		if t.symbol_ptr >= SymbolsPerBlock {
			t.symbol_ptr = 0
		}
	}
	var mod_len = t.modulator.output(t.modulator_output)
	t.converter_output = t.rate_converter.process(t.modulator_output[:mod_len], t.converter_output[:0])
	return t.converter_output
}
