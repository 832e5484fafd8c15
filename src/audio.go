package laika

/*------------------------------------------------------------------
 *
 * Purpose:	Interface to the audio device commonly called a "sound
 *		card" for historical reasons.
 *
 *		Everything inside the modem is floating point scaled so
 *		that +/-1.0 maps to +/-32767 at this boundary, with hard
 *		saturation.  The device itself is PortAudio; all blocking
 *		happens here and nowhere else in the pipeline.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"os"

	"github.com/gordonklaus/portaudio"
)

// convert_to_s16 converts float audio to 16-bit signed with saturation.
func convert_to_s16(input []float64, output []int16) {
	const scale = 32768.0
	const s16_limit = 32767
	for idx := range input {
		var out = int(math.Floor(scale*input[idx] + 0.5))
		if out > s16_limit {
			out = s16_limit
		} else if out < -s16_limit {
			out = -s16_limit
		}
		output[idx] = int16(out)
	}
}

// convert_from_s16 converts 16-bit signed audio to float.
func convert_from_s16(input []int16, output []float64) {
	const scale = 1.0 / 32768.0
	for idx := range input {
		output[idx] = float64(input[idx]) * scale
	}
}

// ConvertToS16 is the exported batch conversion for the cmd tools.
func ConvertToS16(input []float64) []int16 {
	var output = make([]int16, len(input))
	convert_to_s16(input, output)
	return output
}

// ConvertFromS16 is the exported batch conversion for the cmd tools.
func ConvertFromS16(input []int16) []float64 {
	var output = make([]float64, len(input))
	convert_from_s16(input, output)
	return output
}

// AudioInit must be called once before any SoundDevice is opened.
func AudioInit() error {
	return portaudio.Initialize()
}

func AudioTerm() error {
	return portaudio.Terminate()
}

// SoundDevice is a mono 16-bit PCM stream in one direction, with an
// optional raw S16 capture file of everything read.
type SoundDevice struct {
	frames int

	in_stream  *portaudio.Stream
	out_stream *portaudio.Stream
	in_buffer  []int16
	out_buffer []int16
	out_fill   int

	capture *os.File
}

// OpenForRead opens the default capture device at the given rate.
// A non-empty capture_path logs the received audio as raw S16.
func (d *SoundDevice) OpenForRead(rate int, frames int, capture_path string) error {
	d.frames = frames
	d.in_buffer = make([]int16, frames)
	var stream, err = portaudio.OpenDefaultStream(1, 0, float64(rate), frames, &d.in_buffer)
	if err != nil {
		return fmt.Errorf("audio open (read): %w", err)
	}
	d.in_stream = stream
	if err = stream.Start(); err != nil {
		stream.Close()
		d.in_stream = nil
		return fmt.Errorf("audio start (read): %w", err)
	}
	if capture_path != "" {
		d.capture, err = os.Create(capture_path)
		if err != nil {
			return fmt.Errorf("audio capture file: %w", err)
		}
	}
	return nil
}

// OpenForWrite opens the default playback device at the given rate.
func (d *SoundDevice) OpenForWrite(rate int, frames int) error {
	d.frames = frames
	d.out_buffer = make([]int16, frames)
	d.out_fill = 0
	var stream, err = portaudio.OpenDefaultStream(0, 1, float64(rate), frames, &d.out_buffer)
	if err != nil {
		return fmt.Errorf("audio open (write): %w", err)
	}
	d.out_stream = stream
	if err = stream.Start(); err != nil {
		stream.Close()
		d.out_stream = nil
		return fmt.Errorf("audio start (write): %w", err)
	}
	return nil
}

// Read blocks for one buffer of input samples.  The returned slice is
// reused between calls.
func (d *SoundDevice) Read() ([]int16, error) {
	if err := d.in_stream.Read(); err != nil {
		return nil, err
	}
	if d.capture != nil {
		var raw = make([]byte, 2*len(d.in_buffer))
		for idx, sample := range d.in_buffer {
			raw[2*idx] = byte(sample)
			raw[2*idx+1] = byte(sample >> 8)
		}
		d.capture.Write(raw)
	}
	return d.in_buffer, nil
}

// Write queues samples for playback, blocking whenever a full device
// buffer is ready.
func (d *SoundDevice) Write(samples []int16) error {
	for len(samples) > 0 {
		var room = d.frames - d.out_fill
		if room > len(samples) {
			room = len(samples)
		}
		copy(d.out_buffer[d.out_fill:], samples[:room])
		d.out_fill += room
		samples = samples[room:]
		if d.out_fill == d.frames {
			if err := d.out_stream.Write(); err != nil {
				return err
			}
			d.out_fill = 0
		}
	}
	return nil
}

// Drain pads the partial output buffer with silence and plays it.
func (d *SoundDevice) Drain() error {
	if d.out_stream == nil || d.out_fill == 0 {
		return nil
	}
	for idx := d.out_fill; idx < d.frames; idx++ {
		d.out_buffer[idx] = 0
	}
	d.out_fill = 0
	return d.out_stream.Write()
}

func (d *SoundDevice) Close() error {
	var first error
	if d.in_stream != nil {
		d.in_stream.Stop()
		first = d.in_stream.Close()
		d.in_stream = nil
	}
	if d.out_stream != nil {
		d.out_stream.Stop()
		if err := d.out_stream.Close(); first == nil {
			first = err
		}
		d.out_stream = nil
	}
	if d.capture != nil {
		d.capture.Close()
		d.capture = nil
	}
	return first
}
