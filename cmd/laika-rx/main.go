package main

/*------------------------------------------------------------------
 *
 * Name:	laika-rx
 *
 * Purpose:	Decode MFSK audio into text on stdout.  Input comes
 *		from a raw S16 little-endian file, or from the default
 *		sound device when no file is given.
 *
 *----------------------------------------------------------------*/

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	laika "github.com/doismellburning/laika/src"
)

func main() {
	var mode = laika.AddModeFlags()
	var input_path = pflag.StringP("input-file", "i", "", "Read raw S16LE audio from this file instead of the sound device.")
	var capture_path = pflag.StringP("capture", "L", "", "Log the received audio to this raw S16LE file.")
	var status_period = pflag.DurationP("status", "p", 10*time.Second, "How often to log the receiver status.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Parse()
	if *help {
		pflag.Usage()
		return
	}

	var parameters laika.Parameters
	parameters.Default()
	if err := mode.Apply(&parameters); err != nil {
		log.Fatal("Bad config file", "error", err)
	}
	if err := parameters.Preset(); err != nil {
		log.Fatal("Bad parameters", "error", err)
	}
	parameters.Print()

	var receiver laika.Receiver
	if err := receiver.Preset(&parameters); err != nil {
		log.Fatal("Receiver preset failed", "error", err)
	}

	// the audio source: a raw file or the sound device
	var read_audio func() ([]int16, error)
	var finish func()

	if *input_path != "" {
		var file, err = os.Open(*input_path)
		if err != nil {
			log.Fatal("Cannot open input file", "error", err)
		}
		var reader = bufio.NewReader(file)
		var raw = make([]byte, 2*1024)
		var samples = make([]int16, 1024)
		read_audio = func() ([]int16, error) {
			var n, err = io.ReadFull(reader, raw)
			n &^= 1
			if n == 0 {
				return nil, err
			}
			for idx := 0; idx < n/2; idx++ {
				samples[idx] = int16(raw[2*idx]) | int16(raw[2*idx+1])<<8
			}
			return samples[:n/2], nil
		}
		finish = func() { file.Close() }
	} else {
		if err := laika.AudioInit(); err != nil {
			log.Fatal("PortAudio init failed", "error", err)
		}
		defer laika.AudioTerm()
		var device laika.SoundDevice
		if err := device.OpenForRead(int(parameters.InputSampleRate), 1024, *capture_path); err != nil {
			log.Fatal("Cannot open sound device", "error", err)
		}
		read_audio = device.Read
		finish = func() { device.Close() }
	}

	var output = bufio.NewWriter(os.Stdout)
	var last_status = time.Now()

	for {
		var samples, err = read_audio()
		if len(samples) > 0 {
			receiver.ProcessS16(samples)
		}

		for {
			var char, ok = receiver.GetChar()
			if !ok {
				break
			}
			if char >= ' ' || char == '\r' || char == '\n' || char == '\b' {
				output.WriteByte(char)
			}
		}
		output.Flush()

		if time.Since(last_status) >= *status_period {
			last_status = time.Now()
			log.Info("Receiver status",
				"sync_snr", strconv.FormatFloat(receiver.SyncSNR(), 'f', 1, 64),
				"snr_db", strconv.FormatFloat(receiver.InputSNRdB(), 'f', 1, 64),
				"freq_offset_hz", strconv.FormatFloat(receiver.FrequencyOffset(), 'f', 2, 64),
				"drift_hz_per_min", strconv.FormatFloat(60*receiver.FrequencyDrift(), 'f', 1, 64),
				"time_drift_ppm", strconv.FormatFloat(1e6*receiver.TimeDrift(), 'f', 0, 64),
				"locked", receiver.StableLock())
		}

		if err != nil {
			break
		}
	}

	receiver.Flush()
	for {
		var char, ok = receiver.GetChar()
		if !ok {
			break
		}
		if char >= ' ' || char == '\r' || char == '\n' || char == '\b' {
			output.WriteByte(char)
		}
	}
	output.Flush()
	finish()
}
