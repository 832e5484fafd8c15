package main

/*------------------------------------------------------------------
 *
 * Name:	laika-test
 *
 * Purpose:	Simulation of the full transmit -> noisy channel ->
 *		receive path, for checking the modem against a known
 *		message without any soundcard involved.
 *
 *----------------------------------------------------------------*/

import (
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	laika "github.com/doismellburning/laika/src"
)

func count_diffs(input []byte, output []byte) int {
	var diffs = 0
	for idx := range input {
		if input[idx] != output[idx] {
			diffs++
		}
	}
	return diffs
}

func main() {
	var mode = laika.AddModeFlags()
	var noise_rms = pflag.FloatP("noise-rms", "n", 3.6, "White noise RMS against a unit-amplitude signal.")
	var message_len = pflag.IntP("message-len", "m", 128, "Test message length [characters].")
	var seed = pflag.Int64P("seed", "s", 1, "Seed for the noise and dither generators.")
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

	var transmitter laika.Transmitter
	if err := transmitter.Preset(&parameters); err != nil {
		log.Fatal("Transmitter preset failed", "error", err)
	}
	transmitter.SeedDither(*seed)

	var receiver laika.Receiver
	if err := receiver.Preset(&parameters); err != nil {
		log.Fatal("Receiver preset failed", "error", err)
	}

	var input_message = make([]byte, *message_len)
	for idx := range input_message {
		input_message[idx] = byte(idx & 0x7F)
	}

	// idle preamble so the synchronizer can settle before the data
	for idx := 0; idx < 40; idx++ {
		transmitter.PutChar(0)
	}
	for _, char := range input_message {
		transmitter.PutChar(char)
	}
	transmitter.Start()

	var random = rand.New(rand.NewSource(*seed))
	var total_signal_energy, total_noise_energy float64

	var symbol_periods = (*message_len/parameters.BitsPerSymbol + 20) * laika.SymbolsPerBlock
	for idx := 0; idx < symbol_periods; idx++ {
		var audio = transmitter.Output()
		for _, sample := range audio {
			total_signal_energy += sample * sample
		}
		total_noise_energy += laika.AddWhiteNoise(random, audio, *noise_rms)
		receiver.Process(audio)

		if idx&0x1F == 0 {
			log.Info("Receiver status",
				"sync_snr", strconv.FormatFloat(receiver.SyncSNR(), 'f', 1, 64),
				"freq_offset_hz", strconv.FormatFloat(receiver.FrequencyOffset(), 'f', 2, 64),
				"drift_hz_per_min", strconv.FormatFloat(60*receiver.FrequencyDrift(), 'f', 1, 64),
				"time_drift_ppm", strconv.FormatFloat(1e6*receiver.TimeDrift(), 'f', 0, 64))
		}
	}

	receiver.Flush()

	var output_message []byte
	for {
		var char, ok = receiver.GetChar()
		if !ok {
			break
		}
		output_message = append(output_message, char)
	}

	var printable strings.Builder
	for _, char := range output_message {
		if char > ' ' {
			printable.WriteByte(char)
		} else {
			printable.WriteByte('.')
		}
	}
	log.Info("Receiver output", "len", len(output_message), "text", printable.String())

	// slide the known message over the output and take the best match
	var min_diffs = *message_len
	var min_ofs = 0
	for ofs := 0; ofs+*message_len <= len(output_message); ofs++ {
		var diffs = count_diffs(input_message, output_message[ofs:ofs+*message_len])
		if diffs < min_diffs {
			min_diffs = diffs
			min_ofs = ofs
		}
	}
	log.Info("Character errors", "errors", min_diffs, "total", *message_len, "offset", min_ofs)

	if total_noise_energy > 0 {
		var snr = total_signal_energy / total_noise_energy
		log.Info("Channel S/N in 4 kHz", "ratio", strconv.FormatFloat(snr, 'f', 3, 64))
	}

	if min_diffs > 0 {
		os.Exit(1)
	}
}
