package main

/*------------------------------------------------------------------
 *
 * Name:	laika-tx
 *
 * Purpose:	Encode text into MFSK audio.  Output goes to a raw S16
 *		little-endian file, or to the default sound device when
 *		no file is given.
 *
 *----------------------------------------------------------------*/

import (
	"bufio"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	laika "github.com/doismellburning/laika/src"
)

func main() {
	var mode = laika.AddModeFlags()
	var output_path = pflag.StringP("output-file", "o", "", "Write raw S16LE audio to this file instead of the sound device.")
	var text = pflag.StringP("text", "t", "", "Text to send; stdin is read when empty.")
	var idle_chars = pflag.IntP("idle", "z", 40, "Idle (NUL) characters sent ahead of the text for synchronization.")
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

	var message []byte
	if *text != "" {
		message = []byte(*text)
	} else {
		var raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal("Reading stdin failed", "error", err)
		}
		message = raw
	}

	// the audio sink: a raw file or the sound device
	var write_audio func(samples []int16)
	var finish func()

	if *output_path != "" {
		var file, err = os.Create(*output_path)
		if err != nil {
			log.Fatal("Cannot create output file", "error", err)
		}
		var writer = bufio.NewWriter(file)
		write_audio = func(samples []int16) {
			for _, sample := range samples {
				writer.WriteByte(byte(sample))
				writer.WriteByte(byte(sample >> 8))
			}
		}
		finish = func() {
			writer.Flush()
			file.Close()
		}
	} else {
		if err := laika.AudioInit(); err != nil {
			log.Fatal("PortAudio init failed", "error", err)
		}
		defer laika.AudioTerm()
		var device laika.SoundDevice
		if err := device.OpenForWrite(int(parameters.OutputSampleRate), 1024); err != nil {
			log.Fatal("Cannot open sound device", "error", err)
		}
		write_audio = func(samples []int16) {
			if err := device.Write(samples); err != nil {
				log.Fatal("Audio write failed", "error", err)
			}
		}
		finish = func() {
			device.Drain()
			device.Close()
		}
	}

	for idx := 0; idx < *idle_chars; idx++ {
		transmitter.PutChar(0)
	}

	transmitter.Start()

	var pending = message
	var monitor = bufio.NewWriter(os.Stdout)
	for transmitter.Running() {
		for len(pending) > 0 && transmitter.PutChar(pending[0]&0x7F) {
			pending = pending[1:]
		}
		if len(pending) == 0 {
			transmitter.Stop()
		}

		var audio = transmitter.Output()
		write_audio(laika.ConvertToS16(audio))

		for {
			var char, ok = transmitter.GetChar()
			if !ok {
				break
			}
			if char >= ' ' || char == '\r' || char == '\n' {
				monitor.WriteByte(char)
			}
		}
		monitor.Flush()
	}

	finish()
	log.Info("Transmission complete", "characters", len(message))
}
