package laika

/*------------------------------------------------------------------
 *
 * Purpose:	Shared command line options of the modem tools: the
 *		mode parameters every binary accepts, mirroring the
 *		original single-letter option set.
 *
 *----------------------------------------------------------------*/

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

type ModeFlags struct {
	tones     *int
	bandwidth *int
	edge      *float64
	margin    *int
	integ     *int
	threshold *float64
	rates     *string
	config    *string
}

// AddModeFlags registers the common mode options on the default flag set.
func AddModeFlags() *ModeFlags {
	var f ModeFlags
	f.tones = pflag.IntP("tones", "T", 32, "Number of tones: 4, 8, 16, 32, 64, 128, 256.")
	f.bandwidth = pflag.IntP("bandwidth", "B", 1000, "Bandwidth [Hz]: 125, 250, 500, 1000, 2000.")
	f.edge = pflag.FloatP("edge", "E", 500, "Lower audio band edge [Hz].")
	f.margin = pflag.IntP("margin", "M", 4, "Synchronizer frequency search margin [carrier spacings].")
	f.integ = pflag.IntP("integ", "I", 8, "Synchronizer integration period [FEC blocks].")
	f.threshold = pflag.FloatP("threshold", "S", 3.0, "S/N threshold for a stable lock.")
	f.rates = pflag.StringP("rates", "R", "", "True sample rates as <tx>/<rx> or a single value for both.")
	f.config = pflag.StringP("config", "c", "laika.yaml", "Optional YAML mode file.")
	return &f
}

// Apply merges the config file (when present) and then any explicitly
// given flags onto the parameters.  Call after pflag.Parse().
func (f *ModeFlags) Apply(p *Parameters) error {
	var config, err = LoadModemConfig(*f.config, !pflag.CommandLine.Changed("config"))
	if err != nil {
		return err
	}
	config.Apply(p)

	if pflag.CommandLine.Changed("tones") {
		p.BitsPerSymbol = int(log2(*f.tones))
	}
	if pflag.CommandLine.Changed("bandwidth") {
		p.Bandwidth = *f.bandwidth
	}
	if pflag.CommandLine.Changed("edge") {
		p.LowerBandEdge = *f.edge
	}
	if pflag.CommandLine.Changed("margin") {
		p.RxSyncMargin = *f.margin
	}
	if pflag.CommandLine.Changed("integ") {
		p.RxSyncIntegLen = *f.integ
	}
	if pflag.CommandLine.Changed("threshold") {
		p.RxSyncThreshold = *f.threshold
	}
	if *f.rates != "" {
		var out_str, in_str, both = strings.Cut(*f.rates, "/")
		out_rate, err := strconv.ParseFloat(out_str, 64)
		if err != nil {
			log.Fatal("Unreadable sample rate", "rates", *f.rates)
		}
		p.OutputSampleRate = out_rate
		p.InputSampleRate = out_rate
		if both {
			in_rate, err := strconv.ParseFloat(in_str, 64)
			if err != nil {
				log.Fatal("Unreadable sample rate", "rates", *f.rates)
			}
			p.InputSampleRate = in_rate
		}
	}
	return nil
}
