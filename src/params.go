package laika

/*------------------------------------------------------------------
 *
 * Purpose:	Session parameters for the MFSK modem.
 *
 *		The primary fields are set by the user, then Preset()
 *		freezes them: out-of-range values are silently pulled to
 *		the closest legal ones and the derived geometry (symbol
 *		length, first carrier bin) is computed.  Both the
 *		transmitter and the receiver read the same Parameters.
 *
 *----------------------------------------------------------------*/

import "math"

// Fixed parameters.  The scrambling code, the Gray mapping and the
// multiplier 13 are part of the on-air format, not configuration.
const (
	BitsPerCharacter = 7
	SymbolsPerBlock  = 1 << (BitsPerCharacter - 1)
	CarrierSepar     = 4 // [FFT bins]
	SpectraPerSymbol = 4 // [spectral slices]
	SpectraPerBlock  = SpectraPerSymbol * SymbolsPerBlock

	ScramblingCode uint64 = 0xE257E6D0291574EC
	scrambling_mult       = 13
)

const (
	use_gray_code         = true
	phase_differ          = true
	rx_sync_square_energy = true
	decode_square_energy  = true
)

type Parameters struct {
	// primary parameters
	BitsPerSymbol    int     // [bits] tone count is 2^BitsPerSymbol
	Bandwidth        int     // [Hz]
	SampleRate       int     // [Hz] internal processing rate
	LowerBandEdge    float64 // [Hz]
	InputSampleRate  float64 // [Hz] true soundcard input rate
	OutputSampleRate float64 // [Hz] true soundcard output rate
	RxSyncMargin     int     // [carrier spacings]
	RxSyncIntegLen   int     // [FEC blocks]
	RxSyncThreshold  float64 // [S/N]

	// secondary parameters, valid after Preset()
	Carriers     int
	SymbolSepar  int // [samples]
	SymbolLen    int // [samples], the FFT size, a power of two
	FirstCarrier int // [FFT bins]
}

func (p *Parameters) Default() {
	p.BitsPerSymbol = 5
	p.SampleRate = 8000
	p.Bandwidth = 1000
	p.LowerBandEdge = float64(p.SampleRate) / 16
	p.InputSampleRate = float64(p.SampleRate)
	p.OutputSampleRate = float64(p.SampleRate)
	p.RxSyncIntegLen = 8
	p.RxSyncMargin = 4
	p.RxSyncThreshold = 3.0
}

// Preset freezes the parameter set: clamps the primary fields into the
// legal range and derives the modem geometry.
func (p *Parameters) Preset() error {
	if p.BitsPerSymbol > 8 {
		p.BitsPerSymbol = 8
	} else if p.BitsPerSymbol < 1 {
		p.BitsPerSymbol = 1
	}
	p.Carriers = exp2(uint(p.BitsPerSymbol))

	var min_bandwidth = p.SampleRate / 64
	var max_bandwidth = p.SampleRate / 4
	if p.Bandwidth < min_bandwidth {
		p.Bandwidth = min_bandwidth
	} else if p.Bandwidth > max_bandwidth {
		p.Bandwidth = max_bandwidth
	}
	p.Bandwidth = min_bandwidth * exp2(log2(p.Bandwidth/min_bandwidth))

	p.SymbolSepar = (p.SampleRate / p.Bandwidth) * p.Carriers
	p.SymbolLen = p.SymbolSepar * CarrierSepar

	p.FirstCarrier = int(math.Floor(p.LowerBandEdge/float64(p.SampleRate)*float64(p.SymbolLen)+0.5)) + CarrierSepar/2
	if p.FirstCarrier+p.Carriers*CarrierSepar >= p.SymbolLen/2 {
		p.FirstCarrier = p.SymbolLen/2 - p.Carriers*CarrierSepar
	}
	p.LowerBandEdge = float64(p.FirstCarrier-CarrierSepar/2) * float64(p.SampleRate) / float64(p.SymbolLen)

	if p.RxSyncMargin > p.FirstCarrier/CarrierSepar {
		p.RxSyncMargin = p.FirstCarrier / CarrierSepar
	}
	var max_margin = (p.SymbolLen/2 - p.FirstCarrier - (p.Carriers-1)*CarrierSepar - 1) / CarrierSepar
	if p.RxSyncMargin > max_margin {
		p.RxSyncMargin = max_margin
	}

	return nil
}

func (p *Parameters) BaudRate() float64 {
	return float64(p.SampleRate) / float64(p.SymbolSepar)
}

func (p *Parameters) FFTbinBandwidth() float64 {
	return float64(p.SampleRate) / float64(p.SymbolLen)
}

func (p *Parameters) CarrierBandwidth() float64 {
	return float64(p.SampleRate) / float64(p.SymbolLen) * CarrierSepar
}

// TuneMargin is the frequency search range of the synchronizer, one side.
func (p *Parameters) TuneMargin() float64 {
	return p.CarrierBandwidth() * float64(p.RxSyncMargin)
}

func (p *Parameters) BlockPeriod() float64 {
	return float64(SymbolsPerBlock*p.SymbolSepar) / float64(p.SampleRate)
}

func (p *Parameters) CharactersPerSecond() float64 {
	return float64(p.BitsPerSymbol) * float64(p.SampleRate) / float64(SymbolsPerBlock*p.SymbolSepar)
}

// Print writes a human readable summary of the mode, like the status
// line of the original terminal application.
func (p *Parameters) Print() {
	con_printf("MFSK parameters:\n")
	con_printf("%d (%4.1f-%4.1f) Hz, %d tones\n",
		p.Bandwidth, p.LowerBandEdge, p.LowerBandEdge+float64(p.Bandwidth), p.Carriers)
	con_printf("Sample rate: %d(int.) %6.1f(input) %6.1f(output) [Hz]\n",
		p.SampleRate, p.InputSampleRate, p.OutputSampleRate)
	con_printf("Symbol/FFT: %d/%d, FirstCarrier=%d, FFT sampling: %dx%d\n",
		p.SymbolSepar, p.SymbolLen, p.FirstCarrier, SpectraPerSymbol, CarrierSepar)
	con_printf("%d bits/symbol, %5.3f baud, %d symbols/block, %5.3f sec/block\n",
		p.BitsPerSymbol, p.BaudRate(), SymbolsPerBlock, p.BlockPeriod())
	con_printf("Synchronizer: +/-%d carriers = +/-%4.1f Hz, %d blocks = %3.1f sec\n",
		p.RxSyncMargin, p.TuneMargin(), p.RxSyncIntegLen, float64(p.RxSyncIntegLen)*p.BlockPeriod())
}
