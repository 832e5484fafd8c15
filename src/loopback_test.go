package laika

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
 * Full transmit -> receive loopback, the closest thing to putting two
 * radios back to back on the bench.
 */

func loopback_params(t *testing.T) *Parameters {
	t.Helper()
	var p Parameters
	p.Default()
	p.BitsPerSymbol = 5
	p.Bandwidth = 1000
	p.RxSyncMargin = 2
	p.RxSyncIntegLen = 8
	require.NoError(t, p.Preset())
	return &p
}

// run_loopback pushes an idle preamble plus the message through the
// whole pipeline and returns everything the receiver decoded.
func run_loopback(t *testing.T, p *Parameters, message []byte, noise_rms float64, seed int64) []byte {
	t.Helper()

	var transmitter Transmitter
	require.NoError(t, transmitter.Preset(p))
	transmitter.SeedDither(seed)

	var receiver Receiver
	require.NoError(t, receiver.Preset(p))

	for idx := 0; idx < 40; idx++ {
		transmitter.PutChar(0)
	}
	for _, char := range message {
		transmitter.PutChar(char)
	}
	transmitter.Start()
	transmitter.Stop()

	var random = rand.New(rand.NewSource(seed))
	var symbol_periods = (len(message)/p.BitsPerSymbol + 20) * SymbolsPerBlock
	for idx := 0; idx < symbol_periods; idx++ {
		var audio = transmitter.Output()
		if noise_rms > 0 {
			AddWhiteNoise(random, audio, noise_rms)
		}
		receiver.Process(audio)

		// invariant: a stable lock implies the S/N cleared the threshold
		if receiver.StableLock() {
			assert.GreaterOrEqual(t, receiver.SyncSNR(), p.RxSyncThreshold)
		}
	}

	receiver.Flush()

	var output []byte
	for {
		var char, ok = receiver.GetChar()
		if !ok {
			break
		}
		output = append(output, char)
	}
	return output
}

// best_match slides the wanted message over the decoded stream and
// returns the lowest character difference count.
func best_match(message []byte, output []byte) int {
	var min_diffs = len(message)
	for ofs := 0; ofs+len(message) <= len(output); ofs++ {
		var diffs = 0
		for idx := range message {
			if message[idx] != output[ofs+idx] {
				diffs++
			}
		}
		if diffs < min_diffs {
			min_diffs = diffs
		}
	}
	return min_diffs
}

func Test_loopback_noiseless(t *testing.T) {
	if testing.Short() {
		t.Skip("loopback simulation is slow")
	}

	var p = loopback_params(t)

	var message = make([]byte, 128)
	for idx := range message {
		message[idx] = byte(idx)
	}

	var output = run_loopback(t, p, message, 0, 1)

	require.NotEmpty(t, output)
	assert.Zero(t, best_match(message, output), "message not recovered exactly")
}

func Test_loopback_with_noise(t *testing.T) {
	if testing.Short() {
		t.Skip("loopback simulation is slow")
	}

	var p = loopback_params(t)

	var message = make([]byte, 128)
	for idx := range message {
		message[idx] = byte('A' + idx%26)
	}

	// moderate white noise, well inside the modem's working range
	var output = run_loopback(t, p, message, 1.0, 42)

	require.NotEmpty(t, output)
	var errors = best_match(message, output)
	assert.LessOrEqual(t, errors, len(message)/20, "too many character errors under noise")
}

func Test_receiver_empty_input_is_a_no_op(t *testing.T) {
	var p = loopback_params(t)

	var receiver Receiver
	require.NoError(t, receiver.Preset(p))

	receiver.Process([]float64{})
	receiver.Process(nil)

	var _, ok = receiver.GetChar()
	assert.False(t, ok)
	assert.False(t, receiver.StableLock())
	assert.Zero(t, receiver.SyncSNR())
}

func Test_receiver_flush_idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("loopback simulation is slow")
	}

	var p = loopback_params(t)

	var receiver Receiver
	require.NoError(t, receiver.Preset(p))

	receiver.Process(make([]float64, 4096))
	receiver.Flush()
	for {
		var _, ok = receiver.GetChar()
		if !ok {
			break
		}
	}

	// a second flush of pure silence must not invent characters
	receiver.Flush()
	var _, ok = receiver.GetChar()
	assert.False(t, ok)
}

func Test_loopback_sample_rate_offset(t *testing.T) {
	if testing.Short() {
		t.Skip("loopback simulation is slow")
	}

	// transmit 100 ppm fast; the receiver's reported time drift must
	// converge to the injected mismatch
	var p Parameters
	p.Default()
	p.BitsPerSymbol = 5
	p.Bandwidth = 1000
	p.RxSyncMargin = 2
	p.RxSyncIntegLen = 8
	p.OutputSampleRate = 8000 * (1 + 100e-6)
	require.NoError(t, p.Preset())

	var transmitter Transmitter
	require.NoError(t, transmitter.Preset(&p))
	transmitter.SeedDither(9)

	var receiver Receiver
	require.NoError(t, receiver.Preset(&p))

	transmitter.Start()

	var blocks = 6 * p.RxSyncIntegLen
	for idx := 0; idx < blocks*SymbolsPerBlock; idx++ {
		receiver.Process(transmitter.Output())
	}

	assert.True(t, receiver.StableLock())
	assert.InDelta(t, 100.0, 1e6*receiver.TimeDrift(), 20.0)
}
