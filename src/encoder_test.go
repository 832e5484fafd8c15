package laika

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feed_block pushes one encoded block into a soft decoder as ideal
// soft bit decisions, SpectraPerSymbol slices per symbol.
func feed_block(decoder *soft_decoder, block []uint8, bits_per_symbol int) {
	var symbol = make([]float64, bits_per_symbol)
	for _, value := range block {
		for bit := 0; bit < bits_per_symbol; bit++ {
			if value&(1<<bit) != 0 {
				symbol[bit] = -1
			} else {
				symbol[bit] = +1
			}
		}
		for slice := 0; slice < SpectraPerSymbol; slice++ {
			decoder.input(symbol)
		}
	}
}

func Test_encoder_output_range(t *testing.T) {
	for bits := 1; bits <= 8; bits++ {
		var enc encoder
		enc.preset(bits)

		var input = make([]uint8, bits)
		for idx := range input {
			input[idx] = uint8(17*idx + 5)
		}
		enc.encode_block(input)

		require.Len(t, enc.output_block, SymbolsPerBlock)
		for _, symbol := range enc.output_block {
			assert.Less(t, int(symbol), exp2(uint(bits)))
		}
	}
}

func Test_encode_decode_roundtrip(t *testing.T) {
	var p Parameters
	p.Default()
	require.NoError(t, p.Preset())

	var enc encoder
	enc.preset(p.BitsPerSymbol)

	var dec soft_decoder
	dec.preset(&p)

	// every 7-bit character in some position of some block
	for base := 0; base < 128; base += p.BitsPerSymbol {
		var input = make([]uint8, p.BitsPerSymbol)
		for idx := range input {
			input[idx] = uint8((base + idx) & 0x7F)
		}
		enc.encode_block(input)

		dec.reset()
		feed_block(&dec, enc.output_block, p.BitsPerSymbol)
		dec.process()

		assert.Equal(t, input, dec.output_block)
		assert.Greater(t, dec.signal, 0.0)
	}
}

func Test_single_bit_flip_corrected(t *testing.T) {
	var p Parameters
	p.Default()
	require.NoError(t, p.Preset())

	var enc encoder
	enc.preset(p.BitsPerSymbol)

	var input = []uint8{'l', 'a', 'i', 'k', 'a'}
	enc.encode_block(input)

	var random = rand.New(rand.NewSource(5))
	var dec soft_decoder
	dec.preset(&p)

	var corrupted = make([]uint8, SymbolsPerBlock)
	for trial := 0; trial < 64; trial++ {
		copy(corrupted, enc.output_block)
		var position = random.Intn(SymbolsPerBlock)
		var bit = random.Intn(p.BitsPerSymbol)
		corrupted[position] ^= 1 << bit

		dec.reset()
		feed_block(&dec, corrupted, p.BitsPerSymbol)
		dec.process()

		assert.Equalf(t, input, dec.output_block, "flip at symbol %d bit %d not corrected", position, bit)
	}
}
