package fec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeDecode_RoundTripRate1_2(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(t, "n")
		bits := make([]byte, n+6) // trailing 6-bit zero tail terminates the trellis
		for i := 0; i < n; i++ {
			bits[i] = rapid.SampledFrom([]byte{0, 1}).Draw(t, "bit")
		}

		coded := Encode(bits)
		require.Len(t, coded, len(bits)*2)

		soft := make([]byte, len(coded))
		for i, b := range coded {
			if b != 0 {
				soft[i] = 255
			}
		}

		decoded, err := Decode(soft, len(bits))
		require.NoError(t, err)
		assert.Equal(t, bits, decoded)
	})
}

func TestPunctureDepuncture_RoundTripRate2_3(t *testing.T) {
	coded := []byte{1, 0, 1, 1, 0, 0, 1, 1}
	punctured := Puncture(coded, Rate2_3)

	soft := make([]byte, len(punctured))
	for i, b := range punctured {
		if b != 0 {
			soft[i] = 255
		}
	}
	depunctured := Depuncture(soft, Rate2_3, len(coded))

	for i, keep := range puncturePatterns[Rate2_3] {
		idx := i
		for idx < len(coded) {
			if keep {
				var want byte
				if coded[idx] != 0 {
					want = 255
				}
				assert.Equal(t, want, depunctured[idx])
			} else {
				assert.Equal(t, byte(128), depunctured[idx])
			}
			idx += len(puncturePatterns[Rate2_3])
		}
	}
}

func TestDecode_ErrorsOnLengthMismatch(t *testing.T) {
	_, err := Decode(make([]byte, 10), 6)
	require.Error(t, err)
}
