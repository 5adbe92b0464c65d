package wlan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestInterleaver_RoundTrip(t *testing.T) {
	// (ncbps, nbpsc) pairs actually exercised by the rate table.
	pairs := [][2]int{{48, 1}, {96, 2}, {192, 4}, {288, 6}}

	rapid.Check(t, func(t *rapid.T) {
		pair := rapid.SampledFrom(pairs).Draw(t, "pair")
		ncbps, nbpsc := pair[0], pair[1]
		reps := rapid.IntRange(1, 4).Draw(t, "reps")

		bits := make([]byte, ncbps*reps)
		for i := range bits {
			bits[i] = rapid.SampledFrom([]byte{0, 1}).Draw(t, "bit")
		}

		interleaved := Interleave(bits, ncbps, nbpsc)
		deinterleaved := Deinterleave(interleaved, ncbps, nbpsc)

		assert.Equal(t, bits, deinterleaved)
	})
}

func TestInterleaver_PermutesWithinSymbol(t *testing.T) {
	bits := make([]byte, 48)
	for i := range bits {
		bits[i] = byte(i % 2)
	}
	interleaved := Interleave(bits, 48, 1)
	assert.NotEqual(t, bits, interleaved, "a real permutation should move at least one bit")

	// every bit present exactly once, just reordered
	var sum, sumI int
	for i := range bits {
		sum += int(bits[i])
		sumI += int(interleaved[i])
	}
	assert.Equal(t, sum, sumI)
}
