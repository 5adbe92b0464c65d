package wlan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSignal_PackParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entry := rapid.SampledFrom(RateTable).Draw(t, "rate")
		length := rapid.IntRange(1, 4095).Draw(t, "length")
		reserved := rapid.Bool().Draw(t, "reserved")

		sig := Signal{SignalCode: entry.SignalCode, Reserved: reserved, Length: length}
		packed := sig.Pack()

		got, gotRate, err := ParseSignal(packed)
		require.NoError(t, err)
		assert.Equal(t, sig, got)
		assert.Equal(t, entry, gotRate)
	})
}

func TestParseSignal_RejectsFlippedParity(t *testing.T) {
	sig := Signal{SignalCode: 13, Length: 100}
	packed := sig.Pack()
	packed[2] ^= 0x40 // flip the parity bit

	_, _, err := ParseSignal(packed)
	require.Error(t, err)
}

func TestParseSignal_RejectsUndefinedRateCode(t *testing.T) {
	defined := map[int]bool{13: true, 15: true, 5: true, 7: true, 9: true, 11: true, 1: true, 3: true}
	for code := 0; code < 16; code++ {
		if defined[code] {
			continue
		}
		sig := Signal{SignalCode: code, Length: 100}
		packed := sig.Pack()
		_, _, err := ParseSignal(packed)
		require.Errorf(t, err, "rate code %d is undefined and must be rejected", code)
	}
}

func TestParseSignal_RejectsZeroLength(t *testing.T) {
	var packed [3]byte
	packed[0] = 13 << 4 // rate 6 Mbit/s, length bits all zero
	_, _, err := ParseSignal(packed)
	require.Error(t, err)
}
