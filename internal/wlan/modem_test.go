package wlan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestConstellation_MapDemapRoundTrip(t *testing.T) {
	mods := []Modulation{ModBPSK, ModQPSK, Mod16QAM, Mod64QAM}

	rapid.Check(t, func(t *rapid.T) {
		mod := rapid.SampledFrom(mods).Draw(t, "mod")
		c := NewConstellation(mod)
		bps := mod.BitsPerSymbol()

		bits := make([]byte, bps)
		for i := range bits {
			bits[i] = byte(rapid.IntRange(0, 1).Draw(t, "bit"))
		}

		symbol := c.Map(bits)
		recovered := c.Demap(symbol)

		assert.Equal(t, bits, recovered)
	})
}

func TestConstellation_BPSKPointsAreUnitReal(t *testing.T) {
	c := NewConstellation(ModBPSK)
	assert.Equal(t, complex(-1, 0), c.Map([]byte{0}))
	assert.Equal(t, complex(1, 0), c.Map([]byte{1}))
}

func TestConstellation_MapBitsDemapSymbolsRoundTrip(t *testing.T) {
	for _, mod := range []Modulation{ModBPSK, ModQPSK, Mod16QAM, Mod64QAM} {
		c := NewConstellation(mod)
		bps := mod.BitsPerSymbol()
		bits := make([]byte, bps*48)
		for i := range bits {
			bits[i] = byte(i % 2)
		}
		syms := c.MapBits(bits)
		assert.Len(t, syms, 48)
		recovered := c.DemapSymbols(syms)
		assert.Equal(t, bits, recovered)
	}
}
