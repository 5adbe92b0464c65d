package wlan

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go80211/wlanbb/internal/dsp"
)

func TestEstimateGainS1_UnitChannelIsFlat(t *testing.T) {
	window := dsp.IFFT64(S1())
	g := EstimateGainS1(window)

	want := math.Sqrt(52.0) / 64.0
	for _, k := range LongTrainBins() {
		assert.InDelta(t, want, real(g[k]), 1e-9, "bin %d", k)
		assert.InDelta(t, 0, imag(g[k]), 1e-9, "bin %d", k)
	}
	for k := 0; k < 64; k++ {
		if isNullBin(k) {
			assert.Equal(t, complex(0, 0), g[k], "bin %d must stay zero", k)
		}
	}
}

func TestEstimateChannel_UnitChannelGivesUnityEqualizer(t *testing.T) {
	window := dsp.IFFT64(S1())
	g1b := EstimateGainS1(window)
	ce := EstimateChannel(g1b)

	for k := 0; k < 64; k++ {
		if isNullBin(k) {
			assert.Equal(t, complex(0, 0), ce.G[k])
			assert.Equal(t, complex(0, 0), ce.R[k])
			continue
		}
		// R should invert G back to the s1-scale reference gain, so
		// G[k]*R[k] is the sqrt(52)/64 reference scale, not zero-phase
		// unity (EstimateChannel's R is defined relative to that scale).
		product := ce.G[k] * ce.R[k]
		assert.InDelta(t, math.Sqrt(52.0)/64.0, real(product), 1e-6, "bin %d", k)
		assert.InDelta(t, 0, imag(product), 1e-6, "bin %d", k)
	}
}

func TestCoarseCFO_ZeroForIdenticalHalves(t *testing.T) {
	g := make([]complex128, 64)
	for _, k := range ShortTrainBins() {
		g[k] = complex(1, 0.3)
	}
	assert.InDelta(t, 0, CoarseCFO(g, g), 1e-9)
}

func TestCoarseCFO_RecoversKnownRotation(t *testing.T) {
	const nu = 0.01
	a := make([]complex128, 64)
	b := make([]complex128, 64)
	rot := cmplx.Exp(complex(0, nu*16))
	for _, k := range ShortTrainBins() {
		a[k] = complex(1, 0)
		b[k] = a[k] * rot
	}
	got := CoarseCFO(a, b)
	assert.InDelta(t, nu, got, 1e-9)
}

func TestFineCFO_ZeroForIdenticalHalves(t *testing.T) {
	g := make([]complex128, 64)
	for _, k := range LongTrainBins() {
		g[k] = complex(0.5, -0.2)
	}
	assert.InDelta(t, 0, FineCFO(g, g), 1e-9)
}

func TestFineCFO_RecoversKnownRotation(t *testing.T) {
	const nu = 0.005
	var a, b [64]complex128
	rot := cmplx.Exp(complex(0, nu*64))
	for _, k := range LongTrainBins() {
		a[k] = complex(1, 0)
		b[k] = a[k] * rot
	}
	got := FineCFO(a[:], b[:])
	assert.InDelta(t, nu, got, 1e-9)
}
