package wlan

import (
	"math"
	"math/cmplx"

	"github.com/go80211/wlanbb/internal/dsp"
)

const gainEpsilon = 1e-12

// EstimateGainS0 FFTs a 64-sample window and computes the per-bin
// channel gain on the 12 nonzero S0 subcarriers, zeroing every other
// bin, per spec §4.3.
func EstimateGainS0(window []complex128) []complex128 {
	X := dsp.FFT64(window)
	s0 := S0()
	g := make([]complex128, 64)
	scale := complex(math.Sqrt(12.0)/64.0, 0)
	for _, k := range ShortTrainBins() {
		g[k] = X[k] * cmplx.Conj(s0[k]) * scale
	}
	return g
}

// EstimateGainS1 is the S1 analogue of EstimateGainS0, over all 52
// non-NULL subcarriers with normalization sqrt(52)/64.
func EstimateGainS1(window []complex128) []complex128 {
	X := dsp.FFT64(window)
	s1 := S1()
	g := make([]complex128, 64)
	scale := complex(math.Sqrt(52.0)/64.0, 0)
	for _, k := range LongTrainBins() {
		g[k] = X[k] * cmplx.Conj(s1[k]) * scale
	}
	return g
}

func isNullBin(k int) bool {
	if k == 0 {
		return true
	}
	return k >= 27 && k <= 37
}

// binFreq maps a native FFT bin index to its normalized frequency
// axis position, f = ((k+32) mod 64 - 32)/64.
func binFreq(k int) float64 {
	return float64(((k+32)%64)-32) / 64.0
}

// ChannelEstimate holds the smoothed composite channel gain G[] and
// its equalization reciprocal R[], both zero on NULL subcarriers.
type ChannelEstimate struct {
	G [64]complex128
	R [64]complex128
}

// EstimateChannel fits order-2 polynomials to the magnitude and
// unwrapped phase of g1b over its 52 active bins and reconstructs the
// smoothed composite channel and equalizer reciprocal, per spec §4.3.
func EstimateChannel(g1b []complex128) ChannelEstimate {
	bins := LongTrainBins()
	freqs := make([]float64, len(bins))
	mags := make([]float64, len(bins))
	phases := make([]float64, len(bins))
	for i, k := range bins {
		freqs[i] = binFreq(k)
		mags[i] = cmplx.Abs(g1b[k])
		phases[i] = cmplx.Phase(g1b[k])
	}
	phases = dsp.UnwrapPhase(phases)

	pAbs := dsp.PolyFit(freqs, mags, 2)
	pArg := dsp.PolyFit(freqs, phases, 2)

	var ce ChannelEstimate
	s1scale := math.Sqrt(52.0) / 64.0
	for k := 0; k < 64; k++ {
		if isNullBin(k) {
			continue
		}
		f := binFreq(k)
		mag := dsp.PolyEval(pAbs, f)
		arg := dsp.PolyEval(pArg, f)
		ce.G[k] = complex(mag, 0) * cmplx.Exp(complex(0, arg))
		ce.R[k] = complex(s1scale/(mag+gainEpsilon), 0) * cmplx.Exp(complex(0, -arg))
	}
	return ce
}

// CoarseCFO estimates the normalized carrier frequency offset from
// the rotation between the two S0 gain halves, per spec §4.4.
func CoarseCFO(g0a, g0b []complex128) float64 {
	var gHat complex128
	for _, k := range ShortTrainBins() {
		gHat += g0b[k] * cmplx.Conj(g0a[k])
	}
	return 4 * cmplx.Phase(gHat) / 64
}

// FineCFO estimates the normalized carrier frequency offset from the
// rotation between the two S1 gain halves, per spec §4.4.
func FineCFO(g1a, g1b []complex128) float64 {
	var gHat complex128
	for k := 0; k < 64; k++ {
		gHat += g1b[k] * cmplx.Conj(g1a[k])
	}
	return cmplx.Phase(gHat) / 64
}
