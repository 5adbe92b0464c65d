package wlan

import (
	"math/cmplx"

	"github.com/go80211/wlanbb/internal/dsp"
)

// RxSymbolResult carries the equalized, pilot-derotated subcarrier
// values and the frequency-tracking adjustment computed for one
// OFDM symbol.
type RxSymbolResult struct {
	X          [64]complex128 // equalized and pilot-derotated
	PhaseAtDC  float64        // p_phase[0], stored as the next phiPrime
	FreqTrim   float64        // additive NCO frequency adjustment (0 on the first symbol)
	PilotSlope float64        // p_phase[1]
}

// RxSymbol implements §4.5: equalizes one FFT'd symbol with the
// channel reciprocal R, tracks residual pilot phase with the pilot
// LFSR, and derotates every subcarrier by the fitted phase slope times
// its subcarrier offset; the fitted intercept is not removed from X, it
// is returned as PhaseAtDC. phiPrime is the caller's running phase memory (0 before the
// first symbol; hasPrev distinguishes "no previous symbol yet" from a
// genuine zero intercept).
func RxSymbol(X [64]complex128, R [64]complex128, pilotLFSR *dsp.LFSR, phiPrime float64, hasPrev bool) RxSymbolResult {
	for i := range X {
		X[i] = X[i] * R[i]
	}

	polarity := pilotLFSR.Advance()

	xs := []float64{-21, -7, 7, 21}
	ys := make([]float64, 4)
	for idx, k := range PilotSubcarriers {
		v := X[k] * pilotValue(idx, polarity)
		ys[idx] = cmplx.Phase(v)
	}
	ys = dsp.UnwrapPhase(ys)

	coeffs := dsp.PolyFit(xs, ys, 1)
	phase0, phase1 := coeffs[0], coeffs[1]

	for k := 0; k < 64; k++ {
		if isNullBin(k) {
			continue
		}
		fx := float64(((k + 32) % 64) - 32)
		X[k] = X[k] * cmplx.Exp(complex(0, -phase1*fx))
	}

	var freqTrim float64
	if hasPrev {
		dphi := dsp.WrapPhase(phase0 - phiPrime)
		freqTrim = 1e-3 * dphi
	}

	return RxSymbolResult{X: X, PhaseAtDC: phase0, FreqTrim: freqTrim, PilotSlope: phase1}
}
