package dsp

import "math"

// AGC is a simple feed-forward automatic gain control used by the CLI
// demo's simulated channel to normalize a synthetic burst to unit
// average power before handing it to the synchronizer, the way a real
// receive front end would before baseband processing.
type AGC struct {
	targetPower float64
}

// NewAGC creates an AGC targeting unit average power.
func NewAGC() *AGC {
	return &AGC{targetPower: 1.0}
}

// Normalize scales samples in place so their average power equals the
// AGC's target.
func (a *AGC) Normalize(samples []complex128) {
	if len(samples) == 0 {
		return
	}
	var sumSq float64
	for _, s := range samples {
		sumSq += real(s)*real(s) + imag(s)*imag(s)
	}
	avg := sumSq / float64(len(samples))
	if avg <= 0 {
		return
	}
	gain := math.Sqrt(a.targetPower / avg)
	for i := range samples {
		samples[i] *= complex(gain, 0)
	}
}

// RemoveDC subtracts the sample mean in place, the standard DC-block
// applied ahead of preamble correlation.
func RemoveDC(samples []complex128) {
	if len(samples) == 0 {
		return
	}
	var mean complex128
	for _, s := range samples {
		mean += s
	}
	mean /= complex(float64(len(samples)), 0)
	for i := range samples {
		samples[i] -= mean
	}
}
