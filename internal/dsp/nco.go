package dsp

import "math/cmplx"

// NCO is a numerically controlled oscillator used to down-mix an
// input stream by a running carrier-frequency-offset estimate. It
// tracks a running phase and frequency, both in radians/sample.
type NCO struct {
	phase float64
	freq  float64
}

// NewNCO creates an NCO at zero phase and frequency.
func NewNCO() *NCO {
	return &NCO{}
}

// MixDown multiplies x by exp(-j*phase), the current down-mixing
// rotor, without advancing the phase.
func (n *NCO) MixDown(x complex128) complex128 {
	return x * cmplx.Exp(complex(0, -n.phase))
}

// Step advances the oscillator's phase by its current frequency.
func (n *NCO) Step() {
	n.phase += n.freq
}

// SetFrequency replaces the running frequency estimate outright.
func (n *NCO) SetFrequency(freq float64) {
	n.freq = freq
}

// AdjustFrequency adds a delta to the running frequency estimate.
func (n *NCO) AdjustFrequency(delta float64) {
	n.freq += delta
}

// Frequency returns the current frequency estimate in rad/sample.
func (n *NCO) Frequency() float64 {
	return n.freq
}

// Reset zeros both phase and frequency.
func (n *NCO) Reset() {
	n.phase = 0
	n.freq = 0
}
