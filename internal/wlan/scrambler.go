package wlan

import "github.com/go80211/wlanbb/internal/dsp"

// scramblerPoly is the feedback polynomial x^7+x^4+1 expressed as a
// bitmask over a 7-bit Fibonacci LFSR: bit 6 (the x^7 tap) and bit 3 (the
// x^4 tap) feed back into the shift. This is the standard 802.11
// frame-synchronous scrambler (clause 17.3.5.4).
//
// SERVICE's first 7 bits are zero in the clear (see
// FrameGenerator.dataSymbols), so ScrambleBits's first 7 output bits equal
// the seed's bits verbatim: this 7-bit Fibonacci LFSR shifts its raw
// state out MSB-first before any feedback bit re-enters the window,
// so the seed never needs to be carried on the wire — a receiver
// recovers it straight from the first 7 transmitted bits.
const scramblerPoly = 0x48

// NewScrambler creates a scrambler/descrambler LFSR seeded with the
// given 7-bit value. A zero seed is replaced with 0x7f since an
// all-zero register never toggles and a real transmitter never seeds
// one that way.
func NewScrambler(seed byte) *dsp.LFSR {
	s := uint32(seed & 0x7f)
	if s == 0 {
		s = 0x7f
	}
	return dsp.NewLFSR(7, scramblerPoly, s)
}

// ScrambleBits XORs each bit of bits (one bit per byte, 0 or 1) with
// the scrambler's output sequence, advancing the LFSR once per bit.
// Scrambling and descrambling are the same operation (XOR is
// self-inverse) provided both ends start from the same seed.
func ScrambleBits(bits []byte, seed byte) []byte {
	lfsr := NewScrambler(seed)
	out := make([]byte, len(bits))
	for i, b := range bits {
		out[i] = b ^ lfsr.Advance()
	}
	return out
}

// DescrambleBits is an alias for ScrambleBits, named for call-site
// clarity at the receive path.
func DescrambleBits(bits []byte, seed byte) []byte {
	return ScrambleBits(bits, seed)
}
