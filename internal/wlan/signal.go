package wlan

import (
	"fmt"
	"math/bits"
)

// Signal is the decoded 24-bit PLCP SIGNAL field: rate nibble,
// reserved bit, 12-bit length, parity bit and 6 tail bits (the tail
// is implicit zero and not stored).
type Signal struct {
	SignalCode int // 4-bit rate nibble, see RateTable
	Reserved   bool
	Length     int // payload length in bytes, 0..4095
}

// Pack serializes the SIGNAL field into its 24-bit (3-byte) wire
// form, reproducing wlan_signal_pack byte-for-byte: rate in the top
// nibble of byte0, reserved bit, length LSB-first spanning bytes 0-2,
// and even parity over the first 17 information bits in bit 6 of
// byte2 (the low 6 bits of byte2 are the tail, left zero here — the
// encoder appends them).
func (s Signal) Pack() [3]byte {
	var out [3]byte
	out[0] |= byte(s.SignalCode<<4) & 0xf0
	if s.Reserved {
		out[0] |= 0x08
	}
	length := uint(s.Length)
	if length&0x001 != 0 {
		out[0] |= 0x04
	}
	if length&0x002 != 0 {
		out[0] |= 0x02
	}
	if length&0x004 != 0 {
		out[0] |= 0x01
	}
	if length&0x008 != 0 {
		out[1] |= 0x80
	}
	if length&0x010 != 0 {
		out[1] |= 0x40
	}
	if length&0x020 != 0 {
		out[1] |= 0x20
	}
	if length&0x040 != 0 {
		out[1] |= 0x10
	}
	if length&0x080 != 0 {
		out[1] |= 0x08
	}
	if length&0x100 != 0 {
		out[1] |= 0x04
	}
	if length&0x200 != 0 {
		out[1] |= 0x02
	}
	if length&0x400 != 0 {
		out[1] |= 0x01
	}
	if length&0x800 != 0 {
		out[2] |= 0x80
	}

	parity := (bits.OnesCount8(out[0]) + bits.OnesCount8(out[1]) + bits.OnesCount8(out[2])) % 2
	if parity != 0 {
		out[2] |= 0x40
	}
	return out
}

// ParseSignal unpacks and strictly validates a 3-byte SIGNAL field.
// Unlike the reference decoder (which warns and silently substitutes
// a default rate on an invalid rate nibble or ignores a parity
// mismatch), this validates both and returns an error on either
// failure: a synchronizer that accepts a corrupted SIGNAL field has
// no reliable way to tell a real 6 Mbit/s frame from noise.
func ParseSignal(signal [3]byte) (Signal, RateEntry, error) {
	parity := (bits.OnesCount8(signal[0]) + bits.OnesCount8(signal[1]) + bits.OnesCount8(signal[2]&0x80)) % 2
	parityCheck := 0
	if signal[2]&0x40 != 0 {
		parityCheck = 1
	}
	if parity != parityCheck {
		return Signal{}, RateEntry{}, fmt.Errorf("wlan: SIGNAL parity mismatch")
	}

	code := int(signal[0]>>4) & 0x0f
	entry, _, ok := RateBySignalCode(code)
	if !ok {
		return Signal{}, RateEntry{}, fmt.Errorf("wlan: SIGNAL invalid rate code %d", code)
	}

	var length uint
	if signal[0]&0x04 != 0 {
		length |= 0x001
	}
	if signal[0]&0x02 != 0 {
		length |= 0x002
	}
	if signal[0]&0x01 != 0 {
		length |= 0x004
	}
	if signal[1]&0x80 != 0 {
		length |= 0x008
	}
	if signal[1]&0x40 != 0 {
		length |= 0x010
	}
	if signal[1]&0x20 != 0 {
		length |= 0x020
	}
	if signal[1]&0x10 != 0 {
		length |= 0x040
	}
	if signal[1]&0x08 != 0 {
		length |= 0x080
	}
	if signal[1]&0x04 != 0 {
		length |= 0x100
	}
	if signal[1]&0x02 != 0 {
		length |= 0x200
	}
	if signal[1]&0x01 != 0 {
		length |= 0x400
	}
	if signal[2]&0x80 != 0 {
		length |= 0x800
	}

	if length == 0 || length > 4095 {
		return Signal{}, RateEntry{}, fmt.Errorf("wlan: SIGNAL length %d out of range", length)
	}

	s := Signal{
		SignalCode: code,
		Reserved:   signal[0]&0x08 != 0,
		Length:     int(length),
	}
	return s, entry, nil
}
