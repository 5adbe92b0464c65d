// Package wlan implements the 802.11a/g OFDM baseband frame
// synchronizer and its companion frame generator: preamble
// detection, timing recovery, two-stage CFO estimation, polynomial-fit
// channel estimation and equalization, pilot phase tracking,
// demodulation, de-interleaving, Viterbi decoding, descrambling, and
// the sample-at-a-time state machine that sequences all of it.
package wlan

import "fmt"

// TxDescriptor carries the parameters for assembling one frame.
type TxDescriptor struct {
	Length     int // payload length in bytes, ∈ [1, 4095]
	DataRate   int // rate table index, ∈ [0, 7]
	Service    int // 16-bit SERVICE field seed material, ∈ [0, 65535]
	TxPwrLevel int // transmit power level, ∈ [1, 8]
}

// Validate checks the descriptor against spec-mandated ranges.
func (tx TxDescriptor) Validate() error {
	if tx.Length < 1 || tx.Length > 4095 {
		return fmt.Errorf("wlan: length %d out of range [1,4095]", tx.Length)
	}
	if tx.DataRate < 0 || tx.DataRate >= len(RateTable) {
		return fmt.Errorf("wlan: datarate %d out of range [0,%d]", tx.DataRate, len(RateTable)-1)
	}
	if tx.Service < 0 || tx.Service > 65535 {
		return fmt.Errorf("wlan: service %d out of range [0,65535]", tx.Service)
	}
	if tx.TxPwrLevel < 1 || tx.TxPwrLevel > 8 {
		return fmt.Errorf("wlan: txpwr_level %d out of range [1,8]", tx.TxPwrLevel)
	}
	return nil
}

// RxDescriptor is handed to the frame callback alongside the decoded
// payload.
type RxDescriptor struct {
	Length   int     // recovered payload length in bytes
	RSSI     float64 // 200 + floor(10*log10(g0))
	DataRate int     // recovered rate in Mbit/s (RateEntry.Mbps)
	Service  int     // recovered scrambler seed (7 bits), read back from SERVICE's self-synchronizing bits
}

// FrameCallback receives a decoded payload and its receive
// descriptor. It runs synchronously on the streaming goroutine inside
// Execute and must not call back into the same FrameSync instance.
type FrameCallback func(payload []byte, rx RxDescriptor)
