package wlan

// Modulation identifies the constellation used by a rate.
type Modulation int

const (
	ModBPSK Modulation = iota
	ModQPSK
	Mod16QAM
	Mod64QAM
)

func (m Modulation) String() string {
	switch m {
	case ModBPSK:
		return "BPSK"
	case ModQPSK:
		return "QPSK"
	case Mod16QAM:
		return "16-QAM"
	case Mod64QAM:
		return "64-QAM"
	default:
		return "unknown"
	}
}

// BitsPerSymbol returns nbpsc for the modulation.
func (m Modulation) BitsPerSymbol() int {
	switch m {
	case ModBPSK:
		return 1
	case ModQPSK:
		return 2
	case Mod16QAM:
		return 4
	case Mod64QAM:
		return 6
	default:
		return 0
	}
}

// FECRate identifies the convolutional code rate after puncturing.
type FECRate int

const (
	FECRate1_2 FECRate = iota
	FECRate2_3
	FECRate3_4
)

// RateEntry is one row of the immutable rate table (spec.md §3).
type RateEntry struct {
	Mbps       int
	Mod        Modulation
	Code       FECRate
	NDBPS      int // data bits per OFDM symbol
	NCBPS      int // coded bits per OFDM symbol
	NBPSC      int // bits per subcarrier
	SignalCode int // 4-bit value carried in the SIGNAL field
}

// RateTable is the immutable mapping from the 8 standardized rates to
// their modulation/code-rate/ndbps/ncbps/nbpsc/signal_code. The
// signal_code values reproduce the assignment in
// _examples/original_source/include/liquid-802-11.internal.h's
// wifi_signal_s rate enum (6->13, 9->15, 12->5, 18->7, 24->9, 36->11,
// 48->1, 54->3), not an arbitrary renumbering.
var RateTable = []RateEntry{
	{Mbps: 6, Mod: ModBPSK, Code: FECRate1_2, NDBPS: 24, NCBPS: 48, NBPSC: 1, SignalCode: 13},
	{Mbps: 9, Mod: ModBPSK, Code: FECRate3_4, NDBPS: 36, NCBPS: 48, NBPSC: 1, SignalCode: 15},
	{Mbps: 12, Mod: ModQPSK, Code: FECRate1_2, NDBPS: 48, NCBPS: 96, NBPSC: 2, SignalCode: 5},
	{Mbps: 18, Mod: ModQPSK, Code: FECRate3_4, NDBPS: 72, NCBPS: 96, NBPSC: 2, SignalCode: 7},
	{Mbps: 24, Mod: Mod16QAM, Code: FECRate1_2, NDBPS: 96, NCBPS: 192, NBPSC: 4, SignalCode: 9},
	{Mbps: 36, Mod: Mod16QAM, Code: FECRate3_4, NDBPS: 144, NCBPS: 192, NBPSC: 4, SignalCode: 11},
	{Mbps: 48, Mod: Mod64QAM, Code: FECRate2_3, NDBPS: 192, NCBPS: 288, NBPSC: 6, SignalCode: 1},
	{Mbps: 54, Mod: Mod64QAM, Code: FECRate3_4, NDBPS: 216, NCBPS: 288, NBPSC: 6, SignalCode: 3},
}

// RateBySignalCode looks up a rate table entry (and its index) by the
// 4-bit SIGNAL field rate nibble. ok is false for any of the 8
// standard-reserved undefined nibble values.
func RateBySignalCode(code int) (entry RateEntry, index int, ok bool) {
	for i, r := range RateTable {
		if r.SignalCode == code {
			return r, i, true
		}
	}
	return RateEntry{}, -1, false
}
