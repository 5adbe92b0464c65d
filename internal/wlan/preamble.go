package wlan

import (
	"math"

	"github.com/go80211/wlanbb/internal/dsp"
)

// NullSubcarriers, PilotSubcarriers and DataSubcarriers partition the
// 64 FFT bins used by every OFDM symbol in this system. Bin index k
// follows native FFT ordering: k=0 is DC, k=1..26 carry subcarriers
// +1..+26, k=38..63 carry subcarriers -26..-1, and the remainder
// (27..37) is the unused guard band including the Nyquist bin.
var (
	NullSubcarriers = []int{0, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37}

	// PilotSubcarriers gives the four pilot bins in the order the
	// pilot-phase LFSR assigns signs to them: 43, 57, 7, 21 (see
	// pilot.go), not ascending numeric order.
	PilotSubcarriers = []int{43, 57, 7, 21}

	// DataSubcarrierOrder is the standardized traversal of the 48
	// data-bearing bins for both the SIGNAL field and every DATA
	// symbol: start at bin 38 (subcarrier -26) and proceed upward
	// through the wraparound to bin 26 (subcarrier +26), skipping
	// null and pilot bins along the way.
	DataSubcarrierOrder = []int{
		38, 39, 40, 41, 42, 44, 45, 46, 47, 48, 49, 50, 51, 52, 53, 54, 55, 56,
		58, 59, 60, 61, 62, 63,
		1, 2, 3, 4, 5, 6, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20,
		22, 23, 24, 25, 26,
	}
)

// shortTrainFreq holds the nonzero subcarrier values of S0 keyed by
// signed subcarrier index n (n ∈ {±4,±8,...,±24}), before the
// sqrt(13/6) factor that S0 applies so the average transmitted power
// of S0 equals that of the data subcarriers. This is the standard
// IEEE 802.11a short training sequence (clause 17.3.3).
var shortTrainFreq = map[int]complex128{
	-24: complex(1, 1), -20: complex(-1, -1), -16: complex(1, 1),
	-12: complex(-1, -1), -8: complex(-1, -1), -4: complex(1, 1),
	4: complex(-1, -1), 8: complex(-1, -1), 12: complex(1, 1),
	16: complex(1, 1), 20: complex(1, 1), 24: complex(1, 1),
}

// longTrainFreq holds the 52 nonzero values of S1 (n ∈ [-26,26]\{0}),
// the standard IEEE 802.11a long training sequence (clause 17.3.3),
// in ±1 BPSK form.
var longTrainFreq = buildLongTrain()

func buildLongTrain() map[int]complex128 {
	neg := []float64{
		1, 1, -1, -1, 1, 1, -1, 1, -1, 1, 1, 1, 1,
		1, 1, -1, -1, 1, 1, -1, 1, -1, 1, 1, 1, 1,
	}
	pos := []float64{
		1, -1, -1, 1, 1, -1, 1, -1, 1, -1, -1, -1, -1,
		-1, 1, 1, -1, -1, 1, -1, 1, -1, 1, 1, 1, 1,
	}
	m := make(map[int]complex128, 52)
	for i, v := range neg {
		m[-26+i] = complex(v, 0)
	}
	for i, v := range pos {
		m[1+i] = complex(v, 0)
	}
	return m
}

// subcarrierToBin maps a signed subcarrier index n to its native FFT
// bin index in [0,63].
func subcarrierToBin(n int) int {
	if n < 0 {
		n += 64
	}
	return n
}

// S0 returns the 64-point frequency-domain short training sequence,
// with the sqrt(13/6) normalization already applied.
func S0() []complex128 {
	out := make([]complex128, 64)
	scale := complex(math.Sqrt(13.0/6.0), 0)
	for n, v := range shortTrainFreq {
		out[subcarrierToBin(n)] = v * scale
	}
	return out
}

// S1 returns the 64-point frequency-domain long training sequence.
func S1() []complex128 {
	out := make([]complex128, 64)
	for n, v := range longTrainFreq {
		out[subcarrierToBin(n)] = v
	}
	return out
}

// ShortTrainBins lists the 12 nonzero S0 bin indices in native FFT
// order, used by the gain estimators.
func ShortTrainBins() []int {
	bins := make([]int, 0, 12)
	for n := range shortTrainFreq {
		bins = append(bins, subcarrierToBin(n))
	}
	sortInts(bins)
	return bins
}

// LongTrainBins lists the 52 nonzero S1 bin indices in native FFT
// order.
func LongTrainBins() []int {
	bins := make([]int, 0, 52)
	for n := range longTrainFreq {
		bins = append(bins, subcarrierToBin(n))
	}
	sortInts(bins)
	return bins
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// ShortTrainSamples builds the 16-sample-periodic time-domain short
// training sequence used to assemble the preamble's first ten
// repeats: IFFT of S0 is exactly periodic with period 16 samples (by
// construction, since S0 only occupies every 4th bin), so one period
// suffices and the generator repeats it.
func ShortTrainSamples() []complex128 {
	full := dsp.IFFT64(S0())
	return full[:16]
}

// LongTrainSamples builds the 64-sample time-domain long training
// symbol (IFFT of S1, no cyclic prefix attached — the generator
// forms the 32-sample CP from the symbol's final half).
func LongTrainSamples() []complex128 {
	return dsp.IFFT64(S1())
}

// PilotBaseSign returns the unrotated (phase=0) sign applied to the
// pilot at the given index in PilotSubcarriers, reproducing the fixed
// baseline +,+,+,- pattern for (43,57,7,21) found in the reference
// pilot-insertion routine.
func PilotBaseSign(pilotIndex int) float64 {
	if pilotIndex == 3 {
		return -1
	}
	return 1
}

// pilotValue returns ±1 depending on the LFSR polarity bit and the
// fixed baseline sign for a pilot slot.
func pilotValue(pilotIndex int, polarity byte) complex128 {
	sign := PilotBaseSign(pilotIndex)
	if polarity != 0 {
		sign = -sign
	}
	return complex(sign, 0)
}
