package wlan

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/go80211/wlanbb/internal/dsp"
	"github.com/go80211/wlanbb/internal/fec"
)

// SyncState enumerates the frame-sync state machine's states (spec
// §4.2). The zero value is Seek, the state a fresh or just-reset
// synchronizer starts in.
type SyncState int

const (
	Seek SyncState = iota
	RxShort0
	RxShort1
	RxLong0
	RxLong1
	RxSignal
	RxData
)

func (s SyncState) String() string {
	switch s {
	case Seek:
		return "SEEK"
	case RxShort0:
		return "RX_SHORT0"
	case RxShort1:
		return "RX_SHORT1"
	case RxLong0:
		return "RX_LONG0"
	case RxLong1:
		return "RX_LONG1"
	case RxSignal:
		return "RX_SIGNAL"
	case RxData:
		return "RX_DATA"
	default:
		return "UNKNOWN"
	}
}

const pilotLFSRPoly = 0x91
const pilotLFSRSeed = 0x7f

// FrameSync is a single-instance, single-threaded 802.11a/g OFDM
// frame synchronizer. It owns fixed-size scratch buffers and a ring
// of the most recent 80 down-mixed samples, and drives the state
// machine of spec §4.2 one input sample at a time from Execute.
// Callers that want an acquisition trace (rather than production
// silence) can set Trace, e.g. to a *log.Logger at debug level; it is
// never invoked from the hot per-sample path, only on state
// transitions.
type FrameSync struct {
	Trace *log.Logger

	onFrame FrameCallback

	state SyncState
	ring  *ring
	nco   *dsp.NCO
	timer int

	g0a, g0b [64]complex128
	g1a, g1b [64]complex128
	chGRR    ChannelEstimate
	g0       float64

	pilotLFSR *dsp.LFSR
	phiPrime  float64
	hasPrev   bool

	numSymbols     int
	rate           RateEntry
	length         int
	ndbps          int
	ncbps          int
	nbpsc          int
	nsym           int
	ndata          int
	npad           int
	decMsgLen      int
	encMsgLen      int
	bytesPerSymbol int

	signalInt [48]byte
	msgEnc    []byte
}

// NewFrameSync creates a synchronizer that invokes cb for every
// successfully decoded frame.
func NewFrameSync(cb FrameCallback) *FrameSync {
	fs := &FrameSync{
		onFrame:   cb,
		ring:      newRing(),
		nco:       dsp.NewNCO(),
		pilotLFSR: dsp.NewLFSR(7, pilotLFSRPoly, pilotLFSRSeed),
	}
	return fs
}

// Reset restores the synchronizer to SEEK, clearing counters, the
// pilot LFSR and the NCO frequency. The ring buffer's contents are
// left as-is; they age out naturally as SEEK keeps pushing samples.
func (fs *FrameSync) Reset() {
	fs.state = Seek
	fs.timer = 0
	fs.numSymbols = 0
	fs.phiPrime = 0
	fs.hasPrev = false
	fs.pilotLFSR.Reset()
	fs.nco.Reset()
	fs.msgEnc = nil
	fs.trace("reset -> SEEK")
}

func (fs *FrameSync) trace(msg string, kv ...any) {
	if fs.Trace != nil {
		fs.Trace.Debug(msg, kv...)
	}
}

// GetRSSI returns 200 + floor(10*log10(g0)), the same formula used to
// populate RxDescriptor.RSSI.
func (fs *FrameSync) GetRSSI() float64 {
	return rssiFromGain(fs.g0)
}

func rssiFromGain(g0 float64) float64 {
	return 200 + math.Floor(10*math.Log10(g0))
}

// GetCFO returns the synchronizer's current NCO frequency estimate.
func (fs *FrameSync) GetCFO() float64 {
	return fs.nco.Frequency()
}

// Execute streams samples through the synchronizer in strict FIFO
// order, invoking the frame callback synchronously whenever a frame
// completes. It is the sole mutator of synchronizer state.
func (fs *FrameSync) Execute(samples []complex128) {
	for _, x := range samples {
		fs.executeOne(x)
	}
}

func (fs *FrameSync) executeOne(x complex128) {
	if fs.state != Seek {
		x = fs.nco.MixDown(x)
		fs.nco.Step()
	}
	fs.ring.Push(x)
	fs.timer++

	switch fs.state {
	case Seek:
		fs.stepSeek()
	case RxShort0:
		fs.stepShortHalf(true)
	case RxShort1:
		fs.stepShortHalf(false)
	case RxLong0:
		fs.stepLongHalf(true)
	case RxLong1:
		fs.stepLongHalf(false)
	case RxSignal:
		fs.stepSignal()
	case RxData:
		fs.stepData()
	}
}

func (fs *FrameSync) stepSeek() {
	if fs.timer%64 != 0 {
		return
	}
	window := fs.ring.Window(80)
	tail := window[16:80]

	var sumSq float64
	for _, s := range tail {
		sumSq += real(s)*real(s) + imag(s)*imag(s)
	}
	fs.g0 = 64.0 / sumSq

	g := EstimateGainS0(tail)
	var sHat complex128
	for _, k := range ShortTrainBins() {
		sHat += g[k]
	}
	sHat /= complex(float64(len(ShortTrainBins())), 0)

	if !(mag(complex(fs.g0, 0)*sHat) > 0.4) { // also rejects NaN from an all-zero window
		return
	}

	tau := phaseOf(sHat) * 16 / (2 * math.Pi)
	dt := int(math.Round(tau))
	fs.timer = mod(16+dt, 16)
	fs.state = RxShort0
	fs.trace("SEEK -> RX_SHORT0")
}

func (fs *FrameSync) stepShortHalf(first bool) {
	if fs.timer < 16 {
		return
	}
	fs.timer = 0
	window := fs.ring.Window(64)
	g := EstimateGainS0(window)
	if first {
		fs.g0a = toArray64(g)
		fs.state = RxShort1
		fs.trace("RX_SHORT0 -> RX_SHORT1")
		return
	}
	fs.g0b = toArray64(g)
	nu := CoarseCFO(fs.g0a[:], fs.g0b[:])
	fs.nco.SetFrequency(nu)
	fs.state = RxLong0
	fs.trace("RX_SHORT1 -> RX_LONG0", "coarse_cfo", nu)
}

// backoffRotation compensates the phase introduced by FFTing a window
// offset 2 samples early.
var backoffRotation = complexExp(2 * 2 * math.Pi / 64)

func (fs *FrameSync) stepLongHalf(first bool) {
	wait := 16
	if !first {
		wait = 64
	}
	if fs.timer < wait {
		return
	}
	window := fs.ring.Window(80)
	w := window[16-2 : 16-2+64]
	g := EstimateGainS1(w)

	var sHat complex128
	bins := LongTrainBins()
	for _, k := range bins {
		sHat += g[k]
	}
	sHat = sHat / complex(float64(len(bins)), 0) * backoffRotation

	if mag(sHat) <= 0.5 || math.Abs(phaseOf(sHat)) >= 0.2 {
		if first {
			return // keep waiting for an acceptable window
		}
		// RX_LONG1 advances to RX_SIGNAL whatever the threshold outcome.
		fs.trace("RX_LONG1 S1 metric below threshold")
	}

	if first {
		fs.g1a = toArray64(g)
		fs.timer = 0
		fs.state = RxLong1
		fs.trace("RX_LONG0 -> RX_LONG1")
		return
	}

	fs.g1b = toArray64(g)
	nu := FineCFO(fs.g1a[:], fs.g1b[:])
	fs.nco.AdjustFrequency(nu)
	fs.chGRR = EstimateChannel(fs.g1b[:])
	fs.timer = 0
	fs.state = RxSignal
	fs.trace("RX_LONG1 -> RX_SIGNAL", "fine_cfo", nu)
}

func (fs *FrameSync) stepSignal() {
	if fs.timer < 80 {
		return
	}
	fs.timer = 0

	window := fs.ring.Window(80)
	w := window[16-2 : 16-2+64]
	X := toArray64(dsp.FFT64(w))

	result := RxSymbol(X, fs.chGRR.R, fs.pilotLFSR, fs.phiPrime, fs.hasPrev)
	fs.phiPrime = result.PhaseAtDC
	fs.hasPrev = true
	fs.nco.AdjustFrequency(result.FreqTrim)

	var bits [48]byte
	for i, k := range DataSubcarrierOrder {
		if real(result.X[k]) >= 0 {
			bits[i] = 1
		}
	}

	deint := Deinterleave(bits[:], 48, 1)
	dec, err := fec.Decode(softenBits(deint), 24)
	if err != nil {
		fs.Reset()
		return
	}

	var signalBytes [3]byte
	packed := RepackBits(dec, 8)
	copy(signalBytes[:], packed)

	sig, rate, err := ParseSignal(signalBytes)
	if err != nil {
		fs.trace("SIGNAL invalid", "err", err)
		fs.Reset()
		return
	}

	fs.rate = rate
	fs.length = sig.Length
	fs.nbpsc = rate.NBPSC
	fs.ndbps = rate.NDBPS
	fs.ncbps = rate.NCBPS
	fs.computeLengths(fs.length)
	fs.numSymbols = 0
	fs.msgEnc = make([]byte, fs.encMsgLen)
	fs.state = RxData
	fs.trace("RX_SIGNAL -> RX_DATA", "rate_mbps", rate.Mbps)
}

func (fs *FrameSync) computeLengths(length int) {
	infoBits := 16 + 8*length + 6
	fs.nsym = ceilDiv(infoBits, fs.ndbps)
	fs.ndata = fs.nsym * fs.ndbps
	fs.npad = fs.ndata - infoBits
	fs.decMsgLen = fs.ndata / 8
	fs.encMsgLen = fs.decMsgLen * fs.ncbps / fs.ndbps
	fs.bytesPerSymbol = fs.encMsgLen / fs.nsym
}

func (fs *FrameSync) stepData() {
	if fs.timer < 80 {
		return
	}
	fs.timer = 0

	window := fs.ring.Window(80)
	w := window[16-2 : 16-2+64]
	X := toArray64(dsp.FFT64(w))

	result := RxSymbol(X, fs.chGRR.R, fs.pilotLFSR, fs.phiPrime, fs.hasPrev)
	fs.phiPrime = result.PhaseAtDC
	fs.nco.AdjustFrequency(result.FreqTrim)

	cst := NewConstellation(fs.rate.Mod)
	syms := make([]complex128, 48)
	for i, k := range DataSubcarrierOrder {
		syms[i] = result.X[k]
	}
	bits := cst.DemapSymbols(syms)
	symBytes := RepackBits(bits, 8)

	off := fs.numSymbols * fs.bytesPerSymbol
	copy(fs.msgEnc[off:off+fs.bytesPerSymbol], symBytes)
	fs.numSymbols++

	if fs.numSymbols != fs.nsym {
		return
	}
	fs.finishFrame()
}

// finishFrame runs the packet decoder (deinterleave -> depuncture ->
// Viterbi -> descramble -> strip SERVICE/pad/tail) over the
// accumulated coded bytes and delivers the payload to the callback.
func (fs *FrameSync) finishFrame() {
	encBits := BytesToBits(fs.msgEnc)
	deint := Deinterleave(encBits, fs.ncbps, fs.nbpsc)
	soft := softenBits(deint)

	// infoBits is the number of bits the rate-1/2 mother code carries
	// before puncturing: SERVICE(16) + payload + tail(6), rounded up
	// to ndata by the transmitter's padding.
	infoBits := fs.decMsgLen * 8
	motherCodedLen := infoBits * 2
	depunctured := fec.Depuncture(soft, punctureRateFor(fs.rate.Code), motherCodedLen)

	decBits, err := fec.Decode(depunctured, infoBits)
	if err != nil {
		fs.Reset()
		return
	}
	if len(decBits) < 16 {
		fs.Reset()
		return
	}

	// SERVICE's first 7 bits are transmitted as zero plaintext, so
	// the scrambler's first 7 output bits pass straight through as
	// the seed itself (see scrambler.go): read them back MSB first.
	var seed byte
	for _, b := range decBits[:7] {
		seed = (seed << 1) | b
	}

	descrambled := DescrambleBits(decBits, seed)
	decBytes := RepackBits(descrambled, 8)
	if len(decBytes) < 2 {
		fs.Reset()
		return
	}
	payload := decBytes[2 : 2+fs.length]

	rx := RxDescriptor{
		Length:   fs.length,
		RSSI:     rssiFromGain(fs.g0),
		DataRate: fs.rate.Mbps,
		Service:  int(seed),
	}
	if fs.onFrame != nil {
		fs.onFrame(payload, rx)
	}
	fs.Reset()
}

func punctureRateFor(code FECRate) fec.PunctureRate {
	switch code {
	case FECRate2_3:
		return fec.Rate2_3
	case FECRate3_4:
		return fec.Rate3_4
	default:
		return fec.Rate1_2
	}
}

func softenBits(bits []byte) []byte {
	out := make([]byte, len(bits))
	for i, b := range bits {
		if b != 0 {
			out[i] = 255
		}
	}
	return out
}

func toArray64(x []complex128) [64]complex128 {
	var out [64]complex128
	copy(out[:], x)
	return out
}

func mag(x complex128) float64 {
	return math.Hypot(real(x), imag(x))
}

func phaseOf(x complex128) float64 {
	return math.Atan2(imag(x), real(x))
}

func complexExp(theta float64) complex128 {
	return complex(math.Cos(theta), math.Sin(theta))
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
