package wlan

import (
	"fmt"

	"github.com/go80211/wlanbb/internal/dsp"
	"github.com/go80211/wlanbb/internal/fec"
)

// FrameGenerator assembles a payload and transmit descriptor into the
// OFDM sample stream spec §4.11 describes: preamble, SIGNAL symbol,
// then nsym DATA symbols, each emitted as one 80-sample buffer per
// WriteSymbol call.
type FrameGenerator struct {
	tx        TxDescriptor
	rate      RateEntry
	pilotLFSR *dsp.LFSR

	symbols [][]complex128 // all 80-sample buffers for the current frame, in order
	cursor  int
}

// NewFrameGenerator creates an idle generator. Call Assemble before
// the first WriteSymbol.
func NewFrameGenerator() *FrameGenerator {
	return &FrameGenerator{pilotLFSR: dsp.NewLFSR(7, pilotLFSRPoly, pilotLFSRSeed)}
}

// Reset discards any partially-emitted frame.
func (fg *FrameGenerator) Reset() {
	fg.symbols = nil
	fg.cursor = 0
	fg.pilotLFSR.Reset()
}

// Assemble validates tx, builds the full preamble+SIGNAL+DATA symbol
// sequence for payload, and rewinds WriteSymbol to the first buffer.
func (fg *FrameGenerator) Assemble(payload []byte, tx TxDescriptor) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if len(payload) != tx.Length {
		return fmt.Errorf("wlan: payload length %d does not match descriptor length %d", len(payload), tx.Length)
	}

	rate := RateTable[tx.DataRate]
	fg.tx = tx
	fg.rate = rate
	fg.pilotLFSR.Reset()

	var syms [][]complex128
	syms = append(syms, shortPreambleSymbols()...)
	syms = append(syms, longPreambleSymbols()...)
	syms = append(syms, fg.signalSymbol(rate, tx.Length))
	syms = append(syms, fg.dataSymbols(payload, rate, tx)...)

	fg.symbols = syms
	fg.cursor = 0
	return nil
}

// WriteSymbol copies the next 80-sample buffer into out (which must
// have length 80) and reports whether this was the final buffer of
// the frame.
func (fg *FrameGenerator) WriteSymbol(out []complex128) (last bool, err error) {
	if fg.cursor >= len(fg.symbols) {
		return true, fmt.Errorf("wlan: WriteSymbol called with no frame assembled")
	}
	copy(out, fg.symbols[fg.cursor])
	fg.cursor++
	return fg.cursor >= len(fg.symbols), nil
}

// shortPreambleSymbols returns ten repeats of the 16-sample short
// training sequence as individual 80-sample-equivalent... actually
// emitted in 16-sample chunks is not buffer-aligned with the 80-
// sample contract, so the ten repeats are grouped into two 80-sample
// buffers (t1 = repeats 1-5, t2 = repeats 6-10), matching the
// reference generator's buffering of the short preamble.
func shortPreambleSymbols() [][]complex128 {
	period := ShortTrainSamples()
	var buf []complex128
	for i := 0; i < 10; i++ {
		buf = append(buf, period...)
	}
	return [][]complex128{buf[:80], buf[80:160]}
}

// longPreambleSymbols returns the 160-sample long training field (a
// 32-sample cyclic prefix made of the final half of the long symbol,
// then two back-to-back 64-sample long symbols) split into two
// 80-sample buffers: the prefix plus the first 48 samples of the first
// symbol, then its last 16 samples plus the whole second symbol.
func longPreambleSymbols() [][]complex128 {
	sym := LongTrainSamples()
	buf1 := append(append([]complex128{}, sym[32:]...), sym[:48]...)
	buf2 := append(append([]complex128{}, sym[48:]...), sym...)
	return [][]complex128{buf1, buf2}
}

func (fg *FrameGenerator) signalSymbol(rate RateEntry, length int) []complex128 {
	sig := Signal{SignalCode: rate.SignalCode, Length: length}
	packed := sig.Pack()
	bits := BytesToBits(packed[:])

	coded := fec.Encode(bits)
	interleaved := Interleave(coded, 48, 1)

	var X [64]complex128
	polarity := fg.pilotLFSR.Advance()
	for idx, k := range PilotSubcarriers {
		X[k] = pilotValue(idx, polarity)
	}
	bpsk := NewConstellation(ModBPSK)
	for i, k := range DataSubcarrierOrder {
		X[k] = bpsk.Map(interleaved[i : i+1])
	}

	return ofdmSymbol(X[:])
}

func (fg *FrameGenerator) dataSymbols(payload []byte, rate RateEntry, tx TxDescriptor) [][]complex128 {
	infoBits := 16 + 8*tx.Length + 6
	nsym := ceilDiv(infoBits, rate.NDBPS)
	ndata := nsym * rate.NDBPS
	decMsgLen := ndata / 8

	plain := make([]byte, decMsgLen)
	copy(plain[2:], payload)
	// SERVICE (plain[0:2]), the 6-bit tail and the byte-alignment pad
	// all stay zero in the clear: the scrambler's self-synchronizing
	// property (see scrambler.go) means the seed itself never has to
	// be transmitted.

	seed := byte(tx.Service & 0x7f)
	bits := ScrambleBits(BytesToBits(plain), seed)
	coded := fec.Encode(bits)
	punctured := fec.Puncture(coded, punctureRateFor(rate.Code))

	ncbps := rate.NCBPS
	cst := NewConstellation(rate.Mod)

	symbols := make([][]complex128, 0, nsym)
	for s := 0; s < nsym; s++ {
		chunk := punctured[s*ncbps : (s+1)*ncbps]
		interleaved := Interleave(chunk, ncbps, rate.NBPSC)
		syms := cst.MapBits(interleaved)

		var X [64]complex128
		polarity := fg.pilotLFSR.Advance()
		for idx, k := range PilotSubcarriers {
			X[k] = pilotValue(idx, polarity)
		}
		for i, k := range DataSubcarrierOrder {
			X[k] = syms[i]
		}
		symbols = append(symbols, ofdmSymbol(X[:]))
	}
	return symbols
}

// ofdmSymbol IFFTs a 64-point frequency-domain symbol and prepends a
// 16-sample cyclic prefix, producing one 80-sample time-domain
// buffer.
func ofdmSymbol(X []complex128) []complex128 {
	x := dsp.IFFT64(X)
	cp := x[len(x)-16:]
	out := make([]complex128, 0, 80)
	out = append(out, cp...)
	out = append(out, x...)
	return out
}
