package wlan

import "math"

// Constellation holds a Gray-coded QAM constellation map/demap table,
// adapted from the teacher's generic square-QAM generator to the
// fixed BPSK/QPSK/16-QAM/64-QAM set and normalization constants
// defined by 802.11a/g clause 17.3.5.9.
type Constellation struct {
	Mod    Modulation
	points []complex128
}

// NewConstellation builds the constellation table for a modulation.
func NewConstellation(mod Modulation) *Constellation {
	c := &Constellation{Mod: mod}
	switch mod {
	case ModBPSK:
		c.points = []complex128{complex(-1, 0), complex(1, 0)}
	case ModQPSK:
		c.generateSquareQAM(2, 1/math.Sqrt(2))
	case Mod16QAM:
		c.generateSquareQAM(4, 1/math.Sqrt(10))
	case Mod64QAM:
		c.generateSquareQAM(8, 1/math.Sqrt(42))
	default:
		c.generateSquareQAM(2, 1/math.Sqrt(2))
	}
	return c
}

// generateSquareQAM builds an order*order square constellation with
// Gray-coded row/column indices, scaled to the fixed normalization
// constant the standard specifies for that modulation (rather than a
// measured average power, so the mapping is bit-exact across runs).
func (c *Constellation) generateSquareQAM(order int, scale float64) {
	size := order * order
	c.points = make([]complex128, size)
	for i := 0; i < size; i++ {
		row := i / order
		col := i % order
		// The bit label of amplitude level L is gray(L), so a label maps
		// to the level given by the inverse Gray code.
		levelRow, levelCol := row, col
		for s := row >> 1; s != 0; s >>= 1 {
			levelRow ^= s
		}
		for s := col >> 1; s != 0; s >>= 1 {
			levelCol ^= s
		}
		x := float64(2*levelCol - order + 1)
		y := float64(2*levelRow - order + 1)
		c.points[i] = complex(x*scale, y*scale)
	}
}

// Map maps a slice of nbpsc bits (MSB first) to a constellation point.
func (c *Constellation) Map(bits []byte) complex128 {
	idx := bitsToIndex(bits)
	if idx >= len(c.points) {
		idx = len(c.points) - 1
	}
	return c.points[idx]
}

// Demap performs minimum-distance hard-decision slicing, returning
// the nbpsc bits (MSB first) of the closest constellation point.
func (c *Constellation) Demap(symbol complex128) []byte {
	minDist := math.MaxFloat64
	minIdx := 0
	for i, p := range c.points {
		dr := real(symbol) - real(p)
		di := imag(symbol) - imag(p)
		d := dr*dr + di*di
		if d < minDist {
			minDist = d
			minIdx = i
		}
	}
	return indexToBits(minIdx, c.Mod.BitsPerSymbol())
}

// MapBits maps a flat bit slice to constellation symbols, bps bits at
// a time.
func (c *Constellation) MapBits(bits []byte) []complex128 {
	bps := c.Mod.BitsPerSymbol()
	n := len(bits) / bps
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		out[i] = c.Map(bits[i*bps : (i+1)*bps])
	}
	return out
}

// DemapSymbols demaps a slice of symbols back to a flat bit slice.
func (c *Constellation) DemapSymbols(symbols []complex128) []byte {
	bps := c.Mod.BitsPerSymbol()
	bits := make([]byte, 0, len(symbols)*bps)
	for _, s := range symbols {
		bits = append(bits, c.Demap(s)...)
	}
	return bits
}

func bitsToIndex(bits []byte) int {
	idx := 0
	for _, b := range bits {
		idx = (idx << 1) | int(b&1)
	}
	return idx
}

func indexToBits(idx, numBits int) []byte {
	bits := make([]byte, numBits)
	for i := numBits - 1; i >= 0; i-- {
		bits[i] = byte(idx & 1)
		idx >>= 1
	}
	return bits
}
