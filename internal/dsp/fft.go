// Package dsp provides the generic signal-processing primitives the
// WLAN baseband pipeline treats as external collaborators: a
// power-of-two FFT/IFFT, a numerically controlled oscillator, a
// least-squares polynomial fit/eval, a configurable LFSR, and basic
// AGC/DC-removal helpers.
package dsp

import (
	"math"
	"math/cmplx"
)

// FFT computes the forward Discrete Fourier Transform using an
// iterative radix-2 Cooley-Tukey algorithm. Input length must be a
// power of 2.
func FFT(x []complex128) []complex128 {
	n := len(x)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, x)
		return out
	}
	if n&(n-1) != 0 {
		panic("dsp: FFT length must be a power of 2")
	}

	out := make([]complex128, n)
	copy(out, x)
	bitReverse(out)
	fftIterative(out, false)
	return out
}

// IFFT computes the inverse Discrete Fourier Transform.
func IFFT(x []complex128) []complex128 {
	n := len(x)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, x)
		return out
	}
	if n&(n-1) != 0 {
		panic("dsp: IFFT length must be a power of 2")
	}

	out := make([]complex128, n)
	copy(out, x)
	bitReverse(out)
	fftIterative(out, true)

	scale := 1.0 / float64(n)
	for i := range out {
		out[i] *= complex(scale, 0)
	}
	return out
}

// FFT64 and IFFT64 are the fixed 64-point transforms the WLAN
// pipeline calls once per OFDM symbol.
func FFT64(x []complex128) []complex128 {
	if len(x) != 64 {
		panic("dsp: FFT64 requires exactly 64 samples")
	}
	return FFT(x)
}

func IFFT64(X []complex128) []complex128 {
	if len(X) != 64 {
		panic("dsp: IFFT64 requires exactly 64 samples")
	}
	return IFFT(X)
}

func fftIterative(x []complex128, inverse bool) {
	n := len(x)
	for size := 2; size <= n; size <<= 1 {
		halfSize := size >> 1
		sign := -1.0
		if inverse {
			sign = 1.0
		}
		wn := cmplx.Exp(complex(0, sign*2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for j := 0; j < halfSize; j++ {
				u := x[start+j]
				v := w * x[start+j+halfSize]
				x[start+j] = u + v
				x[start+j+halfSize] = u - v
				w *= wn
			}
		}
	}
}

func bitReverse(x []complex128) {
	n := len(x)
	bits := 0
	for tmp := n; tmp > 1; tmp >>= 1 {
		bits++
	}
	for i := 0; i < n; i++ {
		j := reverseBits(i, bits)
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
}

func reverseBits(x, bits int) int {
	result := 0
	for i := 0; i < bits; i++ {
		result = (result << 1) | (x & 1)
		x >>= 1
	}
	return result
}
