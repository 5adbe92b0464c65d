package dsp

import "math"

// PolyFit fits a polynomial of the given order to (xs[i], ys[i]) by
// ordinary least squares, returning coefficients [c0, c1, ..., cN]
// such that y ≈ c0 + c1*x + ... + cN*x^N. It solves the normal
// equations directly via Gauss-Jordan elimination; order is expected
// to stay small (the channel estimator and pilot tracker only ever
// fit order 1 or 2), so no iterative solver is needed.
func PolyFit(xs, ys []float64, order int) []float64 {
	if len(xs) != len(ys) {
		panic("dsp: PolyFit requires xs and ys of equal length")
	}
	n := order + 1

	// Normal equations: A^T A c = A^T y
	ata := make([][]float64, n)
	aty := make([]float64, n)
	for i := range ata {
		ata[i] = make([]float64, n)
	}

	for i := range xs {
		x := xs[i]
		y := ys[i]
		pow := make([]float64, 2*order+1)
		pow[0] = 1
		for p := 1; p < len(pow); p++ {
			pow[p] = pow[p-1] * x
		}
		for r := 0; r < n; r++ {
			aty[r] += pow[r] * y
			for c := 0; c < n; c++ {
				ata[r][c] += pow[r+c]
			}
		}
	}

	return gaussSolve(ata, aty)
}

// PolyEval evaluates a polynomial given by PolyFit-style coefficients
// at x.
func PolyEval(coeffs []float64, x float64) float64 {
	result := 0.0
	xp := 1.0
	for _, c := range coeffs {
		result += c * xp
		xp *= x
	}
	return result
}

// gaussSolve solves A*x = b for a small square system via Gauss-Jordan
// elimination with partial pivoting.
func gaussSolve(a [][]float64, b []float64) []float64 {
	n := len(b)
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = make([]float64, n+1)
		copy(aug[i], a[i])
		aug[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		best := math.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug[r][col]); v > best {
				pivot, best = r, v
			}
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		if math.Abs(aug[col][col]) < 1e-15 {
			continue // singular in this column; leave coefficient at zero
		}

		pivotVal := aug[col][col]
		for c := col; c <= n; c++ {
			aug[col][c] /= pivotVal
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			for c := col; c <= n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = aug[i][n]
	}
	return x
}

// UnwrapPhase adds/subtracts multiples of 2π so that each successive
// sample differs from the previous one by at most π, the standard
// additive unwrap rule used throughout the channel and pilot phase
// estimators.
func UnwrapPhase(phases []float64) []float64 {
	out := make([]float64, len(phases))
	if len(phases) == 0 {
		return out
	}
	out[0] = phases[0]
	for i := 1; i < len(phases); i++ {
		d := phases[i] - phases[i-1]
		for d > math.Pi {
			d -= 2 * math.Pi
		}
		for d < -math.Pi {
			d += 2 * math.Pi
		}
		out[i] = out[i-1] + d
	}
	return out
}

// WrapPhase reduces an angle into (-π, π].
func WrapPhase(phase float64) float64 {
	for phase > math.Pi {
		phase -= 2 * math.Pi
	}
	for phase <= -math.Pi {
		phase += 2 * math.Pi
	}
	return phase
}
