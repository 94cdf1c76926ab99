package linalg

import "math"

// minPivot is the smallest diagonal magnitude LDLᵀ will accept as
// non-degenerate; anything smaller is treated as a singular Gram matrix
// even after ridge regularisation has been added to the diagonal.
const minPivot = 1e-12

// SolveSPD solves (gram + ridge·I)·x = rhs for x, where gram is a symmetric
// q×q matrix (only the upper triangle is read), via an in-place LDLᵀ
// decomposition. ridge is added to the diagonal before factoring, so callers
// do not need to pre-regularise gram themselves.
//
// Stage 1 (Validate): gram must be square and match rhs in length.
// Stage 2 (Decompose): LDLᵀ factorisation of (gram + ridge·I), column by column.
// Stage 3 (Execute): forward solve Lz = rhs, diagonal solve Dw = z, back solve Lᵀx = w.
// Stage 4 (Finalize): return x, or ok=false if a pivot underflowed minPivot.
//
// A non-ok result means the node this Gram matrix came from is numerically
// degenerate; callers treat that as a zero coefficient vector and zero gain,
// never as a hard error — the system has no surfaced "singular matrix" kind.
//
// Complexity: O(q³) time, O(q²) memory, where q = gram.Rows().
func SolveSPD(gram *Dense, rhs []float64, ridge float64) ([]float64, bool) {
	// Stage 1: Validate input shape
	q := gram.Rows()
	if q != gram.Cols() || q != len(rhs) {
		return nil, false
	}
	if ridge < minPivot {
		ridge = minPivot // λ ≥ 1e-12 is enforced internally regardless of caller input
	}

	// Stage 2: work on a private clone of gram so the caller's matrix is
	// never mutated by the in-place factorisation below; symmetrise the
	// lower triangle from the upper and add ridge to the diagonal.
	work := gram.Clone()
	for i := 0; i < q; i++ {
		for j := 0; j < i; j++ {
			v, _ := work.At(j, i)
			_ = work.Set(i, j, v)
		}
		v, _ := work.At(i, i)
		_ = work.Set(i, i, v+ridge)
	}

	// Stage 2 (cont.): LDLᵀ factorisation in place. L is unit lower
	// triangular stored in the strict lower part of work; d holds the diagonal.
	d := make([]float64, q)
	for j := 0; j < q; j++ {
		ajj, _ := work.At(j, j)
		sum := ajj
		for k := 0; k < j; k++ {
			ajk, _ := work.At(j, k)
			sum -= ajk * ajk * d[k]
		}
		if math.Abs(sum) < minPivot {
			return nil, false // degenerate pivot
		}
		d[j] = sum

		for i := j + 1; i < q; i++ {
			aij, _ := work.At(i, j)
			s := aij
			for k := 0; k < j; k++ {
				aik, _ := work.At(i, k)
				ajk, _ := work.At(j, k)
				s -= aik * ajk * d[k]
			}
			_ = work.Set(i, j, s/sum)
		}
	}

	// Stage 3: Forward substitution Lz = rhs (L unit lower triangular).
	z := make([]float64, q)
	for i := 0; i < q; i++ {
		sum := rhs[i]
		for k := 0; k < i; k++ {
			aik, _ := work.At(i, k)
			sum -= aik * z[k]
		}
		z[i] = sum
	}

	// Diagonal solve Dw = z.
	w := make([]float64, q)
	for i := 0; i < q; i++ {
		w[i] = z[i] / d[i]
	}

	// Back substitution Lᵀx = w.
	x := make([]float64, q)
	for i := q - 1; i >= 0; i-- {
		sum := w[i]
		for k := i + 1; k < q; k++ {
			aki, _ := work.At(k, i)
			sum -= aki * x[k]
		}
		x[i] = sum
	}

	// Stage 4: Finalize
	return x, true
}

// QuadForm computes gᵀx for equal-length vectors, used to turn a solved
// coefficient vector back into a gain value (gᵀβ term of gainOf).
func QuadForm(g, x []float64) float64 {
	var sum float64
	for i := range g {
		sum += g[i] * x[i]
	}
	return sum
}

// NormSq returns ‖x‖².
func NormSq(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// SplitGain computes gᵀ(H+λI)⁻¹g / 2 for a flat q×q accumulator h (row-major,
// upper triangle meaningful) and gradient vector g — the gainOf formula
// shared by gbdt's split finder (plain Gram) and poisson's (Hessian-diagonal
// weighted Gram): both score a candidate half-split the same way once H and
// g are assembled, and only differ in what goes into H and g.
//
// scratch is a caller-owned q×q buffer reused across the many candidate
// splits scored per node; SplitGain resets and refills it rather than
// allocating a fresh Dense on every call. Callers that score splits from
// multiple goroutines must give each goroutine its own scratch buffer.
func SplitGain(scratch *Dense, h, g []float64, lambda float64) float64 {
	q := len(g)
	scratch.Reset()
	for i := 0; i < q; i++ {
		row := i * q
		for j := 0; j < q; j++ {
			_ = scratch.Set(i, j, h[row+j])
		}
	}
	beta, ok := SolveSPD(scratch, g, lambda)
	if !ok {
		return 0
	}
	gain := QuadForm(g, beta) / 2
	if gain < 0 {
		return 0
	}
	return gain
}
