package gbdt

import (
	"github.com/tarstars/gbdte/bucket"
	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/linalg"
	"github.com/tarstars/gbdte/workerpool"
)

// splitCandidate describes one (feature, bin boundary) split and its score.
type splitCandidate struct {
	feature     int
	binBoundary int // index into bucket.Thresholds(feature); τ = Thresholds(feature)[binBoundary]
	threshold   float64
	gain        float64
	nLeft       int
	nRight      int
	valid       bool
}

// better reports whether a is preferred over b under §4.3's tie-break rule:
// higher gain wins; ties break on (1) lower feature index, (2) lower
// boundary index.
func (a splitCandidate) better(b splitCandidate) bool {
	if !b.valid {
		return true
	}
	if !a.valid {
		return false
	}
	if a.gain != b.gain {
		return a.gain > b.gain
	}
	if a.feature != b.feature {
		return a.feature < b.feature
	}
	return a.binBoundary < b.binBoundary
}

// gramAccum is a flat q×q accumulator (full matrix, row-major) kept as a
// plain slice rather than *linalg.Dense on the histogram hot path, to avoid
// bounds-checked At/Set calls inside the innermost loop over rows.
type gramAccum struct {
	q    int
	h    []float64 // q*q
	g    []float64 // q
	n    int
}

func newGramAccum(q int) gramAccum {
	return gramAccum{q: q, h: make([]float64, q*q), g: make([]float64, q)}
}

func (a *gramAccum) reset() {
	for i := range a.h {
		a.h[i] = 0
	}
	for i := range a.g {
		a.g[i] = 0
	}
	a.n = 0
}

func (a *gramAccum) add(z []float64, r float64) {
	q := a.q
	for i := 0; i < q; i++ {
		a.g[i] += z[i] * r
		zi := z[i]
		row := i * q
		for j := 0; j < q; j++ {
			a.h[row+j] += zi * z[j]
		}
	}
	a.n++
}

func (a *gramAccum) addAccum(other gramAccum) {
	for i := range a.h {
		a.h[i] += other.h[i]
	}
	for i := range a.g {
		a.g[i] += other.g[i]
	}
	a.n += other.n
}

func (a *gramAccum) subAccum(other gramAccum) gramAccum {
	out := newGramAccum(a.q)
	for i := range a.h {
		out.h[i] = a.h[i] - other.h[i]
	}
	for i := range a.g {
		out.g[i] = a.g[i] - other.g[i]
	}
	out.n = a.n - other.n
	return out
}

// splitGain computes gᵀ(H+λI)⁻¹g / 2 — the gainOf formula of §4.3, distinct
// from the leaf solver's gain formula (no −λ‖β‖²/2 term: this scores a
// *candidate* half-split, not a materialised leaf). Delegates to
// linalg.SplitGain, shared with poisson's split finder.
func splitGain(scratch *linalg.Dense, h, g []float64, lambda float64) float64 {
	return linalg.SplitGain(scratch, h, g, lambda)
}

// computeTotal accumulates H_total, g_total over rows once per node; every
// feature's split scoring reuses the same totals (§4.3).
func computeTotal(rows []int, z *dataset.Matrix, r []float64) gramAccum {
	total := newGramAccum(z.Cols())
	for _, i := range rows {
		total.add(z.Row(i), r[i])
	}
	return total
}

// findBestSplit scans every candidate (feature, bin boundary) pair for rows
// in S and returns the highest-gain split with at least minRows rows on each
// side, or valid=false if no boundary meets that row count. The returned
// gain may be ≤ 0; the grower treats that case as no viable split (§4.4).
//
// Parallelism: features are sharded across pool's workers; each worker
// maintains its own scratch accumulators and its own local best candidate
// slot, and the reduction over worker slots happens afterward in a fixed
// order — so results never depend on goroutine scheduling (§5).
func findBestSplit(
	rows []int,
	x *dataset.Matrix,
	z *dataset.Matrix,
	r []float64,
	buckets *bucket.Bucketiser,
	lambda, unbalancedLoss float64,
	minRows int,
	total gramAccum,
	pool *workerpool.Pool,
) splitCandidate {
	q := z.Cols()
	p := x.Cols()
	n := len(rows)
	parentScratch, _ := linalg.NewDense(q, q)
	parentGain := splitGain(parentScratch, total.h, total.g, lambda)

	best := make([]splitCandidate, pool.Size())

	pool.RunRange(p, func(workerID, lo, hi int) {
		var localBest splitCandidate
		scratch, _ := linalg.NewDense(q, q)
		left := newGramAccum(q)

		for j := lo; j < hi; j++ {
			numBins := buckets.NumBins(j)
			if numBins <= 1 {
				continue // a feature with only one populated bin contributes no candidate
			}

			bins := make([]gramAccum, numBins)
			for b := range bins {
				bins[b] = newGramAccum(q)
			}
			for _, i := range rows {
				b := int(buckets.BinAt(i, j))
				bins[b].add(z.Row(i), r[i])
			}

			left.reset()
			for boundary := 0; boundary < numBins-1; boundary++ {
				left.addAccum(bins[boundary])
				right := total.subAccum(left)

				if left.n < minRows || right.n < minRows {
					continue
				}

				gain := splitGain(scratch, left.h, left.g, lambda) + splitGain(scratch, right.h, right.g, lambda) - parentGain
				if unbalancedLoss > 0 && n > 0 {
					imbalance := left.n - right.n
					if imbalance < 0 {
						imbalance = -imbalance
					}
					gain -= unbalancedLoss * float64(imbalance) / float64(n)
				}

				cand := splitCandidate{
					feature:     j,
					binBoundary: boundary,
					threshold:   buckets.Threshold(j, boundary),
					gain:        gain,
					nLeft:       left.n,
					nRight:      right.n,
					valid:       true,
				}
				if cand.better(localBest) {
					localBest = cand
				}
			}
		}

		best[workerID] = localBest
	})

	var reduced splitCandidate
	for _, cand := range best {
		if cand.better(reduced) {
			reduced = cand
		}
	}
	return reduced
}
