package poisson

import (
	"github.com/tarstars/gbdte/bucket"
	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/linalg"
	"github.com/tarstars/gbdte/workerpool"
)

// splitCandidate mirrors gbdt's; the tie-break rule is the same (§4.3/§4.7:
// "same tree structure").
type splitCandidate struct {
	feature     int
	binBoundary int
	threshold   float64
	gain        float64
	nLeft       int
	nRight      int
	valid       bool
}

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

// gramAccum accumulates the Hessian-weighted Gram H, the gradient g, the row
// count, and the raw (unweighted) freq total — the last used only by
// check_zero, which guards on actual frequency mass rather than on the
// reweighted Hessian.
type gramAccum struct {
	q       int
	h       []float64
	g       []float64
	n       int
	freqSum float64
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
	a.freqSum = 0
}

func (a *gramAccum) add(z []float64, grad, hess, freq float64) {
	q := a.q
	for i := 0; i < q; i++ {
		a.g[i] += z[i] * grad
		zi := z[i]
		row := i * q
		for j := 0; j < q; j++ {
			a.h[row+j] += zi * z[j] * hess
		}
	}
	a.n++
	a.freqSum += freq
}

func (a *gramAccum) addAccum(other gramAccum) {
	for i := range a.h {
		a.h[i] += other.h[i]
	}
	for i := range a.g {
		a.g[i] += other.g[i]
	}
	a.n += other.n
	a.freqSum += other.freqSum
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
	out.freqSum = a.freqSum - other.freqSum
	return out
}

// computeTotal accumulates the node's totals once; every feature's split
// scoring reuses them.
func computeTotal(rows []int, z *dataset.Matrix, grad, hess, freq []float64) gramAccum {
	total := newGramAccum(z.Cols())
	for _, i := range rows {
		total.add(z.Row(i), grad[i], hess[i], freq[i])
	}
	return total
}

// findBestSplit mirrors gbdt.findBestSplit's worker-sharded histogram scan,
// substituting the Hessian-weighted accumulator for gbdt's plain one and
// applying check_zero instead of an unbalanced-loss penalty (the
// unbalanced_penalty knob is already baked into grad/hess per row before
// this is called, per group reweighting — see ensemble.go).
func findBestSplit(
	rows []int,
	x *dataset.Matrix,
	z *dataset.Matrix,
	grad, hess, freq []float64,
	buckets *bucket.Bucketiser,
	lambda float64,
	checkZero bool,
	minRows int,
	total gramAccum,
	pool *workerpool.Pool,
) splitCandidate {
	q := z.Cols()
	p := x.Cols()
	parentScratch, _ := linalg.NewDense(q, q)
	parentGain := linalg.SplitGain(parentScratch, total.h, total.g, lambda)

	best := make([]splitCandidate, pool.Size())

	pool.RunRange(p, func(workerID, lo, hi int) {
		var localBest splitCandidate
		scratch, _ := linalg.NewDense(q, q)
		left := newGramAccum(q)

		for j := lo; j < hi; j++ {
			numBins := buckets.NumBins(j)
			if numBins <= 1 {
				continue
			}

			bins := make([]gramAccum, numBins)
			for b := range bins {
				bins[b] = newGramAccum(q)
			}
			for _, i := range rows {
				b := int(buckets.BinAt(i, j))
				bins[b].add(z.Row(i), grad[i], hess[i], freq[i])
			}

			left.reset()
			for boundary := 0; boundary < numBins-1; boundary++ {
				left.addAccum(bins[boundary])
				right := total.subAccum(left)

				if left.n < minRows || right.n < minRows {
					continue
				}
				if checkZero && (left.freqSum <= 0 || right.freqSum <= 0) {
					continue
				}

				gain := linalg.SplitGain(scratch, left.h, left.g, lambda) + linalg.SplitGain(scratch, right.h, right.g, lambda) - parentGain

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
