package poisson

import (
	"math"

	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/workerpool"
)

// Predict returns one expected-count prediction per row, exp(F_i) summed
// over the first treeLimit trees (0 = all). No psi offset is reapplied
// here: psi is a training-time exposure adjustment only, consistent with
// the external Handle.Predict surface taking no psi argument.
func (e *Ensemble) Predict(x, z *dataset.Matrix, treeLimit int) ([]float64, error) {
	if x.Cols() != e.InterDim || z.Cols() != e.ExtraDim {
		return nil, poissonErrorf("Predict", ErrShapeMismatch)
	}
	if x.Rows() != z.Rows() {
		return nil, poissonErrorf("Predict", ErrShapeMismatch)
	}

	k := treeLimit
	if k <= 0 || k > len(e.Trees) {
		k = len(e.Trees)
	}
	trees := e.Trees[:k]

	n := x.Rows()
	out := make([]float64, n)

	pool := workerpool.New(e.ThreadsNum)
	defer pool.Close()

	pool.RunRange(n, func(_ int, lo, hi int) {
		for i := lo; i < hi; i++ {
			xi, zi := x.Row(i), z.Row(i)
			f := e.BasePrediction
			for _, t := range trees {
				f += e.LearningRate * t.Contribution(xi, zi)
			}
			out[i] = math.Exp(f)
		}
	})

	return out, nil
}
