package gbdt

import (
	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/workerpool"
)

// Predict returns one prediction per row of x/z, summing the base
// prediction and the first treeLimit trees' contributions (§6). treeLimit=0
// means "all trees". For mse the raw additive output is returned; for
// logloss the raw logit is returned — the caller applies σ for a
// probability, per the documented contract.
func (e *Ensemble) Predict(x, z *dataset.Matrix, treeLimit int) ([]float64, error) {
	if x.Cols() != e.InterDim || z.Cols() != e.ExtraDim {
		return nil, gbdtErrorf("Predict", ErrShapeMismatch)
	}
	if x.Rows() != z.Rows() {
		return nil, gbdtErrorf("Predict", ErrShapeMismatch)
	}

	k := treeLimit
	if k <= 0 || k > len(e.Trees) {
		k = len(e.Trees)
	}
	trees := e.Trees[:k]

	n := x.Rows()
	out := make([]float64, n)
	for i := range out {
		out[i] = e.BasePrediction
	}

	pool := workerpool.New(e.ThreadsNum)
	defer pool.Close()

	pool.RunRange(n, func(_ int, lo, hi int) {
		for i := lo; i < hi; i++ {
			xi, zi := x.Row(i), z.Row(i)
			sum := out[i]
			for _, t := range trees {
				sum += e.LearningRate * t.Contribution(xi, zi)
			}
			out[i] = sum
		}
	})

	return out, nil
}
