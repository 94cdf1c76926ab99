package poisson

import (
	"math"

	"github.com/tarstars/gbdte/bucket"
	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/internal/stats"
	"github.com/tarstars/gbdte/workerpool"
)

// Ensemble is the trained Poisson model: an ordered list of Trees over the
// log-link linear predictor F, plus the base rate and bucketiser needed to
// re-bucketise inference rows (§4.7).
type Ensemble struct {
	Trees          []*Tree
	LearningRate   float64
	BasePrediction float64
	InterDim       int
	ExtraDim       int
	Buckets        *bucket.Bucketiser
	ThreadsNum     int
}

const freqFloor = 1e-6

// trainEnsemble grows an Ensemble over grouped (bjid, freq) targets, per
// §4.7's Newton-step driver loop. psi, if non-nil, is a fixed per-row
// log-exposure offset added to the linear predictor before exponentiating
// (grounded on Train's signature pairing psi one-for-one with the
// row-parallel bjid/freq vectors, rather than with the q-dimensional
// extra-feature basis). Exported as poisson.Train via handle.go, which also
// owns matrix construction from raw [][]float64 input.
func trainEnsemble(x, z *dataset.Matrix, bjid []int32, freq, psi []float64, params Params) (*Ensemble, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params = params.normalized()

	n := x.Rows()
	if z.Rows() != n || len(bjid) != n || len(freq) != n {
		return nil, poissonErrorf("Train", ErrShapeMismatch)
	}
	if psi != nil && len(psi) != n {
		return nil, poissonErrorf("Train", ErrShapeMismatch)
	}
	if n < params.MaxDepth*params.MinRows {
		return nil, poissonErrorf("Train", ErrShapeMismatch)
	}

	buckets, err := bucket.Build(x)
	if err != nil {
		return nil, poissonErrorf("Train", err)
	}

	meanFreq := stats.Mean(freq)
	base := math.Log(math.Max(meanFreq, freqFloor))

	weight := rowWeights(bjid, freq, meanFreq, params.UnbalancedPenalty)

	f := make([]float64, n)
	for i := range f {
		f[i] = base
	}

	pool := workerpool.New(params.ThreadsNum)
	defer pool.Close()

	ens := &Ensemble{
		LearningRate:   params.LearningRate,
		BasePrediction: base,
		InterDim:       x.Cols(),
		ExtraDim:       z.Cols(),
		Buckets:        buckets,
		ThreadsNum:     params.ThreadsNum,
	}

	grad := make([]float64, n)
	hess := make([]float64, n)

	for stage := 0; stage < params.NStages; stage++ {
		computeGradHess(f, psi, freq, weight, grad, hess)

		tree := growTree(x, z, grad, hess, freq, buckets, params, pool)
		ens.Trees = append(ens.Trees, tree)

		updateF(f, tree, x, z, params.LearningRate, pool)
	}

	return ens, nil
}

// rowWeights implements unbalanced_penalty: each row is reweighted by how
// far its bjid group's mean freq deviates from the overall mean freq,
// relative to that mean (§4.7). A group exactly at the reference rate gets
// weight 1; penalty=0 disables reweighting entirely.
func rowWeights(bjid []int32, freq []float64, meanFreq, penalty float64) []float64 {
	weight := make([]float64, len(freq))
	for i := range weight {
		weight[i] = 1
	}
	if penalty <= 0 || meanFreq <= 0 {
		return weight
	}

	sums := make(map[int32]float64)
	counts := make(map[int32]int)
	for i, g := range bjid {
		sums[g] += freq[i]
		counts[g]++
	}
	groupMean := make(map[int32]float64, len(sums))
	for g, s := range sums {
		groupMean[g] = s / float64(counts[g])
	}

	for i, g := range bjid {
		dev := groupMean[g] - meanFreq
		if dev < 0 {
			dev = -dev
		}
		weight[i] = 1 + penalty*dev/meanFreq
	}
	return weight
}

// computeGradHess fills grad/hess with this stage's per-row Poisson Newton
// statistics: μ_i = exp(F_i + ψ_i), grad_i = weight_i·(freq_i − μ_i),
// hess_i = weight_i·μ_i.
func computeGradHess(f, psi, freq, weight, grad, hess []float64) {
	for i := range f {
		offset := 0.0
		if psi != nil {
			offset = psi[i]
		}
		mu := math.Exp(f[i] + offset)
		grad[i] = weight[i] * (freq[i] - mu)
		hess[i] = weight[i] * mu
	}
}

// updateF adds η·z_iᵀβ_{leaf(tree,i)} to every row's linear predictor.
func updateF(f []float64, tree *Tree, x, z *dataset.Matrix, eta float64, pool *workerpool.Pool) {
	pool.RunRange(len(f), func(_ int, lo, hi int) {
		for i := lo; i < hi; i++ {
			f[i] += eta * tree.Contribution(x.Row(i), z.Row(i))
		}
	})
}
