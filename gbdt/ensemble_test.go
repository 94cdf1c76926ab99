package gbdt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/gbdt"
	"github.com/tarstars/gbdte/internal/stats"
)

func col(vals ...float64) [][]float64 {
	out := make([][]float64, len(vals))
	for i, v := range vals {
		out[i] = []float64{v}
	}
	return out
}

func ones(n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = []float64{1}
	}
	return out
}

// S1: single stump on linear data.
func TestTrain_S1_SingleStump(t *testing.T) {
	inter := col(0, 1, 2, 3, 4, 5, 6, 7)
	extra := ones(8)
	target := []float64{0, 1, 2, 3, 4, 5, 6, 7}

	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	require.NoError(t, err)

	params := gbdt.Params{
		NStages:      1,
		MaxDepth:     1,
		LearningRate: 1,
		Loss:         gbdt.LossMSE,
		ThreadsNum:   1,
	}

	ens, _, err := gbdt.Train(tm, params)
	require.NoError(t, err)
	require.Len(t, ens.Trees, 1)

	root := ens.Trees[0].Root
	require.False(t, root.IsLeaf())
	assert.Greater(t, root.Threshold, 3.0)
	assert.Less(t, root.Threshold, 4.0)

	pred, err := ens.Predict(tm.X, tm.Z, 0)
	require.NoError(t, err)
	want := []float64{1.5, 1.5, 1.5, 1.5, 5.5, 5.5, 5.5, 5.5}
	assert.InDeltaSlice(t, want, pred, 1e-9)
}

// S2: two-stage convergence. Trees are depth 2 so each half of the range can
// be split further; two depth-1 stumps cannot get RMSE below 0.75 here.
func TestTrain_S2_TwoStage(t *testing.T) {
	inter := col(0, 1, 2, 3, 4, 5, 6, 7)
	extra := ones(8)
	target := []float64{0, 1, 2, 3, 4, 5, 6, 7}

	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	require.NoError(t, err)

	params := gbdt.Params{
		NStages:      2,
		MaxDepth:     2,
		LearningRate: 1,
		Loss:         gbdt.LossMSE,
		ThreadsNum:   1,
	}

	ens, _, err := gbdt.Train(tm, params)
	require.NoError(t, err)

	pred, err := ens.Predict(tm.X, tm.Z, 0)
	require.NoError(t, err)
	assert.Less(t, stats.RMSE(target, pred), 0.6)
}

// S3: extra-feature leaf fit with a constant inter-feature (no split possible).
func TestTrain_S3_ExtraFeatureLeafFit(t *testing.T) {
	n := 10
	inter := make([][]float64, n)
	extra := make([][]float64, n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		tt := float64(i) / float64(n-1)
		inter[i] = []float64{0} // constant: no viable split
		extra[i] = []float64{1, tt}
		target[i] = 0.2 + 0.5*tt
	}

	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	require.NoError(t, err)

	params := gbdt.Params{
		NStages:      1,
		MaxDepth:     1,
		LearningRate: 1,
		Loss:         gbdt.LossMSE,
		ThreadsNum:   1,
		MinRows:      1,
	}

	ens, _, err := gbdt.Train(tm, params)
	require.NoError(t, err)
	require.Len(t, ens.Trees, 1)
	assert.True(t, ens.Trees[0].Root.IsLeaf())

	testX, _ := dataset.NewMatrix([][]float64{{0}, {0}})
	testZ, _ := dataset.NewMatrix([][]float64{{1, 0.3}, {1, 0.9}})
	pred, err := ens.Predict(testX, testZ, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.2+0.5*0.3, pred[0], 1e-9)
	assert.InDelta(t, 0.2+0.5*0.9, pred[1], 1e-9)
}

// S4: logloss base prediction. NStages=0 is rejected by Validate, so one
// stage is grown and only μ₀ itself is checked.
func TestTrain_S4_LoglossBasePrediction(t *testing.T) {
	n := 10
	inter := make([][]float64, n)
	extra := make([][]float64, n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		inter[i] = []float64{float64(i)}
		extra[i] = []float64{1}
		if i < 3 {
			target[i] = 1
		}
	}

	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	require.NoError(t, err)

	params := gbdt.Params{
		NStages:      1,
		MaxDepth:     1,
		LearningRate: 1,
		Loss:         gbdt.LossLogLoss,
		ThreadsNum:   1,
	}
	ens, _, err := gbdt.Train(tm, params)
	require.NoError(t, err)

	assert.InDelta(t, stats.Logit(0.3), ens.BasePrediction, 1e-6)

	pred, err := ens.Predict(tm.X, tm.Z, 0)
	require.NoError(t, err)
	// With one trivial stage grown, predictions should still be centred
	// near the base logit (we only assert the base prediction itself here,
	// since stage-0 contributions vary with split outcome).
	_ = pred
}

// S6: tree-limit truncation matches the driver's own running state.
func TestTrain_S6_TreeLimitTruncation(t *testing.T) {
	n := 20
	inter := make([][]float64, n)
	extra := ones(n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		inter[i] = []float64{float64(i)}
		target[i] = float64(i)
	}
	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	require.NoError(t, err)

	params := gbdt.Params{
		NStages:      5,
		MaxDepth:     2,
		LearningRate: 0.5,
		Loss:         gbdt.LossMSE,
		ThreadsNum:   2,
	}
	ens, _, err := gbdt.Train(tm, params)
	require.NoError(t, err)
	require.Len(t, ens.Trees, 5)

	predAll, err := ens.Predict(tm.X, tm.Z, 0)
	require.NoError(t, err)
	pred3, err := ens.Predict(tm.X, tm.Z, 3)
	require.NoError(t, err)

	truncated := &gbdt.Ensemble{
		Trees:          ens.Trees[:3],
		LearningRate:   ens.LearningRate,
		Loss:           ens.Loss,
		BasePrediction: ens.BasePrediction,
		InterDim:       ens.InterDim,
		ExtraDim:       ens.ExtraDim,
		Buckets:        ens.Buckets,
		ThreadsNum:     ens.ThreadsNum,
	}
	predTrunc, err := truncated.Predict(tm.X, tm.Z, 0)
	require.NoError(t, err)

	assert.InDeltaSlice(t, predTrunc, pred3, 1e-9)
	assert.NotEqual(t, predAll, pred3)
}

// Invariant 3: for q=1, Z≡1, λ=0, β equals the mean of the leaf's residuals.
// μ₀ = 2.5, so the residuals are [-1.5, -0.5, 0.5, 1.5] and their mean is 0.
func TestInvariant_ScalarLeafEqualsMean(t *testing.T) {
	inter := col(0, 0, 0, 0)
	extra := ones(4)
	target := []float64{1, 2, 3, 4}

	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	require.NoError(t, err)

	params := gbdt.Params{
		NStages:      1,
		MaxDepth:     1,
		LearningRate: 1,
		Loss:         gbdt.LossMSE,
		ThreadsNum:   1,
	}
	ens, _, err := gbdt.Train(tm, params)
	require.NoError(t, err)

	assert.True(t, ens.Trees[0].Root.IsLeaf())
	assert.InDelta(t, 0.0, ens.Trees[0].Root.Beta[0], 1e-9)
}

// Invariant 7: constant target produces an all-zero-leaf ensemble whose
// predictions equal μ₀.
func TestInvariant_DegenerateConstantTarget(t *testing.T) {
	n := 10
	inter := make([][]float64, n)
	extra := ones(n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		inter[i] = []float64{float64(i)}
		target[i] = 7
	}
	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	require.NoError(t, err)

	params := gbdt.Params{
		NStages:      3,
		MaxDepth:     3,
		LearningRate: 0.3,
		Loss:         gbdt.LossMSE,
		ThreadsNum:   1,
	}
	ens, _, err := gbdt.Train(tm, params)
	require.NoError(t, err)

	pred, err := ens.Predict(tm.X, tm.Z, 0)
	require.NoError(t, err)
	for _, v := range pred {
		assert.InDelta(t, 7.0, v, 1e-9)
	}
}

func TestParams_Validate(t *testing.T) {
	base := gbdt.Params{NStages: 1, MaxDepth: 1, LearningRate: 1, Loss: gbdt.LossMSE}
	require.NoError(t, base.Validate())

	bad := base
	bad.NStages = 0
	assert.ErrorIs(t, bad.Validate(), gbdt.ErrBadParameter)

	bad = base
	bad.LearningRate = 1.5
	assert.ErrorIs(t, bad.Validate(), gbdt.ErrBadParameter)

	bad = base
	bad.MaxDepth = 0
	assert.ErrorIs(t, bad.Validate(), gbdt.ErrBadParameter)
}

func TestPredict_ShapeMismatch(t *testing.T) {
	inter := col(0, 1, 2, 3)
	extra := ones(4)
	target := []float64{0, 1, 2, 3}
	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	require.NoError(t, err)

	params := gbdt.Params{NStages: 1, MaxDepth: 1, LearningRate: 1, Loss: gbdt.LossMSE, ThreadsNum: 1}
	ens, _, err := gbdt.Train(tm, params)
	require.NoError(t, err)

	wrongZ, _ := dataset.NewMatrix([][]float64{{1, 2}})
	wrongX, _ := dataset.NewMatrix([][]float64{{0}})
	_, err = ens.Predict(wrongX, wrongZ, 0)
	assert.ErrorIs(t, err, gbdt.ErrShapeMismatch)
}

func TestWithTrace_CountsNoViableSplitOnConstantFeature(t *testing.T) {
	n := 6
	inter := make([][]float64, n)
	extra := ones(n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		inter[i] = []float64{0} // constant: every node is a forced leaf
		target[i] = float64(i)
	}
	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	require.NoError(t, err)

	params := gbdt.Params{NStages: 1, MaxDepth: 2, LearningRate: 1, Loss: gbdt.LossMSE, ThreadsNum: 1}
	var trace gbdt.Trace
	_, _, err = gbdt.Train(tm, params, gbdt.WithTrace(&trace))
	require.NoError(t, err)

	assert.Greater(t, trace.NoViableSplit, 0)
}

func TestWithMonitor_RecordsPerStageMetrics(t *testing.T) {
	inter := col(0, 1, 2, 3, 4, 5, 6, 7)
	extra := ones(8)
	target := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	require.NoError(t, err)

	params := gbdt.Params{NStages: 2, MaxDepth: 1, LearningRate: 1, Loss: gbdt.LossMSE, ThreadsNum: 1}
	_, monitors, err := gbdt.Train(tm, params, gbdt.WithMonitor("train", tm))
	require.NoError(t, err)

	require.Len(t, monitors, 2)
	assert.Equal(t, 0, monitors[0].Stage)
	assert.Equal(t, 1, monitors[1].Stage)
	assert.Contains(t, monitors[0].Metrics, "train")
	assert.GreaterOrEqual(t, monitors[0].Metrics["train"], 0.0)
}
