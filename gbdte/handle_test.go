package gbdte_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarstars/gbdte"
	"github.com/tarstars/gbdte/gbdt"
)

func stumpData() (inter, extra [][]float64, target []float64) {
	inter = make([][]float64, 8)
	extra = make([][]float64, 8)
	target = make([]float64, 8)
	for i := range inter {
		inter[i] = []float64{float64(i)}
		extra[i] = []float64{1}
		target[i] = float64(i)
	}
	return
}

func TestTrainPredictSaveLoadFree(t *testing.T) {
	inter, extra, target := stumpData()
	params := gbdt.Params{NStages: 2, MaxDepth: 1, LearningRate: 1, Loss: gbdt.LossMSE, ThreadsNum: 1}

	h, err := gbdte.Train(inter, extra, target, params)
	require.NoError(t, err)

	pred, err := h.Predict(inter, extra, 0)
	require.NoError(t, err)
	assert.Len(t, pred, 8)

	path := filepath.Join(t.TempDir(), "model.bin")
	require.NoError(t, h.Save(path))

	loaded, err := gbdte.Load(path)
	require.NoError(t, err)

	predLoaded, err := loaded.Predict(inter, extra, 0)
	require.NoError(t, err)
	assert.Equal(t, pred, predLoaded)

	h.Free()
	_, err = h.Predict(inter, extra, 0)
	assert.ErrorIs(t, err, gbdt.ErrHandleClosed)

	// Free is idempotent.
	h.Free()
	assert.ErrorIs(t, h.Save(path), gbdt.ErrHandleClosed)
}

func TestDumpLearningCurves(t *testing.T) {
	inter, extra, target := stumpData()
	params := gbdt.Params{NStages: 2, MaxDepth: 1, LearningRate: 1, Loss: gbdt.LossMSE, ThreadsNum: 1}

	h, err := gbdte.Train(inter, extra, target, params)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "curves.json")
	require.NoError(t, h.DumpLearningCurves(path))
}

func TestTrain_BadParameter(t *testing.T) {
	inter, extra, target := stumpData()
	params := gbdt.Params{NStages: 0, MaxDepth: 1, LearningRate: 1, Loss: gbdt.LossMSE}
	_, err := gbdte.Train(inter, extra, target, params)
	assert.ErrorIs(t, err, gbdt.ErrBadParameter)
}
