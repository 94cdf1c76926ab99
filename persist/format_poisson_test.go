package persist_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarstars/gbdte/persist"
	"github.com/tarstars/gbdte/poisson"
)

func trainPoissonStump(t *testing.T) *poisson.Ensemble {
	t.Helper()
	n := 8
	inter := make([][]float64, n)
	extra := make([][]float64, n)
	freq := make([]float64, n)
	bjid := make([]int32, n)
	for i := 0; i < n; i++ {
		inter[i] = []float64{float64(i)}
		extra[i] = []float64{1}
		freq[i] = float64(i + 1)
		bjid[i] = int32(i)
	}

	params := poisson.Params{NStages: 2, MaxDepth: 2, LearningRate: 0.5, ThreadsNum: 1}
	h, err := poisson.Train(bjid, freq, inter, extra, nil, params)
	require.NoError(t, err)
	ens, err := h.Export()
	require.NoError(t, err)
	return ens
}

func TestSaveLoadPoisson_RoundTrip(t *testing.T) {
	ens := trainPoissonStump(t)

	path := filepath.Join(t.TempDir(), "poisson.bin")
	require.NoError(t, persist.SavePoisson(path, ens))

	loaded, err := persist.LoadPoisson(path)
	require.NoError(t, err)

	h := poisson.FromEnsemble(ens)
	loadedHandle := poisson.FromEnsemble(loaded)

	testInter := [][]float64{{0}, {3}, {7}}
	testExtra := [][]float64{{1}, {1}, {1}}

	before, err := h.Predict(testInter, testExtra)
	require.NoError(t, err)
	after, err := loadedHandle.Predict(testInter, testExtra)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestEncodeDecodePoisson_InMemory(t *testing.T) {
	ens := trainPoissonStump(t)

	var buf bytes.Buffer
	require.NoError(t, persist.EncodeToPoisson(&buf, ens))

	loaded, err := persist.DecodeFromPoisson(&buf)
	require.NoError(t, err)
	assert.Equal(t, ens.InterDim, loaded.InterDim)
	assert.Equal(t, ens.ExtraDim, loaded.ExtraDim)
	assert.Equal(t, len(ens.Trees), len(loaded.Trees))
}

func TestLoadPoisson_FormatMismatch(t *testing.T) {
	// A file whose magic is not the poisson magic is rejected.
	ens := trainPoissonStump(t)
	var buf bytes.Buffer
	require.NoError(t, persist.EncodeToPoisson(&buf, ens))

	data := buf.Bytes()
	data[0] ^= 0xFF // corrupt the magic

	_, err := persist.DecodeFromPoisson(bytes.NewReader(data))
	assert.ErrorIs(t, err, persist.ErrFormatMismatch)
}
