package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarstars/gbdte/dataset"
)

func TestNewMatrix_Valid(t *testing.T) {
	m, err := dataset.NewMatrix([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 2, m.Cols())
	assert.Equal(t, 4.0, m.At(1, 1))
}

func TestNewMatrix_Empty(t *testing.T) {
	_, err := dataset.NewMatrix(nil)
	assert.ErrorIs(t, err, dataset.ErrEmptyMatrix)
}

func TestNewMatrix_RaggedRows(t *testing.T) {
	_, err := dataset.NewMatrix([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, dataset.ErrRowLengthMismatch)
}

func TestNewTrainingMatrix_RowCountMismatch(t *testing.T) {
	inter := [][]float64{{1}, {2}, {3}}
	extra := [][]float64{{1}, {1}}
	target := []float64{0, 1, 2}

	_, err := dataset.NewTrainingMatrix(inter, extra, target)
	assert.ErrorIs(t, err, dataset.ErrRowCountMismatch)
}

func TestNewTrainingMatrix_Valid(t *testing.T) {
	inter := [][]float64{{0}, {1}, {2}}
	extra := [][]float64{{1}, {1}, {1}}
	target := []float64{0, 1, 2}

	tm, err := dataset.NewTrainingMatrix(inter, extra, target)
	require.NoError(t, err)
	assert.Equal(t, 3, tm.N())
	assert.Equal(t, 1, tm.P())
	assert.Equal(t, 1, tm.Q())
}
