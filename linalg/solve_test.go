package linalg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarstars/gbdte/linalg"
)

func diag(vals ...float64) *linalg.Dense {
	d, _ := linalg.NewDense(len(vals), len(vals))
	for i, v := range vals {
		_ = d.Set(i, i, v)
	}
	return d
}

func TestSolveSPD_Identity(t *testing.T) {
	g := diag(1, 1, 1)
	rhs := []float64{2, 4, 6}

	x, ok := linalg.SolveSPD(g, rhs, 0)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{2, 4, 6}, x, 1e-9)
}

func TestSolveSPD_WithRidge(t *testing.T) {
	// A single-dimension Gram of 0 plus ridge λ solves x = rhs/λ.
	g := diag(0)
	x, ok := linalg.SolveSPD(g, []float64{1}, 0.1)
	require.True(t, ok)
	assert.InDelta(t, 10.0, x[0], 1e-6)
}

func TestSolveSPD_OffDiagonal(t *testing.T) {
	g, _ := linalg.NewDense(2, 2)
	_ = g.Set(0, 0, 4)
	_ = g.Set(0, 1, 1)
	_ = g.Set(1, 1, 3)

	x, ok := linalg.SolveSPD(g, []float64{1, 2}, 0)
	require.True(t, ok)

	// Verify gram*x == rhs within tolerance (gram symmetrised from upper triangle).
	got0 := 4*x[0] + 1*x[1]
	got1 := 1*x[0] + 3*x[1]
	assert.InDelta(t, 1.0, got0, 1e-6)
	assert.InDelta(t, 2.0, got1, 1e-6)
}

func TestSolveSPD_ShapeMismatchNotOK(t *testing.T) {
	// SolveSPD enforces a ridge floor of 1e-12, so even an all-zero gram is
	// solvable (x = rhs/1e-12); ok=false is checked here via an rhs whose
	// length does not match the gram.
	g, _ := linalg.NewDense(2, 2)
	_, ok := linalg.SolveSPD(g, []float64{1, 2, 3}, 0)
	assert.False(t, ok)
}

func TestQuadFormAndNormSq(t *testing.T) {
	g := []float64{1, 2, 3}
	x := []float64{4, 5, 6}
	assert.Equal(t, float64(1*4+2*5+3*6), linalg.QuadForm(g, x))
	assert.Equal(t, float64(16+25+36), linalg.NormSq(x))
}
