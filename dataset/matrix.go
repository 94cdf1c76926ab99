// Package dataset defines the read-only row-major matrix pair a training or
// prediction call operates over: a static "inter" feature matrix used for
// tree routing, an "extra" basis matrix used inside leaf coefficients, and
// (for training) a target vector.
//
// A Matrix is a plain immutable view over caller-owned slices — it never
// copies the underlying rows and never mutates them. This mirrors the
// teacher's own Graph: validated once at construction, then borrowed
// read-only by every algorithm that consumes it.
package dataset

import (
	"errors"
	"fmt"
)

// Sentinel errors for dataset construction.
var (
	// ErrEmptyMatrix indicates zero rows or zero columns were supplied.
	ErrEmptyMatrix = errors.New("dataset: matrix must have at least one row and one column")

	// ErrRowLengthMismatch indicates a row's length disagrees with the declared column count.
	ErrRowLengthMismatch = errors.New("dataset: row length does not match column count")

	// ErrRowCountMismatch indicates inter, extra, and target row counts disagree.
	ErrRowCountMismatch = errors.New("dataset: inter, extra, and target row counts must agree")
)

// datasetErrorf wraps an underlying error with call-site context.
func datasetErrorf(op string, err error) error {
	return fmt.Errorf("dataset.%s: %w", op, err)
}

// Matrix is an immutable, row-major feature matrix. Rows() reports n;
// Cols() reports the feature count (p for inter, q for extra).
type Matrix struct {
	rows [][]float64
	cols int
}

// NewMatrix validates and wraps rows as a Matrix. rows is borrowed, not
// copied: the caller must not mutate it for the lifetime of the Matrix.
//
// Stage 1 (Validate): non-empty, rectangular.
// Stage 2 (Finalize): wrap and return.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, datasetErrorf("NewMatrix", ErrEmptyMatrix)
	}
	cols := len(rows[0])
	for i, row := range rows {
		if len(row) != cols {
			return nil, datasetErrorf("NewMatrix", ErrRowLengthMismatch)
		}
		_ = i
	}
	return &Matrix{rows: rows, cols: cols}, nil
}

// Rows returns the number of rows (samples), n.
func (m *Matrix) Rows() int { return len(m.rows) }

// Cols returns the number of columns (features), p or q.
func (m *Matrix) Cols() int { return m.cols }

// Row returns the i-th row, borrowed — callers must not mutate it.
func (m *Matrix) Row(i int) []float64 { return m.rows[i] }

// At returns element (i, j).
func (m *Matrix) At(i, j int) float64 { return m.rows[i][j] }

// TrainingMatrix bundles the inter-feature matrix X, extra-feature matrix Z,
// and target vector y consumed by a training call. p,q ≥ 1 and n ≥ 1 is
// enforced by NewTrainingMatrix; the "n ≥ max_depth·min_rows" sizing
// requirement is the booster's concern (depends on training parameters),
// not the dataset's.
type TrainingMatrix struct {
	X *Matrix
	Z *Matrix
	Y []float64
}

// NewTrainingMatrix validates that X, Z, and y agree on row count n.
func NewTrainingMatrix(inter, extra [][]float64, target []float64) (*TrainingMatrix, error) {
	x, err := NewMatrix(inter)
	if err != nil {
		return nil, datasetErrorf("NewTrainingMatrix", err)
	}
	z, err := NewMatrix(extra)
	if err != nil {
		return nil, datasetErrorf("NewTrainingMatrix", err)
	}
	if x.Rows() != z.Rows() || x.Rows() != len(target) {
		return nil, datasetErrorf("NewTrainingMatrix", ErrRowCountMismatch)
	}
	return &TrainingMatrix{X: x, Z: z, Y: target}, nil
}

// N returns the sample count.
func (t *TrainingMatrix) N() int { return t.X.Rows() }

// P returns the inter-feature dimension.
func (t *TrainingMatrix) P() int { return t.X.Cols() }

// Q returns the extra-feature dimension.
func (t *TrainingMatrix) Q() int { return t.Z.Cols() }
