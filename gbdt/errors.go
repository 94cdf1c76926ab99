// Package gbdt implements the core training engine: gradient bookkeeping,
// the leaf normal-equations solver, the histogram split finder, the tree
// grower, and the stage-loop booster driver that ties them together into
// an Ensemble of vector-leaf trees.
package gbdt

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced across gbdt's public API. NumericalDegeneracy and
// NoViableSplit (§7) are deliberately absent here — they never surface;
// they alter control flow inside the grower (leaf β=0, node becomes leaf).
var (
	// ErrShapeMismatch indicates inter/extra/target row counts disagree, or
	// q disagrees between train and predict.
	ErrShapeMismatch = errors.New("gbdt: shape mismatch")

	// ErrBadParameter indicates an invalid training parameter (§7: n_stages
	// ≤ 0, learning_rate ∉ (0,1], unknown loss, max_depth < 1).
	ErrBadParameter = errors.New("gbdt: bad parameter")

	// ErrHandleClosed indicates an operation was attempted on a freed Ensemble.
	ErrHandleClosed = errors.New("gbdt: handle closed")
)

// gbdtErrorf wraps an underlying error with call-site context, matching the
// teacher's denseErrorf/matrixErrorf convention.
func gbdtErrorf(op string, err error) error {
	return fmt.Errorf("gbdt.%s: %w", op, err)
}
