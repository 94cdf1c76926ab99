// Package poisson implements the Poisson-loss booster variant: grouped
// (bjid, freq) targets, a Newton-step leaf solver on the Poisson log-link in
// place of gbdt's least-squares leaf, and a histogram split finder whose
// gain formula substitutes the per-row Hessian diagonal for gbdt's plain
// Gram matrix. Tree shape and row partitioning are shared with gbdt through
// internal/treecore (§4.7).
package poisson

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch indicates bjid/freq/inter/extra/psi row counts disagree.
	ErrShapeMismatch = errors.New("poisson: shape mismatch")

	// ErrBadParameter indicates an invalid training parameter.
	ErrBadParameter = errors.New("poisson: bad parameter")

	// ErrHandleClosed indicates an operation was attempted on a freed Handle.
	ErrHandleClosed = errors.New("poisson: handle closed")
)

func poissonErrorf(op string, err error) error {
	return fmt.Errorf("poisson.%s: %w", op, err)
}
