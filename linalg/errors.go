// Package linalg provides the small, dense linear-algebra primitives the
// booster needs for its per-leaf and per-split normal-equation solves:
// a flat row-major matrix type and a symmetric-positive(-semi)definite
// solver for (G + ridge·I)β = rhs via LDLᵀ.
//
// Dimensions here are always small (q, the extra-feature count, is
// typically ≤ 16), so no blocking, no BLAS calls, and no attempt at
// asymptotic cleverness — a dense O(q³) decomposition is the right tool.
package linalg

import "errors"

// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
var ErrInvalidDimensions = errors.New("linalg: dimensions must be > 0")

// ErrIndexOutOfBounds indicates that a row or column index is outside valid range.
var ErrIndexOutOfBounds = errors.New("linalg: index out of bounds")
