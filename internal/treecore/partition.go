// Package treecore holds the small pieces of tree-growing machinery shared
// between gbdt's least-squares variant and poisson's Newton-step variant:
// both grow structurally identical binary trees over bucketised inter
// features and differ only in the leaf-fit and gain formulas (§4.7), so the
// row-partitioning step — the one piece with no formula-specific
// knowledge — lives here once instead of being copied twice.
package treecore

import "github.com/tarstars/gbdte/dataset"

// Partition splits rows into (left, right) by X[i,feature] ≤ threshold,
// preserving each side's relative row order. A stable partition is
// required for deterministic training (§4.4): the same input, including
// thread count, must produce byte-identical trees.
func Partition(rows []int, x *dataset.Matrix, feature int, threshold float64) (left, right []int) {
	left = make([]int, 0, len(rows))
	right = make([]int, 0, len(rows))
	for _, i := range rows {
		if x.At(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}
