package poisson

import (
	"github.com/tarstars/gbdte/bucket"
	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/internal/treecore"
	"github.com/tarstars/gbdte/workerpool"
)

// growTree mirrors gbdt.growTree: the recursive best-split expansion is
// identical in shape (§4.7), differing only in which per-row statistics
// (grad, hess, freq instead of a residual) drive the leaf fit and split
// score.
func growTree(x, z *dataset.Matrix, grad, hess, freq []float64, buckets *bucket.Bucketiser, params Params, pool *workerpool.Pool) *Tree {
	n := x.Rows()
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	root := growNode(rows, 0, x, z, grad, hess, freq, buckets, params, pool)
	return &Tree{Root: root, Depth: params.MaxDepth}
}

func growNode(rows []int, depth int, x, z *dataset.Matrix, grad, hess, freq []float64, buckets *bucket.Bucketiser, params Params, pool *workerpool.Pool) *TreeNode {
	if depth == params.MaxDepth || len(rows) < 2*params.MinRows {
		beta, _ := solveLeaf(rows, z, grad, hess, params.RegLambda)
		return newLeaf(beta)
	}

	total := computeTotal(rows, z, grad, hess, freq)
	split := findBestSplit(rows, x, z, grad, hess, freq, buckets, params.RegLambda, params.CheckZero, params.MinRows, total, pool)
	if !split.valid || split.gain <= 0 {
		beta, _ := solveLeaf(rows, z, grad, hess, params.RegLambda)
		return newLeaf(beta)
	}

	left, right := treecore.Partition(rows, x, split.feature, split.threshold)
	leftNode := growNode(left, depth+1, x, z, grad, hess, freq, buckets, params, pool)
	rightNode := growNode(right, depth+1, x, z, grad, hess, freq, buckets, params, pool)
	return newInternal(split.feature, split.threshold, leftNode, rightNode)
}
