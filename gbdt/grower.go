package gbdt

import (
	"github.com/tarstars/gbdte/bucket"
	"github.com/tarstars/gbdte/dataset"
	"github.com/tarstars/gbdte/internal/treecore"
	"github.com/tarstars/gbdte/workerpool"
)

// growTree builds one tree over the full row set [0,n) from the current
// residuals r, per the recursive best-split expansion of §4.4:
//
//	grow(S, depth):
//	  if depth == max_depth or |S| < 2·min_rows: return Leaf(solve(S))
//	  split = find_best_split(S)
//	  if split is None or split.gain ≤ 0: return Leaf(solve(S))
//	  (S_L, S_R) = partition(S, split)
//	  return Internal(split, grow(S_L, d+1), grow(S_R, d+1))
//
// Tree growth is sequential at the node level (§5: "node parallelism offers
// minor gains for trees ≤ depth 8"); the parallelism lives inside
// findBestSplit, sharded across features.
func growTree(x, z *dataset.Matrix, r []float64, buckets *bucket.Bucketiser, params Params, pool *workerpool.Pool, trace *Trace) *Tree {
	n := x.Rows()
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	root := growNode(rows, 0, x, z, r, buckets, params, pool, trace)
	return &Tree{Root: root, Depth: params.MaxDepth}
}

func growNode(rows []int, depth int, x, z *dataset.Matrix, r []float64, buckets *bucket.Bucketiser, params Params, pool *workerpool.Pool, trace *Trace) *TreeNode {
	if depth == params.MaxDepth || len(rows) < 2*params.MinRows {
		beta, _, ok := solveLeaf(rows, z, r, params.RegLambda)
		if !ok {
			trace.bumpDegeneracy()
		}
		return newLeaf(beta)
	}

	total := computeTotal(rows, z, r)
	split := findBestSplit(rows, x, z, r, buckets, params.RegLambda, params.UnbalancedLoss, params.MinRows, total, pool)
	if !split.valid || split.gain <= 0 {
		trace.bumpNoViableSplit()
		beta, _, ok := solveLeaf(rows, z, r, params.RegLambda)
		if !ok {
			trace.bumpDegeneracy()
		}
		return newLeaf(beta)
	}

	left, right := treecore.Partition(rows, x, split.feature, split.threshold)
	leftNode := growNode(left, depth+1, x, z, r, buckets, params, pool, trace)
	rightNode := growNode(right, depth+1, x, z, r, buckets, params, pool, trace)
	return newInternal(split.feature, split.threshold, leftNode, rightNode)
}
