package poisson

import "github.com/tarstars/gbdte/internal/treecore"

// LeafCoeff, TreeNode and Tree reuse gbdt's shared tree shape (§4.7): both
// variants grow structurally identical binary trees and differ only in how
// a leaf is fit and a split is scored.
type LeafCoeff = treecore.LeafCoeff
type TreeNode = treecore.Node
type Tree = treecore.Tree

func newLeaf(beta LeafCoeff) *TreeNode {
	return treecore.NewLeaf(beta)
}

func newInternal(feature int, threshold float64, left, right *TreeNode) *TreeNode {
	return treecore.NewInternal(feature, threshold, left, right)
}

// NewLeafNode builds a terminal node carrying beta. Exported for persist's
// poisson Load path.
func NewLeafNode(beta LeafCoeff) *TreeNode { return newLeaf(beta) }

// NewInternalNode builds a split node. Exported for persist's poisson Load path.
func NewInternalNode(feature int, threshold float64, left, right *TreeNode) *TreeNode {
	return newInternal(feature, threshold, left, right)
}
