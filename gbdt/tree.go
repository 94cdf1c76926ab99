package gbdt

import "github.com/tarstars/gbdte/internal/treecore"

// LeafCoeff, TreeNode and Tree are the shared tree shape of treecore,
// aliased here so gbdt's public API names its own types (§4.7: gbdt and
// poisson grow structurally identical trees and differ only in leaf-fit and
// gain formulas, so the node/tree shape itself lives in treecore once).
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
// Load path, which reconstructs a tree from its serialised preorder walk.
func NewLeafNode(beta LeafCoeff) *TreeNode { return newLeaf(beta) }

// NewInternalNode builds a split node. Exported for persist's Load path.
func NewInternalNode(feature int, threshold float64, left, right *TreeNode) *TreeNode {
	return newInternal(feature, threshold, left, right)
}
