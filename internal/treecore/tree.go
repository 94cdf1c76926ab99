package treecore

// LeafCoeff is the coefficient vector β ∈ ℝ^q living in a terminal node.
// A tree's contribution to row i's linear predictor is z_iᵀβ.
type LeafCoeff []float64

// Node is either an Internal split node or a terminal Leaf. Exactly one of
// the two roles is populated: IsLeaf reports which. Shared between gbdt and
// poisson (§4.7) since both grow the same binary tree shape over bucketised
// inter features and differ only in how a leaf's β is fit and how a split's
// gain is scored — never in the tree shape itself.
type Node struct {
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node

	Beta LeafCoeff

	leaf bool
}

// IsLeaf reports whether this node is terminal.
func (n *Node) IsLeaf() bool { return n.leaf }

// NewLeaf builds a terminal node carrying beta.
func NewLeaf(beta LeafCoeff) *Node {
	return &Node{Beta: beta, leaf: true}
}

// NewInternal builds a split node routing on X[:,feature] ≤ threshold.
func NewInternal(feature int, threshold float64, left, right *Node) *Node {
	return &Node{Feature: feature, Threshold: threshold, Left: left, Right: right}
}

// Leaf walks the tree for one row's inter-feature values and returns the
// reached leaf node.
func (n *Node) Leaf(x []float64) *Node {
	cur := n
	for !cur.leaf {
		if x[cur.Feature] <= cur.Threshold {
			cur = cur.Left
		} else {
			cur = cur.Right
		}
	}
	return cur
}

// Tree is one boosting stage's contribution: a root node and its bound depth.
type Tree struct {
	Root  *Node
	Depth int
}

// Contribution returns z_iᵀβ for the leaf reached by inter-feature row x,
// given extra-feature row z. Callers combine this with a loss-specific link
// (identity for gbdt's mse/logloss, exp for poisson's log-link).
func (t *Tree) Contribution(x, z []float64) float64 {
	leaf := t.Root.Leaf(x)
	return dot(z, leaf.Beta)
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
