package tree

import "github.com/chewxy/math32"

// Node is one decision node. A leaf carries the predicted class in Value;
// an internal node carries the split feature, its threshold and exclusive
// ownership of both children. Nodes form a tree: no sharing, no cycles.
type Node struct {
	Feature   int
	Threshold float32
	Value     int

	Leaf  bool
	Left  *Node
	Right *Node
}

func newNode() *Node {
	return &Node{
		Feature:   -1,
		Threshold: math32.NaN(),
		Value:     -1,
		Leaf:      true,
	}
}

// IsValid reports whether an internal node is well formed: split feature in
// range, finite threshold, both children present.
func (n *Node) IsValid(nFeatures int) bool {
	if n.Feature < 0 || n.Feature >= nFeatures {
		return false
	}
	if math32.IsNaN(n.Threshold) || math32.IsInf(n.Threshold, 0) {
		return false
	}
	if n.Left == nil || n.Right == nil {
		return false
	}
	return true
}
