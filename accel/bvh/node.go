package bvh

import "github.com/achilleasa/prism/types"

// Nodes are comprised of a bounding box and two multipurpose int32 fields
// whose meaning depends on the node type:
//
//   - For interior nodes both fields are > 0 and point to the L/R child nodes
//   - For leaves LData is <= 0 and stores the negated index of the first
//     triangle while RData contains the number of triangles in the leaf
type Node struct {
	Min   types.Vec3
	LData int32

	Max   types.Vec3
	RData int32
}

// Set bounding box.
func (n *Node) SetBound(b types.Bound) {
	n.Min = b.Min
	n.Max = b.Max
}

// Get bounding box.
func (n *Node) Bound() types.Bound {
	return types.Bound{Min: n.Min, Max: n.Max}
}

// Set left and right child node indices.
func (n *Node) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Get left and right child node indices.
func (n *Node) ChildNodes() (left, right uint32) {
	return uint32(n.LData), uint32(n.RData)
}

// Set first triangle index and count.
func (n *Node) SetTriangles(first, count uint32) {
	n.LData = -int32(first)
	n.RData = int32(count)
}

// Get first triangle index and count.
func (n *Node) Triangles() (first, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.LData <= 0
}
