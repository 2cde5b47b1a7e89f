// Package forest implements an in-memory adaptive hierarchical grid: a
// forest of 2^D-ary trees over the integer lattice whose leaves carry
// caller-supplied payload values. The forest supports spatial lookup,
// bulk refine/coarsen and linearised visitation of its leaves.
package forest

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/openamr/gridforest/grid"
)

// Node is a tile of the grid at some refinement level. A node either
// carries a value (leaf) or exactly 2^D children (internal); level 0 nodes
// are always leaves. Nodes are created by Forest.Initialise and by Refine;
// callers receive them through lookup and visitation.
type Node[V Value[V]] struct {
	parent *Node[V]
	coord  grid.Coord
	level  int
	width  int64
	bbox   grid.Box

	// children is nil for a leaf and has exactly 2^D entries otherwise;
	// value is only meaningful while children is nil.
	children []*Node[V]
	value    V
}

func newNode[V Value[V]](parent *Node[V], coord grid.Coord, level int, value V) *Node[V] {
	width := int64(1) << level
	bbox, err := grid.NewBox(coord, coord.OffsetBy(width-1))
	if err != nil {
		panic(errors.Wrapf(err, "node bbox at %s", coord))
	}
	return &Node[V]{
		parent: parent,
		coord:  coord,
		level:  level,
		width:  width,
		bbox:   bbox,
		value:  value,
	}
}

// Coord returns the node's low corner on the lattice.
func (n *Node[V]) Coord() grid.Coord {
	return n.coord
}

// Level returns the refinement level; 0 is the finest.
func (n *Node[V]) Level() int {
	return n.level
}

// Width returns the side length of the node in lattice units, 2^level.
func (n *Node[V]) Width() int64 {
	return n.width
}

// BBox returns the inclusive bounding box [coord, coord+width-1].
func (n *Node[V]) BBox() grid.Box {
	return n.bbox
}

// Parent returns the parent node, or nil for a root.
func (n *Node[V]) Parent() *Node[V] {
	return n.parent
}

// HasChildren reports whether the node is internal.
func (n *Node[V]) HasChildren() bool {
	return n.children != nil
}

// Children returns a snapshot of the child nodes in child-index order, or
// nil for a leaf. Child i is offset from the parent by +width/2 on axis j
// iff bit j of i is set, x being bit 0.
func (n *Node[V]) Children() []*Node[V] {
	if n.children == nil {
		return nil
	}
	out := make([]*Node[V], len(n.children))
	copy(out, n.children)
	return out
}

// Value returns the leaf value. Internal nodes have no value.
func (n *Node[V]) Value() (V, error) {
	if n.children != nil {
		var zero V
		return zero, errors.Wrapf(ErrNotLeaf, "value of %s", n)
	}
	return n.value, nil
}

// SetValue assigns a value to the node, turning an internal node back into
// a leaf and dropping all of its descendants.
func (n *Node[V]) SetValue(value V) {
	n.value = value
	n.children = nil
}

// Refine splits a leaf into 2^D leaf children, each one level finer and
// carrying the parent's value. Refining a level 0 node is a no-op. The node
// must be a leaf; refining an internal node is an invariant violation and
// panics.
func (n *Node[V]) Refine() {
	if n.level == 0 {
		return
	}
	if n.children != nil {
		panic(errors.Errorf("refining internal node %s", n))
	}

	dim := n.coord.Dim()
	half := n.width / 2
	children := make([]*Node[V], 1<<dim)
	for i := range children {
		childCoord := n.coord
		for j := 0; j < dim; j++ {
			// In 2D:    x y        In 3D:    x y z
			//  - i = 0: 0 0         - i = 4: 0 0 1
			//  - i = 1: 1 0         - i = 5: 1 0 1
			//  - i = 2: 0 1         - i = 6: 0 1 1
			//  - i = 3: 1 1         - i = 7: 1 1 1
			if (i>>j)&1 == 1 {
				v, err := childCoord.Get(j)
				if err == nil {
					err = childCoord.Set(j, v+half)
				}
				if err != nil {
					panic(errors.Wrapf(err, "child %d of %s", i, n))
				}
			}
		}
		children[i] = newNode(n, childCoord, n.level-1, n.value)
	}
	n.children = children
	var zero V
	n.value = zero
}

// Coarsen collapses an internal node whose children are all leaves back
// into a leaf carrying the uniform-weight average of the child values. If
// the node is already a leaf, or any child is itself internal, the call is
// a no-op.
func (n *Node[V]) Coarsen() {
	if n.children == nil {
		return
	}
	for _, child := range n.children {
		if child.children != nil {
			return
		}
	}

	weight := 1.0 / float64(len(n.children))
	value := n.children[0].value.Scale(weight)
	for _, child := range n.children[1:] {
		value = value.Add(child.value.Scale(weight))
	}
	n.SetValue(value)
}

func (n *Node[V]) String() string {
	return fmt.Sprintf("TreeNode(%d, %s)", n.level, n.bbox)
}
