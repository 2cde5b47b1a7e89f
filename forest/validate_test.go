package forest

import (
	"testing"

	"go.viam.com/test"
)

// validateNode walks a subtree checking the structural invariants: child
// coords and bboxes nest inside the parent, levels decrease by one, and the
// children partition the parent's bbox exactly.
func validateNode[V Value[V]](t *testing.T, node *Node[V]) {
	t.Helper()

	dim := node.Coord().Dim()
	test.That(t, node.Width(), test.ShouldEqual, int64(1)<<node.Level())
	test.That(t, node.BBox().Low.Equal(node.Coord()), test.ShouldBeTrue)
	test.That(t, node.BBox().High.Equal(node.Coord().OffsetBy(node.Width()-1)), test.ShouldBeTrue)

	if parent := node.Parent(); parent != nil {
		test.That(t, parent.BBox().Contains(node.Coord()), test.ShouldBeTrue)
		test.That(t, parent.BBox().Contains(node.BBox().Low), test.ShouldBeTrue)
		test.That(t, parent.BBox().Contains(node.BBox().High), test.ShouldBeTrue)
		test.That(t, node.Level(), test.ShouldEqual, parent.Level()-1)
	}

	children := node.Children()
	if children == nil {
		_, err := node.Value()
		test.That(t, err, test.ShouldBeNil)
		return
	}
	test.That(t, node.Level(), test.ShouldBeGreaterThan, 0)
	test.That(t, children, test.ShouldHaveLength, 1<<dim)

	// the union of the child cells covers the parent exactly; since the
	// child count and widths are fixed, equal cell totals plus pairwise
	// disjointness give the partition
	parentCells := int64(1)
	for i := 0; i < dim; i++ {
		parentCells *= node.Width()
	}
	childCells := int64(0)
	for i, child := range children {
		childCells += pow(child.Width(), dim)
		half := node.Width() / 2
		want := node.Coord()
		for j := 0; j < dim; j++ {
			if (i>>j)&1 == 1 {
				v, err := want.Get(j)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, want.Set(j, v+half), test.ShouldBeNil)
			}
		}
		test.That(t, child.Coord().Equal(want), test.ShouldBeTrue)
		for k := i + 1; k < len(children); k++ {
			test.That(t, child.BBox().Contains(children[k].Coord()), test.ShouldBeFalse)
			test.That(t, children[k].BBox().Contains(child.Coord()), test.ShouldBeFalse)
		}
		validateNode(t, child)
	}
	test.That(t, childCells, test.ShouldEqual, parentCells)
}

func pow(base int64, exp int) int64 {
	out := int64(1)
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}

// validateForest checks the root-set invariants and every subtree, then
// that the linearised indices agree with the tree.
func validateForest[V Value[V]](t *testing.T, f *Forest[V]) {
	t.Helper()

	rootLevel := f.NumberOfLevels() - 1
	for i, root := range f.rootOrder {
		test.That(t, root.Level(), test.ShouldEqual, rootLevel)
		test.That(t, root.Parent(), test.ShouldBeNil)
		for k := i + 1; k < len(f.rootOrder); k++ {
			test.That(t, root.BBox().Contains(f.rootOrder[k].Coord()), test.ShouldBeFalse)
		}
		validateNode(t, root)
	}

	if !f.linearised {
		return
	}
	leaves := 0
	for _, levelLeaves := range f.leavesByLevel {
		leaves += len(levelLeaves)
	}
	test.That(t, f.NumberOfLeaves(), test.ShouldEqual, leaves)
	test.That(t, f.leavesMorton, test.ShouldHaveLength, leaves)
}
