package forest

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/openamr/gridforest/grid"
	"github.com/openamr/gridforest/logging"
)

// Direction selects the order a visitation delivers leaves in.
type Direction int

// Visitation orders. BottomUp iterates levels ascending (finest first),
// TopDown descending; within a level the order is BFS insertion order from
// the roots. Morton iterates all leaves by ascending Z-order key.
const (
	BottomUp = Direction(iota)
	TopDown
	Morton
)

// maxNumberOfLevels bounds the root width to 2^20; together with the
// resolution check in Initialise it keeps every lattice coordinate inside
// the Morton key range of 21 bits per axis.
const maxNumberOfLevels = 21

// Forest is a set of complete 2^D-ary trees over disjoint tiles of the
// integer lattice. Leaves carry payload values; iteration runs off derived
// linear indices that must be rebuilt with Balance after refinement.
//
// A Forest is not safe for concurrent use. All operations are synchronous
// and complete before returning.
type Forest[V Value[V]] struct {
	logger logging.Logger

	dim            int
	numberOfLevels int

	roots     map[grid.Coord]*Node[V]
	rootOrder []*Node[V]

	// Derived indices, rebuilt by linearise. leavesByLevel and
	// parentsByLevel are indexed by level.
	leavesByLevel  [][]*Node[V]
	parentsByLevel [][]*Node[V]
	leavesMorton   []*Node[V]
	leafCount      int
	linearised     bool
}

// New returns an empty forest over a lattice of the given dimension,
// which must be 1, 2 or 3.
func New[V Value[V]](dim int, logger logging.Logger) (*Forest[V], error) {
	if dim < 1 || dim > grid.MaxDim {
		return nil, errors.Wrapf(grid.ErrDimension, "forest of dim %d", dim)
	}
	return &Forest[V]{
		logger: logger,
		dim:    dim,
		roots:  map[grid.Coord]*Node[V]{},
	}, nil
}

// Dim returns the lattice dimension.
func (f *Forest[V]) Dim() int {
	return f.dim
}

// NumberOfLevels returns the level count set at initialisation; roots sit
// at level NumberOfLevels-1.
func (f *Forest[V]) NumberOfLevels() int {
	return f.numberOfLevels
}

// NumberOfLeaves returns the leaf count recorded by the last linearisation.
func (f *Forest[V]) NumberOfLeaves() int {
	return f.leafCount
}

// Initialise clears the forest and creates a coarse grid of root tiles:
// one root per cell of the coarseResolution grid, at lattice position
// resolution-index * rootWidth per axis, every leaf carrying background.
// The forest is linearised before returning.
func (f *Forest[V]) Initialise(coarseResolution grid.Coord, numberOfLevels int, background V) error {
	if coarseResolution.Dim() != f.dim {
		return errors.Wrapf(grid.ErrDimension, "resolution %s for forest of dim %d", coarseResolution, f.dim)
	}
	if numberOfLevels < 1 || numberOfLevels > maxNumberOfLevels {
		return errors.Errorf("invalid number of levels %d, must be in [1, %d]", numberOfLevels, maxNumberOfLevels)
	}
	loopI, loopJ, loopK := int64(1), int64(1), int64(1)
	for axis := 0; axis < f.dim; axis++ {
		res, err := coarseResolution.Get(axis)
		if err != nil {
			return err
		}
		if res < 1 {
			return errors.Errorf("invalid coarse resolution %s on axis %d", coarseResolution, axis)
		}
		if res > (int64(1)<<(maxNumberOfLevels-1))>>(numberOfLevels-1) {
			return errors.Errorf("coarse resolution %s with %d levels exceeds the Morton key range on axis %d",
				coarseResolution, numberOfLevels, axis)
		}
		switch axis {
		case 0:
			loopI = res
		case 1:
			loopJ = res
		case 2:
			loopK = res
		}
	}

	f.roots = map[grid.Coord]*Node[V]{}
	f.rootOrder = nil
	f.numberOfLevels = numberOfLevels
	rootLevel := numberOfLevels - 1
	rootWidth := int64(1) << rootLevel

	coord := grid.Zero(f.dim)
	for k := int64(0); k < loopK; k++ {
		if f.dim > 2 {
			if err := coord.Set(2, k*rootWidth); err != nil {
				return err
			}
		}
		for j := int64(0); j < loopJ; j++ {
			if f.dim > 1 {
				if err := coord.Set(1, j*rootWidth); err != nil {
					return err
				}
			}
			for i := int64(0); i < loopI; i++ {
				if err := coord.Set(0, i*rootWidth); err != nil {
					return err
				}
				if _, ok := f.roots[coord]; ok {
					return errors.Wrapf(ErrDuplicateRoot, "inserting root at %s", coord)
				}
				root := newNode[V](nil, coord, rootLevel, background)
				f.roots[coord] = root
				f.rootOrder = append(f.rootOrder, root)
			}
		}
	}
	sort.Slice(f.rootOrder, func(a, b int) bool {
		return f.rootOrder[a].coord.Less(f.rootOrder[b].coord)
	})

	f.linearise()
	f.logger.Debugf("initialised %d root tiles of width %d (%d levels)", len(f.rootOrder), rootWidth, numberOfLevels)
	return nil
}

// NodeAtCoord returns the deepest node whose bounding box contains the
// coordinate, or false when no root tile covers it.
func (f *Forest[V]) NodeAtCoord(coord grid.Coord) (*Node[V], bool) {
	var node *Node[V]
	for _, root := range f.rootOrder {
		if root.bbox.Contains(coord) {
			node = root
			break
		}
	}
	if node == nil {
		return nil, false
	}

descend:
	for node.children != nil {
		for _, child := range node.children {
			if child.bbox.Contains(coord) {
				node = child
				continue descend
			}
		}
		panic(errors.Errorf("no child of %s contains %s", node, coord))
	}
	return node, true
}

// RefineToLowestLevelAtCoord refines the leaf containing the coordinate
// down to level 0, applying refineOp at every level on the way. refineOp is
// expected to call Refine on the node it is handed.
//
// The derived indices are invalidated; Balance must run before the next
// visitation.
func (f *Forest[V]) RefineToLowestLevelAtCoord(coord grid.Coord, refineOp func(*Node[V])) error {
	node, ok := f.NodeAtCoord(coord)
	if !ok {
		return errors.Wrapf(ErrOutsideGrid, "refining at %s", coord)
	}

descend:
	for node.level != 0 {
		refineOp(node)
		if node.children == nil {
			return errors.Errorf("refine op left %s unrefined", node)
		}
		for _, child := range node.children {
			if child.bbox.Contains(coord) {
				node = child
				continue descend
			}
		}
		panic(errors.Errorf("no child of %s contains %s", node, coord))
	}

	f.invalidate()
	return nil
}

// Refine applies refineOp to every leaf, finest level first. The leaf list
// is the one materialised by the last linearisation, so each pre-existing
// leaf is refined exactly once and freshly created children are not
// revisited. The forest is relinearised before returning.
func (f *Forest[V]) Refine(refineOp func(*Node[V])) error {
	err := f.VisitLeaves(BottomUp, func(node *Node[V]) error {
		refineOp(node)
		return nil
	})
	if err != nil {
		return err
	}
	f.Balance()
	return nil
}

// Coarsen collapses every last-parent whose children are all leaves,
// finest level first. Parents recorded by the last linearisation whose
// children have since been refined are skipped. The forest is relinearised
// before returning.
func (f *Forest[V]) Coarsen() error {
	if !f.linearised {
		return errors.Wrap(ErrNotLinearised, "coarsen")
	}
	coarsened := 0
	for _, parents := range f.parentsByLevel {
		for _, node := range parents {
			node.Coarsen()
			if node.children == nil {
				coarsened++
			}
		}
	}
	f.logger.Debugf("coarsened %d nodes", coarsened)
	f.Balance()
	return nil
}

// VisitLeaves applies op to every leaf in the given direction. A non-nil
// error from op aborts the visitation and is returned unchanged. The
// forest must have been linearised since the last refinement.
func (f *Forest[V]) VisitLeaves(direction Direction, op func(*Node[V]) error) error {
	if !f.linearised {
		return errors.Wrap(ErrNotLinearised, "visiting leaves")
	}
	switch direction {
	case BottomUp:
		for level := 0; level < len(f.leavesByLevel); level++ {
			for _, node := range f.leavesByLevel[level] {
				if err := op(node); err != nil {
					return err
				}
			}
		}
	case TopDown:
		for level := len(f.leavesByLevel) - 1; level >= 0; level-- {
			for _, node := range f.leavesByLevel[level] {
				if err := op(node); err != nil {
					return err
				}
			}
		}
	case Morton:
		for _, node := range f.leavesMorton {
			if err := op(node); err != nil {
				return err
			}
		}
	default:
		return errors.Errorf("unknown traversal direction %d", direction)
	}
	return nil
}

// Balance rebuilds the derived indices. The name is kept for the call-site
// contract of enforcing 2:1 neighbour balance; no structural balancing is
// performed, the tree is only relinearised.
func (f *Forest[V]) Balance() {
	f.linearise()
}

// Linearise rebuilds the per-level leaf and last-parent indices and the
// Morton-ordered leaf list.
func (f *Forest[V]) Linearise() {
	f.linearise()
}

func (f *Forest[V]) invalidate() {
	f.leavesByLevel = nil
	f.parentsByLevel = nil
	f.leavesMorton = nil
	f.leafCount = 0
	f.linearised = false
}

// linearise walks the forest breadth-first with an explicit queue, never
// recursively, so stack use stays bounded for deep trees. A parent lands in
// parentsByLevel when it has at least one leaf child; Coarsen tolerates the
// ones whose remaining children are internal.
func (f *Forest[V]) linearise() {
	f.leavesByLevel = make([][]*Node[V], f.numberOfLevels)
	f.parentsByLevel = make([][]*Node[V], f.numberOfLevels)
	f.leavesMorton = nil
	f.leafCount = 0

	queue := make([]*Node[V], 0, len(f.rootOrder))
	queue = append(queue, f.rootOrder...)
	for head := 0; head < len(queue); head++ {
		node := queue[head]

		if node.children != nil {
			inserted := false
			for _, child := range node.children {
				queue = append(queue, child)
				if !inserted && child.children == nil {
					f.parentsByLevel[node.level] = append(f.parentsByLevel[node.level], node)
					inserted = true
				}
			}
		} else {
			f.leafCount++
			f.leavesByLevel[node.level] = append(f.leavesByLevel[node.level], node)
			f.leavesMorton = append(f.leavesMorton, node)
		}
	}

	sort.Slice(f.leavesMorton, func(a, b int) bool {
		return grid.MortonKey(f.leavesMorton[a].coord) < grid.MortonKey(f.leavesMorton[b].coord)
	})
	f.linearised = true
	f.logger.Debugf("linearised %d leaves across %d levels", f.leafCount, f.numberOfLevels)
}
