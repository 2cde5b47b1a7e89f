// Package grid implements the integer lattice primitives underneath the
// adaptive grid forest: coordinates, axis-aligned boxes, Morton keys and the
// lattice to world-space transform.
package grid

import (
	"fmt"

	"github.com/pkg/errors"
)

// MaxDim is the largest supported lattice dimension.
const MaxDim = 3

// ErrDimension is returned when a component index or dimension argument is
// out of range for the coordinate it is applied to.
var ErrDimension = errors.New("dimension out of range")

// Coord is a point on the signed integer lattice in 1, 2 or 3 dimensions.
// The dimension is fixed at construction. Coord is a comparable value type
// and can be used as a map key.
type Coord struct {
	dim uint8
	c   [MaxDim]int64
}

// NewCoord1 returns a 1-dimensional coordinate.
func NewCoord1(x int64) Coord {
	return Coord{dim: 1, c: [MaxDim]int64{x, 0, 0}}
}

// NewCoord2 returns a 2-dimensional coordinate.
func NewCoord2(x, y int64) Coord {
	return Coord{dim: 2, c: [MaxDim]int64{x, y, 0}}
}

// NewCoord3 returns a 3-dimensional coordinate.
func NewCoord3(x, y, z int64) Coord {
	return Coord{dim: 3, c: [MaxDim]int64{x, y, z}}
}

// Broadcast returns a coordinate of the given dimension with every component
// set to v. It panics if dim is not in [1, MaxDim]; the dimension of a grid
// is fixed up front and an invalid one is a programming error.
func Broadcast(dim int, v int64) Coord {
	if dim < 1 || dim > MaxDim {
		panic(errors.Wrapf(ErrDimension, "broadcast to dim %d", dim))
	}
	c := Coord{dim: uint8(dim)}
	for i := 0; i < dim; i++ {
		c.c[i] = v
	}
	return c
}

// Zero returns the origin of the given dimension.
func Zero(dim int) Coord {
	return Broadcast(dim, 0)
}

// Dim returns the number of components.
func (c Coord) Dim() int {
	return int(c.dim)
}

// X returns the first component.
func (c Coord) X() int64 {
	return c.c[0]
}

// Y returns the second component. It panics on a 1-dimensional coordinate.
func (c Coord) Y() int64 {
	if c.dim < 2 {
		panic(errors.Wrapf(ErrDimension, "Y of %s", c))
	}
	return c.c[1]
}

// Z returns the third component. It panics on a coordinate of fewer than
// three dimensions.
func (c Coord) Z() int64 {
	if c.dim < 3 {
		panic(errors.Wrapf(ErrDimension, "Z of %s", c))
	}
	return c.c[2]
}

// Get returns the i'th component, starting at 0.
func (c Coord) Get(i int) (int64, error) {
	if i < 0 || i >= c.Dim() {
		return 0, errors.Wrapf(ErrDimension, "component %d of %s", i, c)
	}
	return c.c[i], nil
}

// Set assigns the i'th component.
func (c *Coord) Set(i int, v int64) error {
	if i < 0 || i >= c.Dim() {
		return errors.Wrapf(ErrDimension, "component %d of %s", i, *c)
	}
	c.c[i] = v
	return nil
}

// Equal reports whether both coordinates have the same dimension and
// components.
func (c Coord) Equal(o Coord) bool {
	return c == o
}

// Less orders coordinates lexicographically with the highest-indexed
// component most significant, so for a 3-D coordinate z is compared first,
// then y, then x. Coordinates of different dimensions order by dimension.
// The order is total.
func (c Coord) Less(o Coord) bool {
	if c.dim != o.dim {
		return c.dim < o.dim
	}
	for i := c.Dim() - 1; i >= 0; i-- {
		if c.c[i] != o.c[i] {
			return c.c[i] < o.c[i]
		}
	}
	return false
}

// OffsetBy returns a copy of the coordinate with the scalar added to every
// component.
func (c Coord) OffsetBy(s int64) Coord {
	out := c
	for i := 0; i < c.Dim(); i++ {
		out.c[i] += s
	}
	return out
}

// OffsetPer returns a copy of the coordinate offset per axis. The number of
// offsets must match the dimension.
func (c Coord) OffsetPer(offsets ...int64) (Coord, error) {
	if len(offsets) != c.Dim() {
		return Coord{}, errors.Wrapf(ErrDimension, "%d offsets for %s", len(offsets), c)
	}
	out := c
	for i, s := range offsets {
		out.c[i] += s
	}
	return out, nil
}

func (c Coord) String() string {
	switch c.dim {
	case 1:
		return fmt.Sprintf("Coord(%d)", c.c[0])
	case 2:
		return fmt.Sprintf("Coord(%d, %d)", c.c[0], c.c[1])
	default:
		return fmt.Sprintf("Coord(%d, %d, %d)", c.c[0], c.c[1], c.c[2])
	}
}
