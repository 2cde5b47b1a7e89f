package grid

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Transform maps between the integer lattice and world space. A lattice
// point c maps to origin + cellSize*c; the components beyond the lattice
// dimension are left at the origin. The inverse floor-divides, so any world
// point inside a cell maps back to that cell's low corner.
type Transform struct {
	origin   r3.Vector
	cellSize float64
}

// NewTransform returns a transform with the given world origin and cell
// size. The cell size must be positive.
func NewTransform(origin r3.Vector, cellSize float64) (Transform, error) {
	if cellSize <= 0 {
		return Transform{}, errors.Errorf("invalid cell size (%.2f) for transform", cellSize)
	}
	return Transform{origin: origin, cellSize: cellSize}, nil
}

// CellSize returns the world-space side length of a unit lattice cell.
func (t Transform) CellSize() float64 {
	return t.cellSize
}

// WorldAt returns the world position of a lattice point.
func (t Transform) WorldAt(c Coord) r3.Vector {
	out := t.origin
	out.X += float64(c.c[0]) * t.cellSize
	if c.dim > 1 {
		out.Y += float64(c.c[1]) * t.cellSize
	}
	if c.dim > 2 {
		out.Z += float64(c.c[2]) * t.cellSize
	}
	return out
}

// CellCenter returns the world position of the centre of a box. The high
// corner is inclusive, so a box covering lattice cells [low, high] spans
// [low, high+1) in world space.
func (t Transform) CellCenter(b Box) r3.Vector {
	low := t.WorldAt(b.Low)
	high := t.WorldAt(b.High.OffsetBy(1))
	return low.Add(high).Mul(0.5)
}

// CoordAt returns the lattice cell containing the world point, at the given
// dimension.
func (t Transform) CoordAt(p r3.Vector, dim int) Coord {
	c := Zero(dim)
	c.c[0] = int64(math.Floor((p.X - t.origin.X) / t.cellSize))
	if dim > 1 {
		c.c[1] = int64(math.Floor((p.Y - t.origin.Y) / t.cellSize))
	}
	if dim > 2 {
		c.c[2] = int64(math.Floor((p.Z - t.origin.Z) / t.cellSize))
	}
	return c
}
