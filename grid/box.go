package grid

import (
	"fmt"

	"github.com/pkg/errors"
)

// Box is an axis-aligned box on the lattice. Both corners are inclusive.
type Box struct {
	Low  Coord
	High Coord
}

// NewBox returns the box spanning the two corners. The corners must share a
// dimension and satisfy Low[i] <= High[i] on every axis.
func NewBox(low, high Coord) (Box, error) {
	if low.Dim() != high.Dim() {
		return Box{}, errors.Wrapf(ErrDimension, "box corners %s, %s", low, high)
	}
	for i := 0; i < low.Dim(); i++ {
		if low.c[i] > high.c[i] {
			return Box{}, errors.Errorf("inverted box corners %s, %s on axis %d", low, high, i)
		}
	}
	return Box{Low: low, High: high}, nil
}

// Dim returns the dimension of the box corners.
func (b Box) Dim() int {
	return b.Low.Dim()
}

// Contains reports whether p lies inside the box. Containment is tested
// componentwise, Low[i] <= p[i] <= High[i] on every axis. A point of a
// different dimension is never contained.
func (b Box) Contains(p Coord) bool {
	if p.Dim() != b.Dim() {
		return false
	}
	for i := 0; i < b.Dim(); i++ {
		if p.c[i] < b.Low.c[i] || p.c[i] > b.High.c[i] {
			return false
		}
	}
	return true
}

func (b Box) String() string {
	return fmt.Sprintf("Box(%s, %s)", b.Low, b.High)
}
