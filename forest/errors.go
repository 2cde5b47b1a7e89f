package forest

import "github.com/pkg/errors"

// Recoverable error kinds surfaced by the public operations. Match with
// errors.Is; the wrapped message carries the offending coordinate or node.
var (
	// ErrNotLeaf is returned when a value is read from an internal node.
	ErrNotLeaf = errors.New("node is internal and carries no value")

	// ErrNotLinearised is returned when a visitation is attempted after a
	// refinement without an intervening Balance.
	ErrNotLinearised = errors.New("forest has not been linearised since the last refinement")

	// ErrDuplicateRoot is returned when two roots collide on a coordinate
	// during initialisation.
	ErrDuplicateRoot = errors.New("duplicate root coordinate")

	// ErrOutsideGrid is returned for a coordinate no root tile covers.
	ErrOutsideGrid = errors.New("coordinate is outside the forest")
)
