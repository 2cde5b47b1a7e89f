package forest

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of a scalar field over the leaves of a
// forest.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func (s Summary) String() string {
	return fmt.Sprintf("Summary(n=%d, mean=%.6g, sd=%.6g, min=%.6g, max=%.6g)",
		s.Count, s.Mean, s.StdDev, s.Min, s.Max)
}

// Summarize extracts a scalar from every leaf value and returns its
// distribution. The forest must be linearised. Useful for logging field
// health between refine/coarsen cycles.
func Summarize[V Value[V]](f *Forest[V], extract func(V) float64) (Summary, error) {
	values := make([]float64, 0, f.NumberOfLeaves())
	err := f.VisitLeaves(Morton, func(node *Node[V]) error {
		value, err := node.Value()
		if err != nil {
			return err
		}
		values = append(values, extract(value))
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	if len(values) == 0 {
		return Summary{}, nil
	}
	return Summary{
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		StdDev: stat.StdDev(values, nil),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}, nil
}
