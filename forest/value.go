package forest

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Value is the arithmetic a payload type must supply for coarsening: the
// new value of a coarsened node is the uniform-weight average of its
// children, accumulated as sum_i w*child_i with w = 1/2^D.
type Value[V any] interface {
	// Add returns the sum of the receiver and other.
	Add(other V) V
	// Scale returns the receiver weighted by s.
	Scale(s float64) V
}

// Float64 is a scalar payload.
type Float64 float64

// Add returns v + other.
func (v Float64) Add(other Float64) Float64 {
	return v + other
}

// Scale returns s * v.
func (v Float64) Scale(s float64) Float64 {
	return Float64(s * float64(v))
}

// FlowSample is a cell-centered flow state, the kind of composite payload a
// simulation stores per leaf. Averaging acts componentwise.
type FlowSample struct {
	Density  float64
	Pressure float64
	Velocity r3.Vector
}

// Add returns the componentwise sum.
func (fs FlowSample) Add(other FlowSample) FlowSample {
	return FlowSample{
		Density:  fs.Density + other.Density,
		Pressure: fs.Pressure + other.Pressure,
		Velocity: fs.Velocity.Add(other.Velocity),
	}
}

// Scale returns the componentwise weighting by s.
func (fs FlowSample) Scale(s float64) FlowSample {
	return FlowSample{
		Density:  s * fs.Density,
		Pressure: s * fs.Pressure,
		Velocity: fs.Velocity.Mul(s),
	}
}

func (fs FlowSample) String() string {
	return fmt.Sprintf("FlowSample(rho=%.4g, p=%.4g, u=(%.4g, %.4g, %.4g))",
		fs.Density, fs.Pressure, fs.Velocity.X, fs.Velocity.Y, fs.Velocity.Z)
}
