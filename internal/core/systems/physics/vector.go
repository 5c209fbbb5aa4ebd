package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is the 2D vector used by every shape in this package.
type Vec = r2.Vec

// V is shorthand for a Vec literal.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// Rotate turns v about the origin by deg degrees.
func Rotate(v Vec, deg float64) Vec {
	if deg == 0 {
		return v
	}
	return r2.Rotate(v, deg*math.Pi/180, Vec{})
}

// Normalize returns the unit vector of v. A zero vector is returned as is.
func Normalize(v Vec) Vec {
	if r2.Norm2(v) == 0 {
		return v
	}
	return r2.Unit(v)
}

// Distance computes the Euclidean distance between two points.
func Distance(a, b Vec) float64 { return r2.Norm(r2.Sub(b, a)) }
