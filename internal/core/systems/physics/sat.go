package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// OverlapFunc decides whether two world-space vertex loops collide.
type OverlapFunc func(a, b []Vec) bool

// Overlaps checks two convex vertex loops with the separating axis theorem.
// Every edge normal of both loops is tried; the loops are disjoint as soon as
// one axis separates their projections. Projections that only touch
// (maxA == minB) are not separated, so touching shapes overlap.
func Overlaps(a, b []Vec) bool {
	return !hasSeparatingAxis(a, a, b) && !hasSeparatingAxis(b, a, b)
}

// hasSeparatingAxis walks the edges of edges and projects a and b onto each
// edge normal.
func hasSeparatingAxis(edges, a, b []Vec) bool {
	n := len(edges)
	for i := 0; i < n; i++ {
		edge := r2.Sub(edges[i], edges[(i+1)%n])
		axis := Normalize(Vec{X: edge.Y, Y: -edge.X})

		minA, maxA := project(a, axis)
		minB, maxB := project(b, axis)
		if maxA < minB || maxB < minA {
			return true
		}
	}
	return false
}

func project(loop []Vec, axis Vec) (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, v := range loop {
		dot := r2.Dot(v, axis)
		min = math.Min(min, dot)
		max = math.Max(max, dot)
	}
	return min, max
}
