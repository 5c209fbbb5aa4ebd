package physics

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// GeneratePolygonPoints lays out sides points evenly on a circle of radius
// around center. The first point sits at the top (-90°); even-sided sets are
// turned by half a step so no vertex lands on a cardinal direction.
// Coordinates are rounded to two decimals.
func GeneratePolygonPoints(sides int, radius float64, center Vec) []Vec {
	if sides <= 0 {
		return nil
	}

	step := 2 * math.Pi / float64(sides)
	offset := -math.Pi / 2
	if sides%2 == 0 {
		offset += step / 2
	}

	points := make([]Vec, sides)
	for i := range points {
		angle := float64(i)*step + offset
		points[i] = Vec{
			X: scalar.Round(center.X+radius*math.Cos(angle), 2),
			Y: scalar.Round(center.Y+radius*math.Sin(angle), 2),
		}
	}
	return points
}
