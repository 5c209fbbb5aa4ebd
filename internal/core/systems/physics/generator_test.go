package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePolygonPointsRegularity(t *testing.T) {
	center := V(400, 300)
	const radius = 100.0

	for n := 3; n <= 12; n++ {
		points := GeneratePolygonPoints(n, radius, center)
		require.Len(t, points, n)

		step := 2 * math.Pi / float64(n)
		for i, p := range points {
			assert.InDelta(t, radius, Distance(center, p), 1e-2, "n=%d i=%d", n, i)

			next := points[(i+1)%n]
			a0 := math.Atan2(p.Y-center.Y, p.X-center.X)
			a1 := math.Atan2(next.Y-center.Y, next.X-center.X)
			delta := math.Mod(a1-a0+4*math.Pi, 2*math.Pi)
			assert.InDelta(t, step, delta, 1e-3, "n=%d i=%d", n, i)
		}
	}
}

func TestGeneratePolygonPointsFirstVertex(t *testing.T) {
	odd := GeneratePolygonPoints(3, 10, V(0, 0))
	assert.Equal(t, V(0, -10), odd[0])

	even := GeneratePolygonPoints(4, 10, V(0, 0))
	assert.Equal(t, V(7.07, -7.07), even[0])
	for _, p := range even {
		assert.NotZero(t, p.X)
		assert.NotZero(t, p.Y)
	}
}

func TestGeneratePolygonPointsRoundsToTwoDecimals(t *testing.T) {
	for _, p := range GeneratePolygonPoints(7, 1, Vec{}) {
		assert.InDelta(t, p.X, math.Round(p.X*100)/100, 1e-12)
		assert.InDelta(t, p.Y, math.Round(p.Y*100)/100, 1e-12)
	}
}

func TestGeneratePolygonPointsDeterministic(t *testing.T) {
	assert.Equal(t, GeneratePolygonPoints(5, 3, V(1, 2)), GeneratePolygonPoints(5, 3, V(1, 2)))
	assert.Empty(t, GeneratePolygonPoints(0, 3, V(1, 2)))
}
