package physics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x0, y0, size float64) []Vec {
	return []Vec{V(x0, y0), V(x0+size, y0), V(x0+size, y0+size), V(x0, y0+size)}
}

func TestOverlapsTouchingEdgesCollide(t *testing.T) {
	a := square(0, 0, 10)
	b := square(10, 0, 10)
	assert.True(t, Overlaps(a, b))
	assert.True(t, Overlaps(b, a))
}

func TestOverlapsGapSeparates(t *testing.T) {
	a := square(0, 0, 10)
	b := square(10.5, 0, 10)
	assert.False(t, Overlaps(a, b))
	assert.False(t, Overlaps(b, a))
}

func TestOverlapsContainedShape(t *testing.T) {
	outer := square(0, 0, 100)
	inner := square(40, 40, 5)
	assert.True(t, Overlaps(outer, inner))
	assert.True(t, Overlaps(inner, outer))
}

func TestOverlapsDiagonalSeparation(t *testing.T) {
	// The bounding boxes overlap but the triangles do not: only the
	// hypotenuse normal separates them.
	a := []Vec{V(0, 0), V(10, 0), V(0, 10)}
	b := []Vec{V(10, 10), V(6, 10), V(10, 6)}
	assert.False(t, Overlaps(a, b))
}

func TestOverlapsZeroLengthEdge(t *testing.T) {
	a := []Vec{V(0, 0), V(0, 0), V(10, 0), V(10, 10)}
	b := square(5, 5, 10)
	assert.True(t, Overlaps(a, b))
	c := square(50, 50, 1)
	assert.False(t, Overlaps(a, c))
}

func TestOverlapsSameShapeSamePosition(t *testing.T) {
	for sides := 3; sides <= 8; sides++ {
		loop := GeneratePolygonPoints(sides, 40, V(400, 300))
		copied := append([]Vec(nil), loop...)
		assert.True(t, Overlaps(loop, copied), "%d-gon", sides)
	}
}

func TestOverlapsFarTranslation(t *testing.T) {
	for sides := 3; sides <= 8; sides++ {
		a, err := NewPolygon("a", 0, 0, GeneratePolygonPoints(sides, 1, Vec{}), 40, 1)
		require.NoError(t, err)
		b, err := NewPolygon("b", 0, 0, GeneratePolygonPoints(sides, 1, Vec{}), 40, 1)
		require.NoError(t, err)

		b.MoveBy(V(81, 0))
		assert.False(t, Overlaps(a.WorldVertices(), b.WorldVertices()), "%d-gon", sides)
		b.MoveBy(V(-60, 250))
		assert.False(t, Overlaps(a.WorldVertices(), b.WorldVertices()), "%d-gon", sides)
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a, err := NewPolygon("a", rnd.Float64()*200, rnd.Float64()*200,
			GeneratePolygonPoints(3+rnd.Intn(6), 1, Vec{}), 10+rnd.Float64()*40, 1)
		require.NoError(t, err)
		b, err := NewPolygon("b", rnd.Float64()*200, rnd.Float64()*200,
			GeneratePolygonPoints(3+rnd.Intn(6), 1, Vec{}), 10+rnd.Float64()*40, 1)
		require.NoError(t, err)
		a.RotateBy(rnd.Float64() * 360)
		b.RotateBy(rnd.Float64() * -360)

		va, vb := a.WorldVertices(), b.WorldVertices()
		assert.Equal(t, Overlaps(va, vb), Overlaps(vb, va))
	}
}

func TestOverlapsRotationMatters(t *testing.T) {
	// Two thin bars side by side, 5 apart; a quarter turn of one makes it cross the other.
	bar := []Vec{V(-1, -20), V(1, -20), V(1, 20), V(-1, 20)}
	a, err := NewPolygon("a", 0, 0, bar, 1, 1)
	require.NoError(t, err)
	b, err := NewPolygon("b", 5, 0, bar, 1, 1)
	require.NoError(t, err)

	assert.False(t, Overlaps(a.WorldVertices(), b.WorldVertices()))
	b.RotateBy(90)
	assert.True(t, Overlaps(a.WorldVertices(), b.WorldVertices()))
	b.ResetRotation()
	assert.False(t, Overlaps(a.WorldVertices(), b.WorldVertices()))
}
