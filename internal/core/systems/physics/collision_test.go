package physics

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layout builds the polygons the way the service does at startup: centers on
// a circle, polygon i with 3+i sides.
func layout(t *testing.T, names []string, radius, scale float64, center Vec) []*Polygon {
	t.Helper()
	positions := GeneratePolygonPoints(len(names), radius, center)
	polys := make([]*Polygon, len(names))
	for i, name := range names {
		p, err := NewPolygon(name, positions[i].X, positions[i].Y, GeneratePolygonPoints(3+i, 1, Vec{}), scale, 3)
		require.NoError(t, err)
		polys[i] = p
	}
	return polys
}

func TestFindOverlappingPairsScenario(t *testing.T) {
	polys := layout(t, []string{"Triangle", "Square", "Pentagon"}, 200, 40, V(400, 300))
	assert.Empty(t, FindOverlappingPairs(polys))

	polys[0].MoveBy(Vec{X: polys[1].Center().X - polys[0].Center().X, Y: polys[1].Center().Y - polys[0].Center().Y})

	pairs := FindOverlappingPairs(polys)
	require.Len(t, pairs, 1)
	assert.Same(t, polys[0], pairs[0].A)
	assert.Same(t, polys[1], pairs[0].B)
	assert.Equal(t, "Coalition: Triangle with Square", pairs[0].Report())
	a, b := pairs[0].Names()
	assert.Equal(t, "Triangle", a)
	assert.Equal(t, "Square", b)
	assert.True(t, pairs[0].Involves(polys[1]))
	assert.False(t, pairs[0].Involves(polys[2]))
}

func TestFindOverlappingPairsExaminesEveryPairOnce(t *testing.T) {
	for n := 0; n <= 8; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		polys := layout(t, names, 5, 40, V(0, 0))

		calls := 0
		pairs := FindOverlappingPairsFunc(polys, func(a, b []Vec) bool {
			calls++
			return Overlaps(a, b)
		})
		assert.Equal(t, n*(n-1)/2, calls, "n=%d", n)
		// every polygon sits within 5 units of the center, so all pairs overlap
		assert.Len(t, pairs, n*(n-1)/2, "n=%d", n)

		seen := map[uint64]bool{}
		for _, p := range pairs {
			assert.NotSame(t, p.A, p.B)
			assert.False(t, seen[p.Key()], "duplicate pair")
			seen[p.Key()] = true
		}
	}
}

func TestFindOverlappingPairsReusesWorldVertices(t *testing.T) {
	polys := layout(t, []string{"A", "B", "C", "D"}, 5, 40, V(0, 0))

	firsts := map[*Vec]bool{}
	FindOverlappingPairsFunc(polys, func(a, b []Vec) bool {
		if a[0] == polys[0].WorldVertices()[0] {
			firsts[&a[0]] = true
		}
		return false
	})
	assert.Len(t, firsts, 1, "vertices of the first polygon are computed once per query")
}

func TestFindOverlappingPairsOrder(t *testing.T) {
	polys := layout(t, []string{"a", "b", "c", "d"}, 1, 40, V(0, 0))
	pairs := FindOverlappingPairs(polys)
	require.Len(t, pairs, 6)

	want := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	for k, w := range want {
		assert.Same(t, polys[w[0]], pairs[k].A)
		assert.Same(t, polys[w[1]], pairs[k].B)
	}
}

func TestFindOverlappingPairsParallelMatchesSequential(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for round := 0; round < 20; round++ {
		polys := layout(t, names, 60, 30, V(0, 0))
		for _, p := range polys {
			p.MoveBy(V(rnd.Float64()*80-40, rnd.Float64()*80-40))
			p.RotateBy(rnd.Float64() * 360)
		}

		want := FindOverlappingPairs(polys)
		got, err := FindOverlappingPairsParallel(context.Background(), polys, 3)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, Fingerprint(want), Fingerprint(got))
	}
}

func TestFindOverlappingPairsParallelCancelled(t *testing.T) {
	polys := layout(t, []string{"a", "b", "c"}, 1, 40, V(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FindOverlappingPairsParallel(ctx, polys, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPairKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey("x", "y"), PairKey("y", "x"))
	assert.NotEqual(t, PairKey("x", "y"), PairKey("x", "z"))
}

func TestFingerprintTracksSetChanges(t *testing.T) {
	polys := layout(t, []string{"a", "b", "c"}, 200, 40, V(400, 300))
	empty := Fingerprint(FindOverlappingPairs(polys))
	assert.Equal(t, empty, Fingerprint(nil))

	polys[2].MoveBy(Vec{X: polys[0].Center().X - polys[2].Center().X, Y: polys[0].Center().Y - polys[2].Center().Y})
	first := FindOverlappingPairs(polys)
	require.Len(t, first, 1)
	assert.NotEqual(t, empty, Fingerprint(first))
	assert.Equal(t, Fingerprint(first), Fingerprint(FindOverlappingPairs(polys)))
}
