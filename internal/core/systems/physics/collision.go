package physics

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/polycollide/pkg/concurrent"
)

// Pair is an unordered pair of overlapping polygons. A precedes B in the
// collection the pair was found in.
type Pair struct {
	A, B *Polygon
}

// Key identifies the pair independently of order.
func (p Pair) Key() uint64 {
	return PairKey(p.A.ID(), p.B.ID())
}

// Names returns the display names of both polygons.
func (p Pair) Names() (string, string) {
	return p.A.Name(), p.B.Name()
}

// Involves reports whether poly is one of the pair's members.
func (p Pair) Involves(poly *Polygon) bool {
	return p.A == poly || p.B == poly
}

// Report formats the pair for humans.
func (p Pair) Report() string {
	return fmt.Sprintf("Coalition: %s with %s", p.A.Name(), p.B.Name())
}

// PairKey hashes two polygon ids in sorted order.
func PairKey(idA, idB string) uint64 {
	if idB < idA {
		idA, idB = idB, idA
	}
	d := xxhash.New()
	_, _ = d.WriteString(idA)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(idB)
	return d.Sum64()
}

// Fingerprint digests the keys of pairs in order. Two scans over the same
// collection with the same result produce the same fingerprint.
func Fingerprint(pairs []Pair) uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 8)
	for _, p := range pairs {
		buf = binary.LittleEndian.AppendUint64(buf[:0], p.Key())
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}

// FindOverlappingPairs tests every pair (i, j), i < j, of polys with the
// separating axis test and returns the colliding ones ordered by (i, j).
func FindOverlappingPairs(polys []*Polygon) []Pair {
	return FindOverlappingPairsFunc(polys, Overlaps)
}

// FindOverlappingPairsFunc is FindOverlappingPairs with a custom pair test.
func FindOverlappingPairsFunc(polys []*Polygon, test OverlapFunc) []Pair {
	world := worldSnapshot(polys)

	var pairs []Pair
	for i := 0; i < len(polys)-1; i++ {
		for j := i + 1; j < len(polys); j++ {
			if test(world[i], world[j]) {
				pairs = append(pairs, Pair{A: polys[i], B: polys[j]})
			}
		}
	}
	return pairs
}

// worldSnapshot computes the world vertices of every polygon once.
func worldSnapshot(polys []*Polygon) [][]Vec {
	world := make([][]Vec, len(polys))
	for i, p := range polys {
		world[i] = p.WorldVertices()
	}
	return world
}

type candidate struct {
	i, j int
}

// FindOverlappingPairsParallel snapshots the world vertices of every polygon
// and spreads the pair tests over at most workers goroutines. The result is
// ordered exactly like FindOverlappingPairs. Polygons must not be mutated
// while the call is in flight.
func FindOverlappingPairsParallel(ctx context.Context, polys []*Polygon, workers int) ([]Pair, error) {
	n := len(polys)
	snapshot := worldSnapshot(polys)

	candidates := make([]candidate, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			candidates = append(candidates, candidate{i: i, j: j})
		}
	}

	hits, err := concurrent.ParallelFilter(ctx, candidates, workers, func(c candidate) bool {
		return Overlaps(snapshot[c.i], snapshot[c.j])
	})
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	for _, c := range hits {
		pairs = append(pairs, Pair{A: polys[c.i], B: polys[c.j]})
	}
	return pairs, nil
}
