package scene

import (
	"github.com/zeusync/polycollide/internal/core/systems/physics"
	"github.com/zeusync/polycollide/pkg/sequence"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShapeView is the renderer's view of one polygon.
type ShapeView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Center      Point   `json:"center"`
	Vertices    []Point `json:"vertices"`
	Edges       []Edge  `json:"edges"`
	Rotation    float64 `json:"rotation"`
	StrokeWidth float64 `json:"stroke_width"`
	Colliding   bool    `json:"colliding"`
	Selected    bool    `json:"selected"`
}

// Edge is one outline segment, ready to stroke.
type Edge struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

type PairView struct {
	Key uint64 `json:"key"`
	A   string `json:"a"`
	B   string `json:"b"`
}

// Frame is an immutable snapshot of the scene after one step.
type Frame struct {
	Seq         int64       `json:"seq"`
	Shapes      []ShapeView `json:"shapes"`
	Pairs       []PairView  `json:"pairs"`
	Report      []string    `json:"report"`
	Fingerprint uint64      `json:"fingerprint"`
	Selected    string      `json:"selected,omitempty"`
}

func toPoint(v physics.Vec) Point { return Point{X: v.X, Y: v.Y} }

func toEdge(s physics.Segment) Edge { return Edge{From: toPoint(s.A), To: toPoint(s.B)} }

func buildFrame(seq int64, polys []*physics.Polygon, pairs []physics.Pair, selected Selection) Frame {
	colliding := make(map[string]bool, len(polys))
	pairViews := make([]PairView, 0, len(pairs))
	report := make([]string, 0, len(pairs))
	for _, p := range pairs {
		colliding[p.A.ID()] = true
		colliding[p.B.ID()] = true
		pairViews = append(pairViews, PairView{Key: p.Key(), A: p.A.ID(), B: p.B.ID()})
		report = append(report, p.Report())
	}

	shapes := make([]ShapeView, 0, len(polys))
	for _, p := range polys {
		vertices := sequence.ToArray(sequence.From(p.WorldVertices()), toPoint)
		shapes = append(shapes, ShapeView{
			ID:          p.ID(),
			Name:        p.Name(),
			Center:      toPoint(p.Center()),
			Vertices:    vertices,
			Edges:       sequence.ToArray(sequence.From(p.Edges()), toEdge),
			Rotation:    p.Rotation(),
			StrokeWidth: p.StrokeWidth(),
			Colliding:   colliding[p.ID()],
			Selected:    string(selected) == p.ID(),
		})
	}

	return Frame{
		Seq:         seq,
		Shapes:      shapes,
		Pairs:       pairViews,
		Report:      report,
		Fingerprint: physics.Fingerprint(pairs),
		Selected:    string(selected),
	}
}
