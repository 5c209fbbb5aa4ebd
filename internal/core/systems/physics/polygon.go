package physics

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon is a convex shape defined by a center, its unrotated local
// vertices and a cumulative rotation in degrees.
//
// Invariant: rotated[i] == Rotate(local[i], rotation) after every mutation.
type Polygon struct {
	id          string
	name        string
	center      Vec
	local       []Vec
	rotated     []Vec
	rotation    float64
	strokeWidth float64
}

// Segment is one world-space edge, from A to B.
type Segment struct {
	A, B Vec
}

// NewPolygon builds a polygon centered at (x, y). Every point is multiplied
// by scale before being stored as a local vertex.
func NewPolygon(name string, x, y float64, points []Vec, scale, width float64) (*Polygon, error) {
	if len(points) < 3 {
		return nil, &InvalidShapeError{Name: name, Vertices: len(points)}
	}

	local := make([]Vec, len(points))
	for i, p := range points {
		local[i] = r2.Scale(scale, p)
	}

	return &Polygon{
		id:          uuid.NewString(),
		name:        name,
		center:      V(x, y),
		local:       local,
		rotated:     cloneVecs(local),
		strokeWidth: width,
	}, nil
}

func (p *Polygon) ID() string           { return p.id }
func (p *Polygon) Name() string         { return p.name }
func (p *Polygon) String() string       { return p.name }
func (p *Polygon) Center() Vec          { return p.center }
func (p *Polygon) Rotation() float64    { return p.rotation }
func (p *Polygon) StrokeWidth() float64 { return p.strokeWidth }

// LocalVertices returns a copy of the scaled, unrotated vertices.
func (p *Polygon) LocalVertices() []Vec { return cloneVecs(p.local) }

// RotatedVertices returns a copy of the rotated vertices relative to the center.
func (p *Polygon) RotatedVertices() []Vec { return cloneVecs(p.rotated) }

// MoveBy translates the polygon.
func (p *Polygon) MoveBy(delta Vec) {
	p.center = r2.Add(p.center, delta)
}

// RotateBy adds deg to the cumulative rotation and rebuilds the rotated
// vertices from the local ones.
func (p *Polygon) RotateBy(deg float64) {
	p.rotation += deg
	for i, v := range p.local {
		p.rotated[i] = Rotate(v, p.rotation)
	}
}

// ResetRotation drops the cumulative rotation.
func (p *Polygon) ResetRotation() {
	p.rotation = 0
	copy(p.rotated, p.local)
}

// WorldVertices returns the vertices in world space. The result is computed
// on every call and owned by the caller.
func (p *Polygon) WorldVertices() []Vec {
	world := make([]Vec, len(p.rotated))
	for i, v := range p.rotated {
		world[i] = r2.Add(p.center, v)
	}
	return world
}

// Edges returns the closed loop of world-space edges.
func (p *Polygon) Edges() []Segment {
	world := p.WorldVertices()
	edges := make([]Segment, len(world))
	for i := range world {
		edges[i] = Segment{A: world[i], B: world[(i+1)%len(world)]}
	}
	return edges
}

// Contains reports whether point lies inside the polygon in world space.
func (p *Polygon) Contains(point Vec) bool {
	return PointInPolygon(point, p.WorldVertices())
}

func cloneVecs(src []Vec) []Vec {
	dst := make([]Vec, len(src))
	copy(dst, src)
	return dst
}
