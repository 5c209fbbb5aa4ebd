package scene

import (
	"github.com/zeusync/polycollide/internal/config"
	"github.com/zeusync/polycollide/internal/core/systems/physics"
)

// Layout builds the startup polygons: the i-th name gets a regular polygon
// with 3+i sides, and the polygons sit on a circle around the window center.
func Layout(shapes config.Shapes, window config.Window) ([]*physics.Polygon, error) {
	cx, cy := window.Center()
	positions := physics.GeneratePolygonPoints(len(shapes.Names), shapes.LayoutRadius, physics.V(cx, cy))

	polys := make([]*physics.Polygon, 0, len(shapes.Names))
	for i, name := range shapes.Names {
		points := physics.GeneratePolygonPoints(3+i, 1, physics.V(0, 0))
		poly, err := physics.NewPolygon(name, positions[i].X, positions[i].Y, points, shapes.Scale, shapes.StrokeWidth)
		if err != nil {
			return nil, err
		}
		polys = append(polys, poly)
	}
	return polys, nil
}
