package physics

// PointInPolygon tests if a point is inside a closed vertex loop using ray
// casting: a horizontal ray towards +X toggles the result on every edge it
// crosses. Horizontal edges never straddle the ray and are skipped.
func PointInPolygon(p Vec, loop []Vec) bool {
	n := len(loop)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := loop[i].X, loop[i].Y
		xj, yj := loop[j].X, loop[j].Y

		if ((yi > p.Y) != (yj > p.Y)) &&
			(p.X < (xj-xi)*(p.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}
