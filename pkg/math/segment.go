package math

// SegmentDistanceSq returns the squared distance from p to the segment a-b.
// The projection parameter is clamped to [0, 1], so points beyond either end
// measure to the nearest endpoint. A zero-length segment degrades to the
// point-to-point distance without dividing.
func SegmentDistanceSq(p, a, b Vec3) float32 {
	x, y, z := a.X, a.Y, a.Z
	dx, dy, dz := b.X-x, b.Y-y, b.Z-z

	if dx != 0 || dy != 0 || dz != 0 {
		t := ((p.X-x)*dx + (p.Y-y)*dy + (p.Z-z)*dz) / (dx*dx + dy*dy + dz*dz)
		if t > 1 {
			x, y, z = b.X, b.Y, b.Z
		} else if t > 0 {
			x += dx * t
			y += dy * t
			z += dz * t
		}
	}

	dx, dy, dz = p.X-x, p.Y-y, p.Z-z
	return dx*dx + dy*dy + dz*dz
}
