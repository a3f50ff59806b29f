// Package picking provides ray casting against the stroke scene.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/strokemesh/pkg/math"
	"github.com/Faultbox/strokemesh/pkg/mesh"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, ndc math.Vec4) math.Vec3 {
	p := inv.MulVec4(ndc)
	if p[3] != 0 {
		return math.Vec3{X: p[0] / p[3], Y: p[1] / p[3], Z: p[2] / p[3]}
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlane intersects the ray with the plane through point with the given normal.
// Returns the distance along the ray and whether the plane is hit in front of the origin.
func (r Ray) IntersectPlane(point, normal math.Vec3) (t float32, ok bool) {
	denom := r.Direction.Dot(normal)
	if math32.Abs(denom) < 1e-6 {
		return 0, false // Ray parallel to plane
	}

	t = point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return 0, false // Intersection behind ray origin
	}
	return t, true
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
func (r Ray) IntersectPlaneY(planeY float32) (math.Vec3, bool) {
	t, ok := r.IntersectPlane(math.Vec3{Y: planeY}, math.Vec3Y)
	if !ok {
		return math.Vec3{}, false
	}
	p := r.At(t)
	p.Y = planeY
	return p, true
}

// IntersectBounds tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectBounds(box mesh.Bounds) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Pad grows b by margin on every side. Flat strokes have zero-thickness
// bounds, which a padded box can still be hit through.
func Pad(b mesh.Bounds, margin float32) mesh.Bounds {
	m := math.Vec3{X: margin, Y: margin, Z: margin}
	return mesh.Bounds{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}
