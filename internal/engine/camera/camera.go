// Package camera provides the orbit camera used by the stroke viewer.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/strokemesh/pkg/math"
	"github.com/Faultbox/strokemesh/pkg/mesh"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle, radians
	Yaw      float32 // Horizontal angle, radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera(distance float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        distance,
		Pitch:           0.35,
		Yaw:             0.0,
		MinDistance:     1.0,
		MaxDistance:     200.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := math32.Cos(c.Pitch)
	offset := math.Vec3{
		X: cp * math32.Sin(c.Yaw),
		Y: math32.Sin(c.Pitch),
		Z: cp * math32.Cos(c.Yaw),
	}
	return c.Center.Add(offset.Scale(c.Distance))
}

// Rotation returns the camera orientation. The camera looks down its local -Z.
func (c *OrbitCamera) Rotation() math.Quat {
	yaw := math.QuatFromAxisAngle(math.Vec3Y, c.Yaw)
	pitch := math.QuatFromAxisAngle(math.Vec3X, -c.Pitch)
	return yaw.Mul(pitch)
}

// Forward returns the unit viewing direction.
func (c *OrbitCamera) Forward() math.Vec3 {
	return c.Rotation().Rotate(math.Vec3Z.Neg())
}

// Right returns the unit screen-right direction. It is always horizontal.
func (c *OrbitCamera) Right() math.Vec3 {
	return math.Vec3{X: math32.Cos(c.Yaw), Z: -math32.Sin(c.Yaw)}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3Y)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// FitToBounds centers the camera on b and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(b mesh.Bounds) {
	c.Center = b.Center()

	size := b.Size()
	extent := math32.Max(size.X, math32.Max(size.Y, size.Z))
	c.Distance = extent * 1.5
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}
