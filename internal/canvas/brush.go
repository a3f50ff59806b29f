package canvas

import "github.com/Faultbox/strokemesh/pkg/math"

// Pose is a brush position and orientation. The brush looks down its local -Z
// with +X to its right.
type Pose struct {
	Position math.Vec3
	Rotation math.Quat
}

// Right returns the brush's lateral direction.
func (p Pose) Right() math.Vec3 {
	return p.Rotation.Rotate(math.Vec3X)
}

// Forward returns the brush's viewing direction.
func (p Pose) Forward() math.Vec3 {
	return p.Rotation.Rotate(math.Vec3Z.Neg())
}

// Brush smooths a jittery target pose by moving a fraction of the way towards
// it every update: Rate per second, scaled by the frame time.
type Brush struct {
	Rate float32

	pose   Pose
	placed bool
}

// Follow advances the brush towards target over dt seconds and returns the
// new pose. The first call after Reset, or any call with Rate <= 0, snaps.
func (b *Brush) Follow(target Pose, dt float32) Pose {
	t := dt * b.Rate
	if !b.placed || b.Rate <= 0 || t >= 1 {
		b.pose = target
		b.placed = true
		return b.pose
	}
	if t < 0 {
		t = 0
	}
	b.pose.Position = b.pose.Position.Lerp(target.Position, t)
	b.pose.Rotation = b.pose.Rotation.Slerp(target.Rotation, t).Normalize()
	return b.pose
}

// Pose returns the current pose.
func (b *Brush) Pose() Pose {
	return b.pose
}

// Reset makes the next Follow snap to its target.
func (b *Brush) Reset() {
	b.placed = false
}
