package stroke

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/strokemesh/pkg/math"
	"github.com/Faultbox/strokemesh/pkg/mesh"
)

// tubeBuilder sweeps a profile along the samples. Layout is the start cap
// rings, one ring per sample, then the end cap rings.
//
// The last ring, the triangles joining it and the end cap depend on the last
// sample, so they form a terminal region. The builder remembers where the
// stable geometry ends and every extension truncates back to that mark and
// regenerates everything after it.
type tubeBuilder struct {
	buf      mesh.Buffer
	profile  []math.Vec3
	capRings int

	started       bool
	stableVerts   int
	stableIndices int
	stableSamples int
}

func newTubeBuilder(profile []math.Vec3, capRings int) *tubeBuilder {
	return &tubeBuilder{profile: profile, capRings: capRings}
}

func (b *tubeBuilder) reset() {
	b.buf.Reset()
	b.started = false
	b.stableVerts = 0
	b.stableIndices = 0
	b.stableSamples = 0
}

// extend ignores from: everything before the watermark is already final.
func (b *tubeBuilder) extend(samples []Sample, _ int) {
	n := len(samples)
	if n < 2 {
		return
	}

	if !b.started {
		b.buf.Reset()
		b.startCap(samples)
		b.stableVerts = len(b.buf.Vertices)
		b.stableIndices = len(b.buf.Triangles)
		b.stableSamples = 0
		b.started = true
	}

	b.buf.Truncate(b.stableVerts, b.stableIndices)

	rings := n - b.stableSamples + b.capRings
	b.buf.Reserve(rings*len(b.profile), rings*6*len(b.profile))

	for i := b.stableSamples; i < n; i++ {
		b.ring(samples[i], ringRotation(samples, i), float32(i), 0, 0)
		if i > 0 || b.capRings > 0 {
			b.join(b.ringStart(i) - uint32(len(b.profile)))
		}
		if i == n-2 {
			b.stableVerts = len(b.buf.Vertices)
			b.stableIndices = len(b.buf.Triangles)
			b.stableSamples = n - 1
		}
	}

	b.endCap(samples)
}

func (b *tubeBuilder) finalize([]Sample) {}

func (b *tubeBuilder) buffer() *mesh.Buffer {
	return &b.buf
}

// ringStart is the first vertex index of sample i's ring.
func (b *tubeBuilder) ringStart(i int) uint32 {
	return uint32((b.capRings + i) * len(b.profile))
}

// ring appends one ring around s. The profile is scaled by radius (times
// width) and pushed along the ring's local +Z by offset (times width).
func (b *tubeBuilder) ring(s Sample, rot math.Quat, v, offset float32, capDepth int) {
	n := len(b.profile)
	radius := float32(1)
	if capDepth > 0 {
		a := capAngle(capDepth, b.capRings)
		radius = math32.Cos(a)
		offset *= math32.Sin(a)
	}
	for k, p := range b.profile {
		local := math.Vec3{X: p.X * radius, Y: p.Y * radius, Z: offset}
		pos := s.Position.Add(rot.Rotate(local).Scale(s.Width))
		b.buf.AddVertex(pos, math.Vec2{X: float32(k) / float32(n), Y: v})
	}
}

// join connects the ring starting at a to the ring that follows it.
func (b *tubeBuilder) join(a uint32) {
	n := uint32(len(b.profile))
	next := a + n
	for k := uint32(0); k < n; k++ {
		k1 := (k + 1) % n
		b.buf.AddTriangle(a+k, a+k1, next+k)
		b.buf.AddTriangle(a+k1, next+k1, next+k)
	}
}

// startCap emits capRings rings behind the first sample, closing to a point.
func (b *tubeBuilder) startCap(samples []Sample) {
	rot := ringRotation(samples, 0)
	for j := 0; j < b.capRings; j++ {
		b.ring(samples[0], rot, 0, -1, b.capRings-j)
		if j > 0 {
			b.join(uint32((j - 1) * len(b.profile)))
		}
	}
}

// endCap mirrors startCap past the last sample.
func (b *tubeBuilder) endCap(samples []Sample) {
	last := len(samples) - 1
	rot := ringRotation(samples, last)
	prev := b.ringStart(last)
	for j := 0; j < b.capRings; j++ {
		b.ring(samples[last], rot, float32(last), 1, j+1)
		b.join(prev)
		prev += uint32(len(b.profile))
	}
}

// capAngle is the angle of a cap ring depth steps out of c, in (0, pi/2].
// Radius is cos and offset sin of it, so the outermost ring is a point.
func capAngle(depth, c int) float32 {
	return math32.Pi / 2 * float32(depth) / float32(c)
}

// segmentRotation orients +Z along the segment leaving sample s. Zero-length
// segments fall back to the sample's Forward.
func segmentRotation(samples []Sample, s int) math.Quat {
	dir := samples[s+1].Position.Sub(samples[s].Position).Normalize()
	if dir == (math.Vec3{}) {
		dir = samples[s].Forward.Normalize()
	}
	if dir == (math.Vec3{}) {
		return math.QuatIdentity()
	}
	return math.QuatFromTo(math.Vec3Z, dir)
}

// ringRotation bisects the incoming and outgoing segment orientations.
// The first and last rings use their single segment.
func ringRotation(samples []Sample, i int) math.Quat {
	n := len(samples)
	switch {
	case i == 0:
		return segmentRotation(samples, 0)
	case i >= n-1:
		return segmentRotation(samples, n-2)
	default:
		return segmentRotation(samples, i-1).Slerp(segmentRotation(samples, i), 0.5)
	}
}
