package stroke

import (
	"github.com/Faultbox/strokemesh/pkg/math"
	"github.com/Faultbox/strokemesh/pkg/mesh"
)

// ribbonBuilder emits a quad strip: two vertices per sample, offset along
// Right by Width. With travel direction d and lateral r the front face
// normal is d x r.
type ribbonBuilder struct {
	buf mesh.Buffer
}

func (b *ribbonBuilder) reset() {
	b.buf.Reset()
}

func (b *ribbonBuilder) extend(samples []Sample, from int) {
	if from > len(samples) {
		from = len(samples)
	}
	b.buf.Truncate(2*from, 6*max(from-1, 0))
	b.buf.Reserve(2*(len(samples)-from), 6*(len(samples)-from))

	for i := from; i < len(samples); i++ {
		s := samples[i]
		offset := s.Right.Scale(s.Width)
		b.buf.AddVertex(s.Position.Sub(offset), math.Vec2{X: 0})
		b.buf.AddVertex(s.Position.Add(offset), math.Vec2{X: 1})

		if i > 0 {
			j := uint32(2 * (i - 1))
			b.buf.AddTriangle(j, j+2, j+1)
			b.buf.AddTriangle(j+1, j+2, j+3)
		}
	}
}

// finalize stretches v over the whole stroke so it runs 0..1 regardless of
// how many appends built it.
func (b *ribbonBuilder) finalize(samples []Sample) {
	n := len(samples)
	if n < 2 {
		return
	}
	last := float32(n - 1)
	for i := 0; i < n; i++ {
		v := float32(i) / last
		b.buf.UVs[2*i].Y = v
		b.buf.UVs[2*i+1].Y = v
	}
}

func (b *ribbonBuilder) buffer() *mesh.Buffer {
	return &b.buf
}
