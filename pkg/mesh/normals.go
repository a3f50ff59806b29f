package mesh

import "github.com/Faultbox/strokemesh/pkg/math"

// Normals returns one normal per vertex, the area-weighted average of the
// faces that use it. Vertices with no usable face get +Y.
func (b *Buffer) Normals() []math.Vec3 {
	normals := make([]math.Vec3, len(b.Vertices))

	for i := 0; i+2 < len(b.Triangles); i += 3 {
		i0, i1, i2 := b.Triangles[i], b.Triangles[i+1], b.Triangles[i+2]
		v0 := b.Vertices[i0]
		e1 := b.Vertices[i1].Sub(v0)
		e2 := b.Vertices[i2].Sub(v0)

		// Unnormalized cross product length is twice the triangle area
		n := e1.Cross(e2)
		normals[i0] = normals[i0].Add(n)
		normals[i1] = normals[i1].Add(n)
		normals[i2] = normals[i2].Add(n)
	}

	for i, n := range normals {
		if n.LengthSq() < 1e-12 {
			normals[i] = math.Vec3Y
			continue
		}
		normals[i] = n.Normalize()
	}
	return normals
}

// Interleave packs position, normal and UV per vertex (8 floats) for GPU upload.
func (b *Buffer) Interleave() []float32 {
	normals := b.Normals()
	out := make([]float32, 0, len(b.Vertices)*8)
	for i, p := range b.Vertices {
		n := normals[i]
		uv := b.UVs[i]
		out = append(out, p.X, p.Y, p.Z, n.X, n.Y, n.Z, uv.X, uv.Y)
	}
	return out
}
