// Package mesh holds the plain triangle buffers produced for strokes.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/strokemesh/pkg/math"
)

// ErrInvalidBuffer is returned by Validate when a buffer breaks its invariants.
var ErrInvalidBuffer = errors.New("invalid mesh buffer")

// Buffer is a renderable triangle mesh. Triangles holds index triples into
// Vertices; UVs runs parallel to Vertices.
type Buffer struct {
	Vertices  []math.Vec3
	UVs       []math.Vec2
	Triangles []uint32
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// VertexCount returns the number of vertices.
func (b *Buffer) VertexCount() int {
	return len(b.Vertices)
}

// TriangleCount returns the number of triangles.
func (b *Buffer) TriangleCount() int {
	return len(b.Triangles) / 3
}

// Empty reports whether the buffer has no triangles.
func (b *Buffer) Empty() bool {
	return len(b.Triangles) == 0
}

// Reset empties the buffer but keeps its storage.
func (b *Buffer) Reset() {
	b.Truncate(0, 0)
}

// Truncate cuts the buffer back to the given vertex and index counts.
func (b *Buffer) Truncate(vertices, indices int) {
	b.Vertices = b.Vertices[:vertices]
	b.UVs = b.UVs[:vertices]
	b.Triangles = b.Triangles[:indices]
}

// Reserve grows capacity so that the given number of extra vertices and
// indices can be appended without reallocating.
func (b *Buffer) Reserve(vertices, indices int) {
	if need := len(b.Vertices) + vertices; need > cap(b.Vertices) {
		b.Vertices = grow(b.Vertices, need)
		b.UVs = grow(b.UVs, need)
	}
	if need := len(b.Triangles) + indices; need > cap(b.Triangles) {
		b.Triangles = grow(b.Triangles, need)
	}
}

func grow[T any](s []T, need int) []T {
	c := 2 * cap(s)
	if c < need {
		c = need
	}
	out := make([]T, len(s), c)
	copy(out, s)
	return out
}

// AddVertex appends a vertex and returns its index.
func (b *Buffer) AddVertex(p math.Vec3, uv math.Vec2) uint32 {
	b.Vertices = append(b.Vertices, p)
	b.UVs = append(b.UVs, uv)
	return uint32(len(b.Vertices) - 1)
}

// AddTriangle appends one index triple.
func (b *Buffer) AddTriangle(i0, i1, i2 uint32) {
	b.Triangles = append(b.Triangles, i0, i1, i2)
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		Vertices:  append([]math.Vec3(nil), b.Vertices...),
		UVs:       append([]math.Vec2(nil), b.UVs...),
		Triangles: append([]uint32(nil), b.Triangles...),
	}
}

// Validate checks that UVs match vertices, the index list holds whole
// triangles and every index is in range.
func (b *Buffer) Validate() error {
	if len(b.Vertices) != len(b.UVs) {
		return fmt.Errorf("%w: %d vertices but %d uvs", ErrInvalidBuffer, len(b.Vertices), len(b.UVs))
	}
	if len(b.Triangles)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidBuffer, len(b.Triangles))
	}
	n := uint32(len(b.Vertices))
	for i, idx := range b.Triangles {
		if idx >= n {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrInvalidBuffer, idx, i, n)
		}
	}
	return nil
}

// Bounds returns the bounding box of the vertices. An empty buffer has zero bounds.
func (b *Buffer) Bounds() Bounds {
	if len(b.Vertices) == 0 {
		return Bounds{}
	}
	bounds := Bounds{Min: b.Vertices[0], Max: b.Vertices[0]}
	for _, p := range b.Vertices[1:] {
		updateBounds(&bounds, p)
	}
	return bounds
}

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	updateBounds(&b, o.Min)
	updateBounds(&b, o.Max)
	return b
}

func updateBounds(b *Bounds, p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}
