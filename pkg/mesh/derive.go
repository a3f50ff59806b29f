package mesh

// Bottom writes the back face of b into dst: the same vertices and UVs with
// every triangle's winding reversed by swapping its second and third index.
func (b *Buffer) Bottom(dst *Buffer) {
	dst.Vertices = append(dst.Vertices[:0], b.Vertices...)
	dst.UVs = append(dst.UVs[:0], b.UVs...)
	dst.Triangles = append(dst.Triangles[:0], b.Triangles...)
	for i := 0; i+2 < len(dst.Triangles); i += 3 {
		dst.Triangles[i+1], dst.Triangles[i+2] = dst.Triangles[i+2], dst.Triangles[i+1]
	}
}

// Shadow writes b flattened onto the horizontal plane y = plane into dst.
// Triangles are shared unchanged.
func (b *Buffer) Shadow(dst *Buffer, plane float32) {
	dst.Vertices = append(dst.Vertices[:0], b.Vertices...)
	for i := range dst.Vertices {
		dst.Vertices[i].Y = plane
	}
	dst.UVs = append(dst.UVs[:0], b.UVs...)
	dst.Triangles = append(dst.Triangles[:0], b.Triangles...)
}
