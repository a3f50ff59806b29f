package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// OBJWriter writes buffers as objects of one Wavefront OBJ file. OBJ
// indices are global to the file, so each object's faces are offset by
// the vertices written before it.
type OBJWriter struct {
	w    *bufio.Writer
	base uint32
}

// NewOBJWriter returns a writer that buffers output to w. Call Flush when done.
func NewOBJWriter(w io.Writer) *OBJWriter {
	return &OBJWriter{w: bufio.NewWriter(w)}
}

// Write appends b as an object with positions, texture coordinates and faces.
func (o *OBJWriter) Write(name string, b *Buffer) {
	if name != "" {
		fmt.Fprintf(o.w, "o %s\n", name)
	}
	for _, v := range b.Vertices {
		fmt.Fprintf(o.w, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, uv := range b.UVs {
		fmt.Fprintf(o.w, "vt %g %g\n", uv.X, uv.Y)
	}
	// OBJ indices are 1-based
	off := o.base + 1
	for i := 0; i+2 < len(b.Triangles); i += 3 {
		a, c, d := b.Triangles[i]+off, b.Triangles[i+1]+off, b.Triangles[i+2]+off
		fmt.Fprintf(o.w, "f %d/%d %d/%d %d/%d\n", a, a, c, c, d, d)
	}
	o.base += uint32(len(b.Vertices))
}

// Flush writes any buffered output.
func (o *OBJWriter) Flush() error {
	return o.w.Flush()
}

// WriteOBJ writes b as a single-object OBJ file.
func (b *Buffer) WriteOBJ(w io.Writer, name string) error {
	o := NewOBJWriter(w)
	o.Write(name, b)
	return o.Flush()
}
