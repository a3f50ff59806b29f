// Package renderer draws stroke meshes with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/strokemesh/internal/canvas"
	"github.com/Faultbox/strokemesh/internal/engine/shader"
	"github.com/Faultbox/strokemesh/internal/logger"
	"github.com/Faultbox/strokemesh/pkg/math"
	"github.com/Faultbox/strokemesh/pkg/mesh"
	"github.com/Faultbox/strokemesh/pkg/stroke"
)

// floatsPerVertex matches mesh.Buffer.Interleave: position, normal, uv.
const floatsPerVertex = 8

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	// StrokeColor tints the main layer. Bottom and shadow colors derive from it.
	StrokeColor [4]float32
	Background  [4]float32
	LightDir    math.Vec3
}

// DefaultConfig returns the viewer's standard look.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:       width,
		Height:      height,
		StrokeColor: [4]float32{0.95, 0.55, 0.2, 1},
		Background:  [4]float32{0.1, 0.1, 0.15, 1},
		LightDir:    math.Vec3{X: -0.3, Y: -1, Z: -0.4}.Normalize(),
	}
}

// gpuMesh is one uploaded layer of a stroke.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	vboBytes      int
	eboBytes      int
	static        bool
}

// Renderer uploads stroke layers and draws them. It implements canvas.Renderer
// and must only be used from the thread owning the GL context.
type Renderer struct {
	config    Config
	program   *shader.Program
	strokes   map[canvas.StrokeID]*[stroke.LayerCount]*gpuMesh
	colors    map[canvas.StrokeID]canvas.Color
	highlight canvas.StrokeID
	log       *zap.Logger
}

var _ canvas.Renderer = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:  cfg,
		strokes: make(map[canvas.StrokeID]*[stroke.LayerCount]*gpuMesh),
		colors:  make(map[canvas.StrokeID]canvas.Color),
		log:     logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.program, err = shader.New(strokeVertexShader, strokeFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create stroke shader: %w", err)
	}

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("strokes", len(r.strokes)))
	for id := range r.strokes {
		r.Discard(id)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetHighlight marks one stroke to be drawn in the highlight color. Zero clears it.
func (r *Renderer) SetHighlight(id canvas.StrokeID) {
	r.highlight = id
}

// Tint sets the main-layer color of one stroke.
func (r *Renderer) Tint(id canvas.StrokeID, color canvas.Color) {
	r.colors[id] = color
}

// colorOf returns the color a stroke's main layer is drawn with.
func (r *Renderer) colorOf(id canvas.StrokeID) [4]float32 {
	if c, ok := r.colors[id]; ok && !c.IsZero() {
		return [4]float32(c)
	}
	return r.config.StrokeColor
}

// Commit uploads one layer of a stroke, replacing what was there.
func (r *Renderer) Commit(id canvas.StrokeID, layer stroke.Layer, buf *mesh.Buffer, optimize bool) {
	layers := r.strokes[id]
	if layers == nil {
		layers = new([stroke.LayerCount]*gpuMesh)
		r.strokes[id] = layers
	}
	m := layers[layer]
	if m == nil {
		m = newGPUMesh()
		layers[layer] = m
	}
	m.upload(buf, optimize)
}

// Discard releases every layer of a stroke.
func (r *Renderer) Discard(id canvas.StrokeID) {
	delete(r.colors, id)
	layers := r.strokes[id]
	if layers == nil {
		return
	}
	for _, m := range layers {
		if m != nil {
			m.delete()
		}
	}
	delete(r.strokes, id)
	if r.highlight == id {
		r.highlight = 0
	}
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders every stroke. Opaque layers go first, shadows last with
// blending on and depth writes off.
func (r *Renderer) Draw(viewProj math.Mat4) {
	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj)
	r.program.SetVec3("uLightDir", r.config.LightDir)

	// Main and bottom are separate meshes, so back faces are never needed
	gl.Enable(gl.CULL_FACE)
	gl.Uniform1f(r.program.Uniform("uLit"), 1)
	for id, layers := range r.strokes {
		for _, layer := range []stroke.Layer{stroke.LayerMain, stroke.LayerBottom} {
			if m := layers[layer]; m != nil {
				r.program.SetColor("uColor", layerColor(r.colorOf(id), layer, id == r.highlight))
				m.draw()
			}
		}
	}
	gl.Disable(gl.CULL_FACE)

	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(-1, -1)
	gl.Uniform1f(r.program.Uniform("uLit"), 0)
	r.program.SetColor("uColor", layerColor(r.config.StrokeColor, stroke.LayerShadow, false))
	for _, layers := range r.strokes {
		if m := layers[stroke.LayerShadow]; m != nil {
			m.draw()
		}
	}
	gl.Disable(gl.POLYGON_OFFSET_FILL)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	gl.BindVertexArray(0)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// layerColor returns the flat color a layer is drawn with.
func layerColor(base [4]float32, layer stroke.Layer, highlight bool) [4]float32 {
	c := base
	if highlight {
		c = [4]float32{0.3, 0.8, 1.0, 1}
	}
	switch layer {
	case stroke.LayerBottom:
		return [4]float32{c[0] * 0.6, c[1] * 0.6, c[2] * 0.6, c[3]}
	case stroke.LayerShadow:
		return [4]float32{0, 0, 0, 0.35}
	}
	return c
}

// bufferUsage picks the GL usage hint. Finished meshes are static.
func bufferUsage(optimize bool) uint32 {
	if optimize {
		return gl.STATIC_DRAW
	}
	return gl.DYNAMIC_DRAW
}

func newGPUMesh() *gpuMesh {
	m := &gpuMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return m
}

// upload replaces the mesh contents. Growing strokes reuse the existing
// allocation while it is large enough.
func (m *gpuMesh) upload(buf *mesh.Buffer, optimize bool) {
	m.count = int32(len(buf.Triangles))
	if buf.Empty() {
		return
	}

	verts := buf.Interleave()
	vertBytes := len(verts) * 4
	idxBytes := len(buf.Triangles) * 4

	gl.BindVertexArray(m.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if optimize || vertBytes > m.vboBytes || m.static {
		gl.BufferData(gl.ARRAY_BUFFER, vertBytes, unsafe.Pointer(&verts[0]), bufferUsage(optimize))
		m.vboBytes = vertBytes
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, vertBytes, unsafe.Pointer(&verts[0]))
	}

	if optimize || idxBytes > m.eboBytes || m.static {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, idxBytes, unsafe.Pointer(&buf.Triangles[0]), bufferUsage(optimize))
		m.eboBytes = idxBytes
	} else {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, idxBytes, unsafe.Pointer(&buf.Triangles[0]))
	}
	m.static = optimize

	gl.BindVertexArray(0)
}

func (m *gpuMesh) draw() {
	if m.count == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, 0)
}

func (m *gpuMesh) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}
