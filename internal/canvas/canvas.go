// Package canvas manages a drawing session: the stroke being drawn, the
// finished strokes, and handing their meshes to a renderer.
package canvas

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/strokemesh/pkg/mesh"
	"github.com/Faultbox/strokemesh/pkg/stroke"
)

// Canvas errors.
var (
	ErrNoActiveStroke = errors.New("no active stroke")
	ErrStrokeActive   = errors.New("a stroke is already being drawn")
)

// StrokeID identifies a stroke within one canvas.
type StrokeID uint64

// Color is a linear RGBA color. The zero Color means the renderer's default.
type Color [4]float32

// IsZero reports whether c is unset.
func (c Color) IsZero() bool {
	return c == Color{}
}

// Renderer consumes stroke meshes. Commit may be called many times per
// stroke as it grows; the buffer is only valid during the call.
type Renderer interface {
	Commit(id StrokeID, layer stroke.Layer, buf *mesh.Buffer, optimize bool)
	Discard(id StrokeID)
	// Tint sets the color a stroke is drawn with. It is called before the
	// stroke's first Commit.
	Tint(id StrokeID, color Color)
}

// Options configures a Canvas.
type Options struct {
	// Configure returns the settings for a new stroke. Defaults to stroke.DefaultConfig.
	Configure func(stroke.Style) stroke.Config
	// Width is the half-width of every sample.
	Width float32
	// Smoothing is the brush follow rate per second; 0 disables smoothing.
	Smoothing float32
	// Color is applied to strokes begun until SetColor changes it.
	Color  Color
	Logger *zap.Logger
}

type entry struct {
	id     StrokeID
	stroke *stroke.Stroke
	color  Color
}

// Canvas is not safe for concurrent use.
type Canvas struct {
	renderer  Renderer
	configure func(stroke.Style) stroke.Config
	width     float32
	log       *zap.Logger
	brush     Brush
	color     Color
	profiles  *stroke.ProfileTable

	nextID   StrokeID
	active   *entry
	finished []entry
}

// New creates a canvas that sends meshes to r.
func New(r Renderer, opts Options) *Canvas {
	if opts.Configure == nil {
		opts.Configure = stroke.DefaultConfig
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Width <= 0 {
		opts.Width = 0.1
	}
	return &Canvas{
		renderer:  r,
		configure: opts.Configure,
		width:     opts.Width,
		log:       opts.Logger,
		brush:     Brush{Rate: opts.Smoothing},
		color:     opts.Color,
		profiles:  stroke.NewProfileTable(),
		nextID:    1,
	}
}

// Begin starts a new stroke.
func (c *Canvas) Begin(style stroke.Style) (StrokeID, error) {
	if c.active != nil {
		return 0, ErrStrokeActive
	}

	id := c.nextID
	cfg := c.configure(style)
	cfg.Style = style
	cfg.Logger = c.log.With(zap.Uint64("stroke", uint64(id)))
	if cfg.Profiles == nil {
		cfg.Profiles = c.profiles
	}
	cfg.Sink = stroke.SinkFunc(func(layer stroke.Layer, buf *mesh.Buffer, optimize bool) {
		c.renderer.Commit(id, layer, buf, optimize)
	})

	s, err := stroke.New(cfg)
	if err != nil {
		return 0, fmt.Errorf("begin stroke: %w", err)
	}

	c.nextID++
	c.active = &entry{id: id, stroke: s, color: c.color}
	if !c.color.IsZero() {
		c.renderer.Tint(id, c.color)
	}
	c.brush.Reset()
	c.log.Debug("stroke started", zap.Uint64("stroke", uint64(id)), zap.Stringer("style", style))
	return id, nil
}

// Move feeds the brush target to the active stroke after smoothing it over dt
// seconds. It reports whether the stroke kept the sample.
func (c *Canvas) Move(target Pose, dt float32) (bool, error) {
	if c.active == nil {
		return false, ErrNoActiveStroke
	}
	pose := c.brush.Follow(target, dt)
	return c.active.stroke.Consider(stroke.Sample{
		Position: pose.Position,
		Right:    pose.Right(),
		Forward:  pose.Forward(),
		Width:    c.width,
	})
}

// End finishes the active stroke. Strokes too small to keep are discarded
// from the renderer and End reports false.
func (c *Canvas) End() (bool, error) {
	if c.active == nil {
		return false, ErrNoActiveStroke
	}
	e := *c.active
	c.active = nil

	ok, err := e.stroke.Finish()
	if err != nil {
		c.renderer.Discard(e.id)
		return false, err
	}
	if !ok {
		c.log.Debug("discarding degenerate stroke", zap.Uint64("stroke", uint64(e.id)))
		c.renderer.Discard(e.id)
		return false, nil
	}

	c.finished = append(c.finished, e)
	c.log.Info("stroke finished",
		zap.Uint64("stroke", uint64(e.id)),
		zap.Stringer("style", e.stroke.Style()),
		zap.Int("samples", e.stroke.Len()),
		zap.Int("triangles", e.stroke.Mesh().TriangleCount()))
	return true, nil
}

// Cancel drops the active stroke without finishing it.
func (c *Canvas) Cancel() bool {
	if c.active == nil {
		return false
	}
	c.renderer.Discard(c.active.id)
	c.active = nil
	return true
}

// Undo removes the most recently finished stroke.
func (c *Canvas) Undo() bool {
	n := len(c.finished)
	if n == 0 {
		return false
	}
	e := c.finished[n-1]
	c.finished = c.finished[:n-1]
	c.renderer.Discard(e.id)
	c.log.Debug("undo", zap.Uint64("stroke", uint64(e.id)))
	return true
}

// Clear removes every stroke, including the active one.
func (c *Canvas) Clear() {
	c.Cancel()
	for _, e := range c.finished {
		c.renderer.Discard(e.id)
	}
	c.finished = c.finished[:0]
}

// Remove deletes the finished stroke with the given id.
func (c *Canvas) Remove(id StrokeID) bool {
	for i, e := range c.finished {
		if e.id != id {
			continue
		}
		c.finished = append(c.finished[:i], c.finished[i+1:]...)
		c.renderer.Discard(id)
		c.log.Debug("stroke removed", zap.Uint64("stroke", uint64(id)))
		return true
	}
	return false
}

// Replay draws a stroke from recorded samples without brush smoothing.
// It reports false when the stroke ended up too small to keep.
func (c *Canvas) Replay(style stroke.Style, samples []stroke.Sample) (StrokeID, bool, error) {
	id, err := c.Begin(style)
	if err != nil {
		return 0, false, err
	}
	for i, smp := range samples {
		if _, err := c.active.stroke.Consider(smp); err != nil {
			c.Cancel()
			return 0, false, fmt.Errorf("replay sample %d: %w", i, err)
		}
	}
	ok, err := c.End()
	return id, ok, err
}

// SetColor sets the color of strokes begun from now on. The zero Color
// restores the renderer default.
func (c *Canvas) SetColor(color Color) {
	c.color = color
}

// Color returns the color new strokes get.
func (c *Canvas) Color() Color {
	return c.color
}

// StrokeColor returns the color a finished stroke was drawn with.
func (c *Canvas) StrokeColor(id StrokeID) (Color, bool) {
	for _, e := range c.finished {
		if e.id == id {
			return e.color, true
		}
	}
	return Color{}, false
}

// Active returns the stroke being drawn, or nil.
func (c *Canvas) Active() *stroke.Stroke {
	if c.active == nil {
		return nil
	}
	return c.active.stroke
}

// Strokes returns the finished strokes, oldest first.
func (c *Canvas) Strokes() []*stroke.Stroke {
	out := make([]*stroke.Stroke, len(c.finished))
	for i, e := range c.finished {
		out[i] = e.stroke
	}
	return out
}

// IDs returns the finished stroke IDs, oldest first.
func (c *Canvas) IDs() []StrokeID {
	out := make([]StrokeID, len(c.finished))
	for i, e := range c.finished {
		out[i] = e.id
	}
	return out
}
