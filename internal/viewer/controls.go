package viewer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/strokemesh/internal/canvas"
	"github.com/Faultbox/strokemesh/internal/engine/camera"
	"github.com/Faultbox/strokemesh/internal/engine/picking"
	"github.com/Faultbox/strokemesh/internal/script"
	"github.com/Faultbox/strokemesh/pkg/mesh"
	"github.com/Faultbox/strokemesh/pkg/stroke"
)

// pickMargin pads stroke bounds so flat ribbons can be hovered edge-on.
const pickMargin = 0.05

func (v *Viewer) cursorRay(x, y int) picking.Ray {
	w, h := v.window.GetSize()
	inv := v.projection().Mul(v.camera.ViewMatrix()).Inverse()
	return picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)
}

// brushTarget places the brush where the cursor ray crosses the plane depth
// units in front of the camera, oriented like the camera.
func brushTarget(cam *camera.OrbitCamera, ray picking.Ray, depth float32) (canvas.Pose, bool) {
	forward := cam.Forward()
	plane := cam.Position().Add(forward.Scale(depth))
	t, ok := ray.IntersectPlane(plane, forward)
	if !ok {
		return canvas.Pose{}, false
	}
	return canvas.Pose{Position: ray.At(t), Rotation: cam.Rotation()}, true
}

// pickStroke returns the nearest finished stroke whose bounds the ray hits, or 0.
func pickStroke(ray picking.Ray, c *canvas.Canvas) canvas.StrokeID {
	var (
		best     canvas.StrokeID
		bestDist float32
	)
	ids := c.IDs()
	for i, s := range c.Strokes() {
		m := s.Mesh()
		if m.Empty() {
			continue
		}
		t, hit := ray.IntersectBounds(picking.Pad(m.Bounds(), pickMargin))
		if hit && (best == 0 || t < bestDist) {
			best, bestDist = ids[i], t
		}
	}
	return best
}

// sceneBounds returns the union of the finished strokes' bounds.
func sceneBounds(strokes []*stroke.Stroke) (mesh.Bounds, bool) {
	var (
		out   mesh.Bounds
		found bool
	)
	for _, s := range strokes {
		m := s.Mesh()
		if m.Empty() {
			continue
		}
		b := m.Bounds()
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

// beginStroke starts a stroke. A stroke still open because the window never
// saw its button release is finished first.
func beginStroke(c *canvas.Canvas, style stroke.Style, log *zap.Logger) error {
	_, err := c.Begin(style)
	if !errors.Is(err, canvas.ErrStrokeActive) {
		return err
	}
	kept, endErr := c.End()
	log.Warn("finished dangling stroke", zap.Bool("kept", kept), zap.Error(endErr))
	_, err = c.Begin(style)
	return err
}

// replay draws the script's strokes onto c. Strokes without a width get width,
// strokes without a color get the canvas color.
func replay(c *canvas.Canvas, file *script.File, width float32, log *zap.Logger) error {
	color := c.Color()
	defer c.SetColor(color)

	for i := range file.Strokes {
		st := file.Strokes[i]
		if st.Width == 0 {
			st.Width = width
		}
		samples, err := st.Expand()
		if err != nil {
			return fmt.Errorf("%s: %w", st.Label(i), err)
		}

		c.SetColor(color)
		if st.Color != nil {
			c.SetColor(canvas.Color(*st.Color))
		}
		_, ok, err := c.Replay(st.Style, samples)
		if err != nil {
			return fmt.Errorf("%s: %w", st.Label(i), err)
		}
		if !ok {
			log.Warn("script stroke too small to keep", zap.String("stroke", st.Label(i)))
		}
	}
	return nil
}

// snapshot records the finished strokes as a script.
func snapshot(c *canvas.Canvas) *script.File {
	ids := c.IDs()
	f := &script.File{}
	for i, s := range c.Strokes() {
		name := fmt.Sprintf("stroke%d", ids[i])
		st := script.FromSamples(name, s.Style(), s.Samples())
		if color, ok := c.StrokeColor(ids[i]); ok && !color.IsZero() {
			rgba := [4]float32(color)
			st.Color = &rgba
		}
		f.Strokes = append(f.Strokes, st)
	}
	return f
}
