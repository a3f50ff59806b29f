// Package viewer implements the interactive stroke drawing loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/strokemesh/internal/canvas"
	"github.com/Faultbox/strokemesh/internal/config"
	"github.com/Faultbox/strokemesh/internal/engine/camera"
	"github.com/Faultbox/strokemesh/internal/engine/input"
	"github.com/Faultbox/strokemesh/internal/engine/renderer"
	"github.com/Faultbox/strokemesh/internal/engine/screenshot"
	"github.com/Faultbox/strokemesh/internal/engine/window"
	"github.com/Faultbox/strokemesh/internal/logger"
	"github.com/Faultbox/strokemesh/internal/script"
	"github.com/Faultbox/strokemesh/pkg/math"
	"github.com/Faultbox/strokemesh/pkg/stroke"
)

const (
	title     = "StrokeMesh"
	nearPlane = 0.05
	farPlane  = 500
)

// Options holds what the viewer needs beyond the config file.
type Options struct {
	// Script is replayed onto the canvas at startup when set.
	Script string
	// SavePath is where the S key writes the canvas as a script.
	SavePath string
	// ScreenshotDir is where the P key writes PNG captures.
	ScreenshotDir string
}

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	opts    Options
	running bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	canvas   *canvas.Canvas
	shots    *screenshot.Capture

	style    stroke.Style
	color    int
	depth    float32
	hovered  canvas.StrokeID
	drawing  bool
	titleDue bool
	shotDue  bool
}

// New creates the window, renderer and canvas.
func New(cfg *config.Config, opts Options) (*Viewer, error) {
	style, err := cfg.Stroke.DefaultStyle()
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		cfg:      cfg,
		opts:     opts,
		log:      logger.Named("viewer"),
		style:    style,
		depth:    cfg.Viewer.BrushDepth,
		titleDue: true,
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Viewer.Width),
		zap.Int("height", cfg.Viewer.Height),
		zap.Stringer("style", style),
	)

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	fbW, fbH := v.window.GetDrawableSize()
	v.renderer, err = renderer.New(renderer.DefaultConfig(fbW, fbH))
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.shots = screenshot.New(opts.ScreenshotDir, "strokemesh")
	v.camera = camera.NewOrbitCamera(cfg.Viewer.Distance)
	v.canvas = canvas.New(v.renderer, canvas.Options{
		Configure: cfg.Stroke.Options,
		Width:     cfg.Stroke.Width,
		Smoothing: cfg.Viewer.Smoothing,
		Color:     v.paletteColor(),
		Logger:    logger.Named("canvas"),
	})

	if opts.Script != "" {
		if err := v.load(opts.Script); err != nil {
			v.Close()
			return nil, err
		}
	}

	v.log.Info("viewer initialized successfully")
	return v, nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()
	v.window.Tick()

	v.log.Info("starting viewer loop")

	for v.running {
		dt := v.window.Tick()

		if v.input.Update() {
			v.running = false
			break
		}

		for _, event := range v.input.Events() {
			v.handle(event, dt)
		}

		if err := v.update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		v.render()
		if v.shotDue {
			v.shotDue = false
			v.screenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	if v.canvas.Active() != nil {
		if _, err := v.canvas.End(); err != nil {
			v.log.Warn("failed to finish stroke on exit", zap.Error(err))
		}
	}
	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handle(event input.Event, dt float32) {
	switch event.Type {
	case input.EventWindowResize:
		v.renderer.Resize(v.window.GetDrawableSize())

	case input.EventKeyDown:
		v.handleKey(event.Key)

	case input.EventMouseDown:
		if event.Button == sdl.BUTTON_LEFT {
			if err := beginStroke(v.canvas, v.style, v.log); err != nil {
				v.log.Warn("failed to begin stroke", zap.Error(err))
				return
			}
			v.drawing = true
			v.move(event.MouseX, event.MouseY, dt)
		}

	case input.EventMouseUp:
		if event.Button == sdl.BUTTON_LEFT && v.drawing {
			v.drawing = false
			if _, err := v.canvas.End(); err != nil {
				v.log.Warn("failed to finish stroke", zap.Error(err))
			}
			v.titleDue = true
		}

	case input.EventMouseMove:
		if v.input.IsButtonDown(sdl.BUTTON_RIGHT) {
			v.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
		}

	case input.EventMouseWheel:
		v.camera.HandleZoom(event.Wheel)
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		if v.canvas.Cancel() {
			v.drawing = false
			return
		}
		v.running = false
	case sdl.SCANCODE_1:
		v.setStyle(stroke.Ribbon)
	case sdl.SCANCODE_2:
		v.setStyle(stroke.Swatch)
	case sdl.SCANCODE_3:
		v.setStyle(stroke.Tube)
	case sdl.SCANCODE_K:
		if n := len(v.cfg.Viewer.Palette); n > 0 {
			v.color = (v.color + 1) % n
			v.canvas.SetColor(v.paletteColor())
		}
	case sdl.SCANCODE_Z:
		v.canvas.Undo()
	case sdl.SCANCODE_C:
		v.canvas.Clear()
	case sdl.SCANCODE_X, sdl.SCANCODE_DELETE:
		if v.hovered != 0 {
			v.canvas.Remove(v.hovered)
			v.hovered = 0
		}
	case sdl.SCANCODE_F:
		if b, ok := sceneBounds(v.canvas.Strokes()); ok {
			v.camera.FitToBounds(b)
		}
	case sdl.SCANCODE_S:
		if err := v.save(); err != nil {
			v.log.Error("failed to save script", zap.Error(err))
		}
	case sdl.SCANCODE_P:
		v.shotDue = true
	case sdl.SCANCODE_EQUALS:
		v.depth *= 1.1
	case sdl.SCANCODE_MINUS:
		v.depth /= 1.1
	}
	v.titleDue = true
}

// paletteColor returns the selected palette entry, or the renderer default
// when the palette is empty.
func (v *Viewer) paletteColor() canvas.Color {
	if len(v.cfg.Viewer.Palette) == 0 {
		return canvas.Color{}
	}
	return canvas.Color(v.cfg.Viewer.Palette[v.color])
}

func (v *Viewer) setStyle(style stroke.Style) {
	if v.style == style {
		return
	}
	v.style = style
	v.log.Info("style changed", zap.Stringer("style", style))
}

// update feeds the brush while drawing and tracks the stroke under the cursor otherwise.
func (v *Viewer) update(dt float32) error {
	x, y := v.input.Mouse()
	if v.drawing {
		v.move(x, y, dt)
	} else {
		v.hovered = pickStroke(v.cursorRay(x, y), v.canvas)
		v.renderer.SetHighlight(v.hovered)
	}

	if v.titleDue {
		v.window.SetTitle(fmt.Sprintf("%s - %s - %d strokes - depth %.1f",
			title, v.style, len(v.canvas.IDs()), v.depth))
		v.titleDue = false
	}
	return nil
}

func (v *Viewer) move(x, y int, dt float32) {
	target, ok := brushTarget(v.camera, v.cursorRay(x, y), v.depth)
	if !ok {
		return
	}
	if _, err := v.canvas.Move(target, dt); err != nil {
		v.log.Warn("rejected brush sample", zap.Error(err))
	}
}

func (v *Viewer) projection() math.Mat4 {
	fov := v.cfg.Viewer.FOV * math32.Pi / 180
	return math.Perspective(fov, v.renderer.Aspect(), nearPlane, farPlane)
}

func (v *Viewer) render() {
	viewProj := v.projection().Mul(v.camera.ViewMatrix())

	v.renderer.Begin()
	v.renderer.Draw(viewProj)
	v.renderer.End()
}

// load replays a script onto the canvas.
func (v *Viewer) load(path string) error {
	file, err := script.Load(path)
	if err != nil {
		return err
	}
	if err := replay(v.canvas, file, v.cfg.Stroke.Width, v.log); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if b, ok := sceneBounds(v.canvas.Strokes()); ok {
		v.camera.FitToBounds(b)
	}
	v.log.Info("script loaded", zap.String("path", path), zap.Int("strokes", len(v.canvas.IDs())))
	return nil
}

// save writes the finished strokes as a script.
func (v *Viewer) save() error {
	path := v.opts.SavePath
	if path == "" {
		path = fmt.Sprintf("strokes-%s.yaml", time.Now().Format("20060102-150405"))
	}
	if err := snapshot(v.canvas).Save(path); err != nil {
		return err
	}
	v.log.Info("script saved", zap.String("path", path), zap.Int("strokes", len(v.canvas.IDs())))
	return nil
}

// screenshot captures the frame just rendered, before the buffer swap.
func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.Save(pixels, w, h)
	if err != nil {
		v.log.Error("failed to save screenshot", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}
