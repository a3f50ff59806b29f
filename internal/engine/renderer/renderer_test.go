package renderer

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/strokemesh/internal/canvas"
	"github.com/Faultbox/strokemesh/pkg/stroke"
)

func TestLayerColor(t *testing.T) {
	base := [4]float32{1, 0.5, 0, 1}

	assert.Equal(t, base, layerColor(base, stroke.LayerMain, false))
	assert.Equal(t, [4]float32{0.6, 0.3, 0, 1}, layerColor(base, stroke.LayerBottom, false))
	assert.Equal(t, float32(0.35), layerColor(base, stroke.LayerShadow, true)[3])
	assert.NotEqual(t, base, layerColor(base, stroke.LayerMain, true))
}

func TestBufferUsage(t *testing.T) {
	assert.Equal(t, uint32(gl.STATIC_DRAW), bufferUsage(true))
	assert.Equal(t, uint32(gl.DYNAMIC_DRAW), bufferUsage(false))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(800, 600)
	assert.InDelta(t, 1, cfg.LightDir.Length(), 1e-5)
	assert.Less(t, cfg.LightDir.Y, float32(0))
}

func TestStrokeTint(t *testing.T) {
	r := &Renderer{
		config: DefaultConfig(640, 480),
		colors: make(map[canvas.StrokeID]canvas.Color),
	}
	green := canvas.Color{0, 1, 0, 1}

	r.Tint(1, green)
	assert.Equal(t, [4]float32(green), r.colorOf(1))
	assert.Equal(t, r.config.StrokeColor, r.colorOf(2))

	// Discard forgets the tint even when nothing was uploaded.
	r.Discard(1)
	assert.Equal(t, r.config.StrokeColor, r.colorOf(1))
}
