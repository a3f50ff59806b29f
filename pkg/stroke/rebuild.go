package stroke

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/strokemesh/pkg/mesh"
	"github.com/Faultbox/strokemesh/pkg/simplify"
)

// Layers groups the buffers of one stroke. Disabled layers are nil.
type Layers struct {
	Main   *mesh.Buffer
	Bottom *mesh.Buffer
	Shadow *mesh.Buffer
}

// Each calls fn for every enabled layer in Main, Bottom, Shadow order.
func (l Layers) Each(fn func(Layer, *mesh.Buffer)) {
	if l.Main != nil {
		fn(LayerMain, l.Main)
	}
	if l.Bottom != nil {
		fn(LayerBottom, l.Bottom)
	}
	if l.Shadow != nil {
		fn(LayerShadow, l.Shadow)
	}
}

// Get returns the buffer for one layer, or nil when it is disabled.
func (l Layers) Get(layer Layer) *mesh.Buffer {
	switch layer {
	case LayerMain:
		return l.Main
	case LayerBottom:
		return l.Bottom
	case LayerShadow:
		return l.Shadow
	}
	return nil
}

// rebuild brings the geometry up to date with the samples and hands every
// layer to the sink. With runSimplify set the samples are simplified first,
// and any change throws the existing geometry away because it is keyed by
// sample index. It reports false when there is nothing to build yet.
func (s *Stroke) rebuild(runSimplify, optimize bool) bool {
	if len(s.samples) < 2 {
		return false
	}

	switch {
	case s.cfg.Style == Swatch:
		s.invalidate()
	case runSimplify:
		if kept, changed := simplify.DouglasPeucker(s.samples, samplePosition, s.cfg.Tolerance); changed {
			s.log.Debug("simplification dropped samples, rebuilding",
				zap.Int("before", len(s.samples)),
				zap.Int("after", len(kept)))
			s.samples = kept
			s.invalidate()
		}
	}

	s.build.extend(s.samples, s.clean)
	s.build.finalize(s.samples)
	s.clean = len(s.samples)

	deriveLayers(s.cfg, s.build.buffer(), &s.bottom, &s.shadow)
	if s.cfg.Sink != nil {
		s.Layers().Each(func(layer Layer, buf *mesh.Buffer) {
			s.cfg.Sink.Commit(layer, buf, optimize)
		})
	}
	return true
}

// invalidate drops all geometry so the next rebuild starts from scratch.
func (s *Stroke) invalidate() {
	s.build.reset()
	s.clean = 0
}

func deriveLayers(cfg Config, main, bottom, shadow *mesh.Buffer) {
	if cfg.Bottom {
		main.Bottom(bottom)
	}
	if cfg.Shadow {
		main.Shadow(shadow, cfg.ShadowPlane)
	}
}

// Build generates the layers for samples in one pass. It runs no
// simplification, so the result matches a stroke that ended with the same
// samples.
func Build(cfg Config, samples []Sample) (Layers, error) {
	if err := cfg.Validate(); err != nil {
		return Layers{}, err
	}
	for i, sample := range samples {
		if err := sample.Validate(); err != nil {
			return Layers{}, fmt.Errorf("sample %d: %w", i, err)
		}
	}

	b := newBuilder(cfg)
	if len(samples) >= 2 {
		b.extend(samples, 0)
		b.finalize(samples)
	}

	layers := Layers{Main: b.buffer()}
	if cfg.Bottom {
		layers.Bottom = &mesh.Buffer{}
	}
	if cfg.Shadow {
		layers.Shadow = &mesh.Buffer{}
	}
	deriveLayers(cfg, layers.Main, layers.Bottom, layers.Shadow)
	return layers, nil
}
